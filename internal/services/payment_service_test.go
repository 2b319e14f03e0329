package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/internal/testutil"
)

func TestCreateOrder_UsesConfiguredFee(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	settingRepo := repositories.NewSettingRepository(db)

	var received map[string]any
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pg/orders", r.URL.Path)
		assert.Equal(t, "cf-test-app", r.Header.Get("x-client-id"))
		assert.Equal(t, "cf-test-secret", r.Header.Get("x-client-secret"))
		assert.NotEmpty(t, r.Header.Get("x-api-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"order_id":           received["order_id"],
			"payment_session_id": "session_abc",
			"order_amount":       received["order_amount"],
			"order_currency":     "INR",
		})
	}))
	defer gateway.Close()
	cfg.Payment.BaseURL = gateway.URL

	svc := services.NewPaymentService(settingRepo, repositories.NewUserRepository(db), cfg)

	order, err := svc.CreateOrder(context.Background(), nil, &dto.CreateOrderRequest{
		CustomerName:  "Guest",
		CustomerEmail: "guest@example.com",
		CustomerPhone: "9876543210",
	})
	require.NoError(t, err)

	// The amount comes from settings (default fee), never from the client.
	assert.InDelta(t, 450.0, order.Amount, 0.001)
	assert.InDelta(t, 450.0, received["order_amount"].(float64), 0.001)
	assert.Equal(t, "session_abc", order.PaymentSessionID)
	assert.Equal(t, "INR", order.Currency)
}

func TestCreateOrder_SignedInUserDetailsComeFromAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	userRepo := repositories.NewUserRepository(db)

	user := &models.User{
		FullName:     "Registered Customer",
		Email:        "registered@example.com",
		PasswordHash: "x",
		PhoneNumber:  "9000000001",
		Role:         models.UserRoleCustomer,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	var received map[string]any
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"order_id":           received["order_id"],
			"payment_session_id": "session_xyz",
			"order_amount":       received["order_amount"],
			"order_currency":     "INR",
		})
	}))
	defer gateway.Close()
	cfg.Payment.BaseURL = gateway.URL

	svc := services.NewPaymentService(repositories.NewSettingRepository(db), userRepo, cfg)

	// Request-body contact details are ignored for a signed-in caller.
	_, err := svc.CreateOrder(context.Background(), &user.ID, &dto.CreateOrderRequest{
		CustomerName:  "Spoofed Name",
		CustomerEmail: "spoof@example.com",
		CustomerPhone: "1111111111",
	})
	require.NoError(t, err)

	details := received["customer_details"].(map[string]any)
	assert.Equal(t, user.ID, details["customer_id"])
	assert.Equal(t, "Registered Customer", details["customer_name"])
	assert.Equal(t, "registered@example.com", details["customer_email"])
	assert.Equal(t, "9000000001", details["customer_phone"])
}

func TestCreateOrder_GatewayErrorSurfaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer gateway.Close()
	cfg.Payment.BaseURL = gateway.URL

	svc := services.NewPaymentService(repositories.NewSettingRepository(db), repositories.NewUserRepository(db), cfg)

	_, err := svc.CreateOrder(context.Background(), nil, &dto.CreateOrderRequest{
		CustomerName:  "Guest",
		CustomerEmail: "guest@example.com",
		CustomerPhone: "9876543210",
	})
	assert.Error(t, err)
}

func TestVerifyWebhookSignature(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	svc := services.NewPaymentService(repositories.NewSettingRepository(db), repositories.NewUserRepository(db), cfg)

	rawBody := []byte(`{"data":{"order":{"order_id":"order_1"},"payment":{"payment_status":"SUCCESS"}}}`)
	timestamp := "1693312345"

	mac := hmac.New(sha256.New, []byte(cfg.Payment.SecretKey))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.VerifyWebhookSignature(rawBody, timestamp, signature))

	// Any tampering invalidates the signature.
	assert.False(t, svc.VerifyWebhookSignature(append(rawBody, ' '), timestamp, signature))
	assert.False(t, svc.VerifyWebhookSignature(rawBody, "1693312346", signature))
	assert.False(t, svc.VerifyWebhookSignature(rawBody, timestamp, "bogus"))
	assert.False(t, svc.VerifyWebhookSignature(rawBody, "", ""))
}
