package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"atithi_backend/internal/config"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

const paymentAPIVersion = "2023-08-01"

// PaymentService fronts the Cashfree order API. The order amount always
// comes from the settings singleton, never from the client.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID *string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetOrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error)
	VerifyWebhookSignature(rawBody []byte, timestamp, signature string) bool
}

type paymentService struct {
	settingRepo repositories.SettingRepository
	userRepo    repositories.UserRepository
	cfg         *config.Config
	client      *http.Client
}

func NewPaymentService(settingRepo repositories.SettingRepository, userRepo repositories.UserRepository, cfg *config.Config) PaymentService {
	return &paymentService{
		settingRepo: settingRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder opens a gateway order. A signed-in caller's customer details
// come from their account; a guest's come from the request with a synthesized
// customer id.
func (s *paymentService) CreateOrder(ctx context.Context, userID *string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		return nil, apperrors.InternalError("Failed to read application fee", err)
	}

	customerID := "cust_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	customerName := req.CustomerName
	customerEmail := req.CustomerEmail
	customerPhone := req.CustomerPhone
	if userID == nil && (customerEmail == "" || customerPhone == "") {
		return nil, apperrors.NewBadRequestError("Customer email and phone are required")
	}
	if userID != nil {
		user, err := s.userRepo.GetByID(ctx, *userID)
		if err != nil {
			return nil, apperrors.InternalError("Failed to fetch account", err)
		}
		customerID = user.ID
		customerName = user.FullName
		customerEmail = user.Email
		customerPhone = user.PhoneNumber
	}

	orderID := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	payload := map[string]any{
		"order_id":       orderID,
		"order_amount":   setting.ApplicationFee,
		"order_currency": "INR",
		"customer_details": map[string]any{
			"customer_id":    customerID,
			"customer_name":  customerName,
			"customer_email": customerEmail,
			"customer_phone": customerPhone,
		},
		"order_meta": map[string]any{
			"return_url": s.cfg.Payment.ReturnURL,
		},
	}

	var created struct {
		OrderID          string  `json:"order_id"`
		PaymentSessionID string  `json:"payment_session_id"`
		OrderAmount      float64 `json:"order_amount"`
		OrderCurrency    string  `json:"order_currency"`
	}
	if err := s.call(ctx, http.MethodPost, "/pg/orders", payload, &created); err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		OrderID:          created.OrderID,
		PaymentSessionID: created.PaymentSessionID,
		Amount:           created.OrderAmount,
		Currency:         created.OrderCurrency,
	}, nil
}

func (s *paymentService) GetOrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error) {
	var order struct {
		OrderID     string  `json:"order_id"`
		OrderStatus string  `json:"order_status"`
		OrderAmount float64 `json:"order_amount"`
	}
	if err := s.call(ctx, http.MethodGet, "/pg/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &dto.OrderStatusResponse{
		OrderID:     order.OrderID,
		OrderStatus: order.OrderStatus,
		Amount:      order.OrderAmount,
	}, nil
}

// VerifyWebhookSignature checks base64(HMAC-SHA256(secret, timestamp+rawBody))
// against the signature header the gateway sent.
func (s *paymentService) VerifyWebhookSignature(rawBody []byte, timestamp, signature string) bool {
	if timestamp == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.Payment.SecretKey))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func (s *paymentService) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return apperrors.InternalError("Failed to encode gateway request", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.Payment.BaseURL+path, body)
	if err != nil {
		return apperrors.NewPaymentGatewayError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", paymentAPIVersion)
	req.Header.Set("x-client-id", s.cfg.Payment.AppID)
	req.Header.Set("x-client-secret", s.cfg.Payment.SecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.NewPaymentGatewayError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.NewPaymentGatewayError(fmt.Errorf("gateway returned %d: %s", resp.StatusCode, data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewPaymentGatewayError(err)
		}
	}
	return nil
}
