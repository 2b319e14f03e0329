package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/internal/testutil"
	"atithi_backend/pkg/apperrors"
)

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

func newAuthFixture(t *testing.T) (services.AuthService, repositories.UserRepository, *testutil.RecordingMailer) {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	mailer := &testutil.RecordingMailer{}
	userRepo := repositories.NewUserRepository(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Hour)
	return services.NewAuthService(userRepo, tokens, mailer, cfg), userRepo, mailer
}

func extractOTP(t *testing.T, body string) string {
	t.Helper()
	match := otpPattern.FindStringSubmatch(body)
	require.NotNil(t, match, "verification email should contain a 6-digit code")
	return match[1]
}

func TestRegister_VerifyOTP_PromotesAccount(t *testing.T) {
	svc, userRepo, mailer := newAuthFixture(t)
	ctx := context.Background()

	err := svc.Register(ctx, &dto.RegisterRequest{
		FullName:    "New Customer",
		Email:       "new@example.com",
		Password:    "password123",
		PhoneNumber: "9876543210",
	})
	require.NoError(t, err)

	// Nothing in the users table until the code is confirmed.
	_, err = userRepo.GetByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	otp := extractOTP(t, mailer.Last().Body)

	resp, err := svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "new@example.com", OTP: otp})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserRoleCustomer, resp.User.Role)

	user, err := userRepo.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)

	// The staged row is gone, so the code cannot be replayed.
	_, err = svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "new@example.com", OTP: otp})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidToken, appErr.Code)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &models.User{
		FullName:     "Existing",
		Email:        "taken@example.com",
		PasswordHash: "x",
		PhoneNumber:  "1234567890",
		Role:         models.UserRoleCustomer,
	}))

	err := svc.Register(ctx, &dto.RegisterRequest{
		FullName:    "Someone Else",
		Email:       "taken@example.com",
		Password:    "password123",
		PhoneNumber: "9876543210",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestRegister_SendFailureClearsStagedRow(t *testing.T) {
	svc, userRepo, mailer := newAuthFixture(t)
	ctx := context.Background()
	mailer.Fail = true

	err := svc.Register(ctx, &dto.RegisterRequest{
		FullName:    "New Customer",
		Email:       "bounce@example.com",
		Password:    "password123",
		PhoneNumber: "9876543210",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)

	// No stale staging row survives, so a retry starts clean.
	deleted, err := userRepo.DeleteExpiredTempUsers(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestVerifyOTP_WrongCodeFails(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{
		FullName:    "New Customer",
		Email:       "new@example.com",
		Password:    "password123",
		PhoneNumber: "9876543210",
	}))

	_, err := svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "new@example.com", OTP: "000000"})
	var appErr *apperrors.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, apperrors.CodeInvalidToken, appErr.Code)
	}
}

func TestLogin(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, &models.User{
		FullName:     "Customer",
		Email:        "login@example.com",
		PasswordHash: hash,
		PhoneNumber:  "1234567890",
		Role:         models.UserRoleCustomer,
	}))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "wrong"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)

	// Unknown email gets the same answer as a wrong password.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, userRepo, mailer := newAuthFixture(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("oldpassword")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, &models.User{
		FullName:     "Customer",
		Email:        "reset@example.com",
		PasswordHash: hash,
		PhoneNumber:  "1234567890",
		Role:         models.UserRoleCustomer,
	}))

	// Unknown email is silently accepted.
	require.NoError(t, svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "nobody@example.com"}))
	assert.Equal(t, 0, mailer.Count())

	require.NoError(t, svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "reset@example.com"}))
	require.Equal(t, 1, mailer.Count())

	tokenPattern := regexp.MustCompile(`token=([0-9a-f]+)`)
	match := tokenPattern.FindStringSubmatch(mailer.Last().Body)
	require.NotNil(t, match)

	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:    match[1],
		Password: "newpassword1",
	}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "newpassword1"})
	assert.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: match[1], Password: "another111"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidToken, appErr.Code)
}
