package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/config"
	"atithi_backend/internal/email"
	"atithi_backend/internal/logger"
	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
	resetTTL  = 15 * time.Minute
)

// AuthService implements the OTP-staged registration flow: Register parks
// the account in a temporary row and emails a code; VerifyOTP promotes it to
// a real account. Nothing appears in the users table until the code matches.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	mailer   email.Mailer
	cfg      *config.Config
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, mailer email.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return apperrors.NewEmailAlreadyExists()
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError("Failed to check existing account", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError("Failed to hash password", err)
	}

	otp, err := auth.GenerateOTP(otpLength)
	if err != nil {
		return apperrors.InternalError("Failed to generate verification code", err)
	}

	temp := &models.TempUser{
		FullName:                     req.FullName,
		Email:                        req.Email,
		PasswordHash:                 hash,
		PhoneNumber:                  req.PhoneNumber,
		EmailVerificationToken:       auth.HashToken(otp),
		EmailVerificationTokenExpiry: time.Now().Add(otpTTL),
	}
	if err := s.userRepo.UpsertTempUser(ctx, temp); err != nil {
		return apperrors.InternalError("Failed to stage registration", err)
	}

	body := email.OTPBody(req.FullName, otp)
	if err := s.mailer.Send(req.Email, "Your verification code", body); err != nil {
		// No code ever reached the inbox, so the staged row is useless.
		if cleanupErr := s.userRepo.DeleteTempUsersByEmail(ctx, req.Email); cleanupErr != nil {
			logger.CtxWithError(ctx, "failed to clear temp registration after send failure", cleanupErr, "email", req.Email)
		}
		return apperrors.NewEmailDeliveryError(err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	temp, err := s.userRepo.GetTempUserByToken(ctx, req.Email, auth.HashToken(req.OTP), time.Now())
	if errors.Is(err, repositories.ErrTempUserNotFound) {
		return nil, apperrors.NewTokenInvalidOrExpired()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to verify code", err)
	}

	user := &models.User{
		FullName:        temp.FullName,
		Email:           temp.Email,
		PasswordHash:    temp.PasswordHash,
		PhoneNumber:     temp.PhoneNumber,
		Role:            models.UserRoleCustomer,
		IsEmailVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError("Failed to create account", err)
	}

	if err := s.userRepo.DeleteTempUsersByEmail(ctx, temp.Email); err != nil {
		logger.CtxWithError(ctx, "failed to clear temp registration", err, "email", temp.Email)
	}

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch account", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}
	return s.issueToken(user)
}

// ForgotPassword always succeeds from the caller's point of view so the
// endpoint cannot be used to probe which emails have accounts.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.InternalError("Failed to fetch account", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return apperrors.InternalError("Failed to generate reset token", err)
	}

	expiry := time.Now().Add(resetTTL)
	user.ForgotPasswordToken = auth.HashToken(token)
	user.ForgotPasswordTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.InternalError("Failed to store reset token", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Frontend.BaseURL, token)
	body := email.PasswordResetBody(user.FullName, link)
	if err := s.mailer.Send(user.Email, "Reset your password", body); err != nil {
		return apperrors.NewEmailDeliveryError(err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByResetToken(ctx, auth.HashToken(req.Token))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewTokenInvalidOrExpired()
	}
	if err != nil {
		return apperrors.InternalError("Failed to verify reset token", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError("Failed to hash password", err)
	}

	user.PasswordHash = hash
	user.ForgotPasswordToken = ""
	user.ForgotPasswordTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.InternalError("Failed to update password", err)
	}
	return nil
}

func (s *authService) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError("Failed to issue token", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}
