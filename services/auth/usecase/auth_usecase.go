package usecase

import (
	"context"

	apperrors "github.com/go-auth-services/common/errors"
	"github.com/go-auth-services/common/hash"
	"github.com/go-auth-services/common/logger"
	"github.com/go-auth-services/common/validator"
	"github.com/go-auth-services/services/auth/models"
)

// UserRepository is the durable credential store, keyed by email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (int64, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

// OTPStore is the ephemeral challenge store with per-key expiry.
type OTPStore interface {
	GenerateOTP() (string, error)
	Store(ctx context.Context, email, otp string) error
	Verify(ctx context.Context, email, otp string) error
	Invalidate(ctx context.Context, email string) error
}

// OTPSender delivers the reset OTP out of band.
type OTPSender interface {
	SendOTPEmail(to, otp string) error
}

// AuthUseCase handles authentication business logic. All collaborators are
// injected at construction; the use case itself holds no connection state.
type AuthUseCase struct {
	users  UserRepository
	otps   OTPStore
	mailer OTPSender
	log    *logger.Logger
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(users UserRepository, otps OTPStore, mailer OTPSender) *AuthUseCase {
	return &AuthUseCase{
		users:  users,
		otps:   otps,
		mailer: mailer,
		log:    logger.Default(),
	}
}

// Register handles user registration
func (uc *AuthUseCase) Register(ctx context.Context, req models.RegisterRequest) error {
	// Validate input
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return apperrors.ValidationError(msg)
	}
	if msg := validator.GetPasswordError(req.Password); msg != "" {
		return apperrors.ValidationError(msg)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return apperrors.Internal(err)
	}

	// Duplicate emails are rejected by the store's unique constraint
	userID, err := uc.users.CreateUser(ctx, req.Email, passwordHash)
	if err != nil {
		return err
	}

	uc.log.Info("user registered", "email", req.Email, "user_id", userID)
	return nil
}

// Login verifies credentials. Read-only: no session or token is issued,
// callers treat the success status itself as the trust signal.
func (uc *AuthUseCase) Login(ctx context.Context, req models.LoginRequest) error {
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return apperrors.ValidationError(msg)
	}
	if req.Password == "" {
		return apperrors.MissingField("Password")
	}

	user, err := uc.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.UserNotFound()
	}

	if !hash.VerifyPassword(req.Password, user.PasswordHash) {
		return apperrors.InvalidCredentials()
	}

	return nil
}

// ForgotPassword starts the reset flow: generate a 6-digit OTP, store it
// against the email with a 900s TTL (overwriting any pending challenge),
// then mail it out. If delivery fails the challenge is intentionally kept
// so the client can retry the request safely.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return apperrors.ValidationError(msg)
	}

	user, err := uc.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.UserNotFound()
	}

	otp, err := uc.otps.GenerateOTP()
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := uc.otps.Store(ctx, req.Email, otp); err != nil {
		return err
	}

	if err := uc.mailer.SendOTPEmail(req.Email, otp); err != nil {
		uc.log.Error("failed to send OTP email", "email", req.Email, "error", err)
		return apperrors.DeliveryFailed(err)
	}

	uc.log.Info("OTP sent for password reset", "email", req.Email)
	return nil
}

// ResetPassword completes the reset flow. The OTP check runs before the user
// lookup, so a missing challenge reports OTPInvalid regardless of whether
// the email is registered. On success the challenge is deleted explicitly;
// relying on TTL expiry alone would leave a replay window.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return apperrors.ValidationError(msg)
	}
	if req.OTP == "" {
		return apperrors.MissingField("OTP")
	}
	if msg := validator.GetPasswordError(req.NewPassword); msg != "" {
		return apperrors.ValidationError(msg)
	}

	if err := uc.otps.Verify(ctx, req.Email, req.OTP); err != nil {
		return err
	}

	user, err := uc.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.UserNotFound()
	}

	passwordHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := uc.users.UpdatePasswordByEmail(ctx, req.Email, passwordHash); err != nil {
		return err
	}

	// Mandatory delete: the credential write above and this delete are not
	// atomic, a crash in between leaves the challenge live until its TTL.
	if err := uc.otps.Invalidate(ctx, req.Email); err != nil {
		uc.log.Error("failed to invalidate OTP after reset", "email", req.Email, "error", err)
		return err
	}

	uc.log.Info("password reset completed", "email", req.Email)
	return nil
}
