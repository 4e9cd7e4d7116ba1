package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "E1001"

	// Validation errors (2xxx)
	ErrCodeValidation      ErrorCode = "E2001"
	ErrCodeMissingField    ErrorCode = "E2002"
	ErrCodeInvalidEmail    ErrorCode = "E2003"
	ErrCodeInvalidPassword ErrorCode = "E2004"

	// Resource errors (3xxx)
	ErrCodeUserNotFound  ErrorCode = "E3001"
	ErrCodeDuplicateUser ErrorCode = "E3002"

	// OTP / reset errors (4xxx)
	ErrCodeOTPInvalid ErrorCode = "E4001"

	// External service errors (5xxx)
	ErrCodeDeliveryFailed   ErrorCode = "E5001"
	ErrCodeStoreUnavailable ErrorCode = "E5002"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
)

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Is lets errors.Is match two AppErrors by code, so callers can compare
// against the predefined constructors without caring about the cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
	}
}

// ============================================================
// Predefined error constructors
// ============================================================

func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid credentials")
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("%s is required", field))
}

func InvalidEmail() *AppError {
	return New(ErrCodeInvalidEmail, "Invalid email address")
}

func InvalidPassword() *AppError {
	return New(ErrCodeInvalidPassword, "Password must be at least 6 characters")
}

func UserNotFound() *AppError {
	return New(ErrCodeUserNotFound, "User not found")
}

func DuplicateUser() *AppError {
	return New(ErrCodeDuplicateUser, "User already exists")
}

func OTPInvalid() *AppError {
	return New(ErrCodeOTPInvalid, "Invalid OTP")
}

func DeliveryFailed(err error) *AppError {
	return Wrap(err, ErrCodeDeliveryFailed, "Failed to send OTP")
}

func StoreUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeStoreUnavailable, "Store unavailable")
}

func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "An unexpected error occurred. Please try again.")
}

// ============================================================
// Helper functions
// ============================================================

func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeValidation, ErrCodeMissingField, ErrCodeInvalidEmail,
		ErrCodeInvalidPassword, ErrCodeDuplicateUser, ErrCodeOTPInvalid:
		return http.StatusBadRequest
	case ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ToAppError converts any error to AppError
func ToAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal(err)
}
