package validator

import (
	"regexp"
	"strings"
)

// Regex patterns
var (
	// Email pattern - RFC 5322 simplified
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return EmailPattern.MatchString(email)
}

// IsValidPassword validates password length
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// GetEmailError returns user-friendly error message for email
func GetEmailError(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email is required"
	}
	if !IsValidEmail(trimmed) {
		return "Invalid email address. Example: user@example.com"
	}
	return ""
}

// GetPasswordError returns user-friendly error message for password
func GetPasswordError(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < MinPasswordLength {
		return "Password must be at least 6 characters"
	}
	return ""
}
