package validator

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid email", "user@example.com", true},
		{"Valid with +", "user+tag@example.com", true},
		{"Valid subdomain", "a.b@mail.example.co", true},
		{"Invalid - no @", "userexample.com", false},
		{"Invalid - no domain", "user@", false},
		{"Invalid - spaces", "user name@example.com", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.expected {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.expected)
			}
		})
	}
}

func TestGetEmailError(t *testing.T) {
	if msg := GetEmailError(""); msg == "" {
		t.Error("GetEmailError(\"\") = \"\", want error message")
	}
	if msg := GetEmailError("not-an-email"); msg == "" {
		t.Error("GetEmailError(\"not-an-email\") = \"\", want error message")
	}
	if msg := GetEmailError("a@x.com"); msg != "" {
		t.Errorf("GetEmailError(\"a@x.com\") = %q, want \"\"", msg)
	}
}

func TestGetPasswordError(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Empty", "", true},
		{"Too short", "abc12", true},
		{"Minimum length", "abc123", false},
		{"Long", "correct horse battery staple", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := GetPasswordError(tt.password)
			if (msg != "") != tt.wantErr {
				t.Errorf("GetPasswordError(%q) = %q, wantErr %v", tt.password, msg, tt.wantErr)
			}
		})
	}
}
