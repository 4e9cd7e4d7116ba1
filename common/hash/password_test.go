package hash

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"Normal password", "Pass123"},
		{"Complex password", "Abc@123#XYZ"},
		{"Long password", strings.Repeat("a1", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword() error = %v", err)
			}
			if !strings.HasPrefix(got, "$2a$10$") {
				t.Errorf("HashPassword() = %q, want bcrypt hash with cost 10", got)
			}
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	plainPassword := "Pass123"
	hash, err := HashPassword(plainPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		plain    string
		hash     string
		expected bool
	}{
		{"Correct password", plainPassword, hash, true},
		{"Wrong password", "WrongPass", hash, false},
		{"Empty plain", "", hash, false},
		{"Empty hash", plainPassword, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyPassword(tt.plain, tt.hash)
			if got != tt.expected {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// Hash then verify must round-trip for any printable ASCII password.
func TestHashVerifyRoundTrip(t *testing.T) {
	passwords := []string{
		"a",
		"123456",
		"correct horse battery staple",
		"!@#$%^&*()_+-=[]{}|;':\",./<>?",
		strings.Repeat("x", 72), // bcrypt input limit
	}

	for _, pw := range passwords {
		hash, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("HashPassword(%q) error = %v", pw, err)
		}
		if !VerifyPassword(pw, hash) {
			t.Errorf("VerifyPassword(%q) = false after HashPassword, want true", pw)
		}
		if VerifyPassword(pw+"x", hash) && len(pw) < 72 {
			t.Errorf("VerifyPassword(%q) = true for wrong password", pw+"x")
		}
	}
}

// Two hashes of the same password must differ (per-hash salt).
func TestHashSalted(t *testing.T) {
	h1, err := HashPassword("Pass123")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("Pass123")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Errorf("two hashes of the same password are identical, salt missing")
	}
}
