package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for all stored password hashes.
const Cost = 10

// HashPassword hashes a plain password using bcrypt with a per-hash salt.
func HashPassword(plainPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares plain password with stored hash in constant time.
func VerifyPassword(plainPassword, storedHash string) bool {
	if plainPassword == "" || storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plainPassword)) == nil
}
