package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/go-auth-services/common/errors"
)

const (
	// otpKeyPrefix namespaces reset challenges in the shared Redis keyspace
	otpKeyPrefix = "pwdreset"

	// OTPTTL is how long a reset challenge stays valid
	OTPTTL = 900 * time.Second
)

// OTPManager keeps reset challenges in Redis: one challenge per email with a
// TTL. Writing a new challenge overwrites any previous one, so only the most
// recently issued OTP is ever valid. Keys expire by TTL, and are also
// deleted explicitly after successful consumption.
type OTPManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPManager creates an OTP manager on top of the given Redis client
func NewOTPManager(client *redis.Client) *OTPManager {
	return &OTPManager{
		client: client,
		ttl:    OTPTTL,
	}
}

func (m *OTPManager) key(email string) string {
	return otpKeyPrefix + ":" + email
}

// GenerateOTP returns a 6-digit code sampled uniformly from 100000-999999
func (m *OTPManager) GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Store upserts the challenge for the email with a fresh TTL. Last write
// wins: a second request silently invalidates the previous OTP.
func (m *OTPManager) Store(ctx context.Context, email, otp string) error {
	if err := m.client.Set(ctx, m.key(email), otp, m.ttl).Err(); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// Verify checks the supplied OTP against the stored challenge. A missing
// challenge (never requested, expired, or already consumed) and a mismatch
// are indistinguishable to the caller: both are OTPInvalid.
func (m *OTPManager) Verify(ctx context.Context, email, otp string) error {
	stored, err := m.client.Get(ctx, m.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.OTPInvalid()
		}
		return apperrors.StoreUnavailable(err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(otp)) != 1 {
		return apperrors.OTPInvalid()
	}

	return nil
}

// Invalidate deletes the challenge. Called after a successful reset so the
// same OTP cannot be replayed inside the remaining TTL window.
func (m *OTPManager) Invalidate(ctx context.Context, email string) error {
	if err := m.client.Del(ctx, m.key(email)).Err(); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}
