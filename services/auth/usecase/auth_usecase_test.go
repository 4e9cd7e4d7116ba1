package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/go-auth-services/common/errors"
	"github.com/go-auth-services/common/hash"
	"github.com/go-auth-services/services/auth/models"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, email, passwordHash string) (int64, error) {
	if _, ok := r.users[email]; ok {
		return 0, apperrors.DuplicateUser()
	}
	r.nextID++
	r.users[email] = &models.User{ID: r.nextID, Email: email, PasswordHash: passwordHash}
	return r.nextID, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) error {
	user, ok := r.users[email]
	if !ok {
		return apperrors.UserNotFound()
	}
	user.PasswordHash = passwordHash
	return nil
}

// fakeMailer records outgoing OTP mail
type fakeMailer struct {
	sent    []string // delivered OTPs, in order
	sendErr error
}

func (m *fakeMailer) SendOTPEmail(_, otp string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, otp)
	return nil
}

func (m *fakeMailer) lastOTP(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent, "no OTP mail recorded")
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	uc     *AuthUseCase
	repo   *fakeUserRepo
	mailer *fakeMailer
	mr     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	return &testEnv{
		uc:     NewAuthUseCase(repo, NewOTPManager(client), mailer),
		repo:   repo,
		mailer: mailer,
		mr:     mr,
	}
}

func (e *testEnv) register(t *testing.T, email, password string) {
	t.Helper()
	require.NoError(t, e.uc.Register(context.Background(), models.RegisterRequest{
		Email:    email,
		Password: password,
	}))
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")

	// The stored hash is bcrypt, never the plaintext
	user := env.repo.users["a@x.com"]
	require.NotNil(t, user)
	assert.NotEqual(t, "pw1234", user.PasswordHash)
	assert.True(t, hash.VerifyPassword("pw1234", user.PasswordHash))

	// Second registration with the same email is rejected
	err := env.uc.Register(ctx, models.RegisterRequest{Email: "a@x.com", Password: "other1"})
	assert.ErrorIs(t, err, apperrors.DuplicateUser())
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"Empty email", "", "pw1234"},
		{"Malformed email", "not-an-email", "pw1234"},
		{"Empty password", "a@x.com", ""},
		{"Short password", "a@x.com", "pw1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.uc.Register(ctx, models.RegisterRequest{Email: tt.email, Password: tt.password})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.ToAppError(err).Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")

	assert.ErrorIs(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "missing@x.com", Password: "pw1234"}),
		apperrors.UserNotFound())

	assert.ErrorIs(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "wrong1"}),
		apperrors.InvalidCredentials())

	assert.NoError(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw1234"}))
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	err := env.uc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@x.com"})
	assert.ErrorIs(t, err, apperrors.UserNotFound())
	assert.Empty(t, env.mailer.sent)
	assert.False(t, env.mr.Exists("pwdreset:ghost@x.com"))
}

func TestForgotPasswordStoresAndSendsOTP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")
	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))

	otp := env.mailer.lastOTP(t)
	assert.Len(t, otp, 6)
	stored, err := env.mr.Get("pwdreset:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, otp, stored)
	assert.Equal(t, OTPTTL, env.mr.TTL("pwdreset:a@x.com"))
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")
	env.mailer.sendErr = errors.New("smtp: connection refused")

	err := env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperrors.DeliveryFailed(nil))

	// The challenge survives the failed send, so Step A can be retried and
	// the already-stored OTP still completes a reset.
	storedOTP, err := env.mr.Get("pwdreset:a@x.com")
	require.NoError(t, err)
	require.Len(t, storedOTP, 6)
	assert.NoError(t, env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         storedOTP,
		NewPassword: "pw5678",
	}))
}

func TestResetPasswordWithoutRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")

	// No prior Step A: InvalidOTP, not UserNotFound, whether or not the
	// user exists.
	err := env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: "123456", NewPassword: "pw5678",
	})
	assert.ErrorIs(t, err, apperrors.OTPInvalid())

	err = env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "ghost@x.com", OTP: "123456", NewPassword: "pw5678",
	})
	assert.ErrorIs(t, err, apperrors.OTPInvalid())
}

func TestResetPasswordReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")
	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	otp := env.mailer.lastOTP(t)

	require.NoError(t, env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: otp, NewPassword: "pw5678",
	}))

	// The challenge was deleted on success: the same OTP must not work twice
	err := env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: otp, NewPassword: "pw9999",
	})
	assert.ErrorIs(t, err, apperrors.OTPInvalid())
}

func TestSecondRequestInvalidatesFirstOTP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")

	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	first := env.mailer.lastOTP(t)

	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	second := env.mailer.lastOTP(t)

	if first != second {
		err := env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: "a@x.com", OTP: first, NewPassword: "pw5678",
		})
		assert.ErrorIs(t, err, apperrors.OTPInvalid())
	}

	assert.NoError(t, env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: second, NewPassword: "pw5678",
	}))
}

func TestResetPasswordExpiredChallenge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1234")
	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	otp := env.mailer.lastOTP(t)

	env.mr.FastForward(OTPTTL + 1)

	err := env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: otp, NewPassword: "pw5678",
	})
	assert.ErrorIs(t, err, apperrors.OTPInvalid())
}

// Full reset lifecycle: old password stops working, new one takes over.
func TestPasswordResetScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@x.com", "pw1-secret")

	assert.ErrorIs(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "wrong1"}),
		apperrors.InvalidCredentials())
	assert.NoError(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw1-secret"}))

	require.NoError(t, env.uc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	otp := env.mailer.lastOTP(t)

	require.NoError(t, env.uc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "a@x.com", OTP: otp, NewPassword: "pw2-secret",
	}))

	assert.ErrorIs(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw1-secret"}),
		apperrors.InvalidCredentials())
	assert.NoError(t,
		env.uc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw2-secret"}))
}
