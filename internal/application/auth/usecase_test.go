package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/auth"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
	"github.com/VishalKmk/Inventory-Management-App/pkg/jwt"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

const secret = "test-secret"

type outbox struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (o *outbox) Send(_ context.Context, to, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, to+"|"+body)
	return o.err
}

type denyAll struct{ err error }

func (d denyAll) Allow(context.Context, string) (bool, error) { return false, d.err }

type harness struct {
	store *memory.Store
	uc    *auth.AuthUseCase
	mail  *outbox
	now   time.Time
	codes []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: memory.NewStore(),
		mail:  &outbox{},
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		codes: []string{"111111", "222222", "333333"},
	}
	h.uc = h.build(nil)
	return h
}

func (h *harness) build(limiter ports.RateLimiter) *auth.AuthUseCase {
	rec := audit.NewRecorder(logger.NewNop(), nil)
	cfg := auth.Config{JWT: auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "inventory"}, OTPTTL: 10 * time.Minute}
	return auth.NewAuthUseCase(h.store.Users(), h.store.OTP(), h.store, rec, h.mail, limiter, cfg, logger.NewNop()).
		WithClock(func() time.Time { return h.now }).
		WithCodeGenerator(func() (string, error) {
			c := h.codes[0]
			h.codes = h.codes[1:]
			return c, nil
		})
}

func (h *harness) register(t *testing.T, email string) *dto.UserResponse {
	t.Helper()
	u, err := h.uc.Register(context.Background(), dto.RegisterRequest{Name: "Ana", Email: email, Password: "s3cret-pass"})
	require.NoError(t, err)
	return u
}

func TestRegister_EnviaOTP(t *testing.T) {
	h := newHarness(t)

	u := h.register(t, "  Ana@Example.com ")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.False(t, u.Verified)
	require.Len(t, h.mail.sent, 1)
	assert.Contains(t, h.mail.sent[0], "ana@example.com|")
	assert.Contains(t, h.mail.sent[0], "111111")

	stored, err := h.store.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}

func TestRegister_Validaciones(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.com")

	_, err := h.uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ANA@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	for _, in := range []dto.RegisterRequest{
		{Name: " ", Email: "b@example.com", Password: "s3cret-pass"},
		{Name: "B", Email: "not-an-email", Password: "s3cret-pass"},
		{Name: "B", Email: "b@example.com", Password: "short"},
	} {
		_, err := h.uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegister_FalloDeEnvioNoFalla(t *testing.T) {
	h := newHarness(t)
	h.mail.err = errors.New("smtp down")

	u := h.register(t, "ana@example.com")
	assert.NotEmpty(t, u.ID)
}

func TestVerifyOTP_YLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.com")

	_, err := h.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: "999999"}, dto.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)

	u, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: " 111111 "}, dto.RequestMeta{IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.True(t, u.Verified)

	logs, _, err := h.store.Audit().List(ctx, entity.AuditFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditEntityUser, logs[0].EntityType)
	assert.Equal(t, "10.0.0.9", logs[0].IPAddress)

	// Verificar de nuevo es idempotente.
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: "111111"}, dto.RequestMeta{})
	require.NoError(t, err)

	res, err := h.uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	userID, email, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "ana@example.com", email)

	_, err = h.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOTP_Expirado(t *testing.T) {
	h := newHarness(t)
	h.register(t, "ana@example.com")
	h.now = h.now.Add(10 * time.Minute)

	_, err := h.uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "ana@example.com", Code: "111111"}, dto.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestVerifyOTP_SoloValeElUltimo(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.com")
	h.now = h.now.Add(time.Minute)
	require.NoError(t, h.uc.ResendOTP(ctx, dto.ResendOTPRequest{Email: "ana@example.com"}))
	require.Len(t, h.mail.sent, 2)

	_, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: "111111"}, dto.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	_, err = h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: "222222"}, dto.RequestMeta{})
	assert.NoError(t, err)
}

func TestResendOTP_SilencioParaDesconocidosYVerificados(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.uc.ResendOTP(ctx, dto.ResendOTPRequest{Email: "ghost@example.com"}))
	assert.Empty(t, h.mail.sent)

	h.register(t, "ana@example.com")
	_, err := h.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@example.com", Code: "111111"}, dto.RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, h.uc.ResendOTP(ctx, dto.ResendOTPRequest{Email: "ana@example.com"}))
	assert.Len(t, h.mail.sent, 1)
}

func TestResendOTP_RateLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.com")

	limited := h.build(denyAll{})
	err := limited.ResendOTP(ctx, dto.ResendOTPRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	// Si el limitador falla, se permite.
	failOpen := h.build(denyAll{err: errors.New("redis down")})
	require.NoError(t, failOpen.ResendOTP(ctx, dto.ResendOTPRequest{Email: "ana@example.com"}))
	assert.Len(t, h.mail.sent, 2)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := auth.GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
