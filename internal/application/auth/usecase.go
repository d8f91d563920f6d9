package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/pkg/jwt"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

const minPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Config parámetros del caso de uso.
type Config struct {
	JWT    JWTConfig
	OTPTTL time.Duration
}

// AuthUseCase registro con verificación de email por OTP y login.
type AuthUseCase struct {
	users    repository.UserRepository
	otps     repository.OTPRepository
	tx       repository.TxRunner
	audit    *audit.Recorder
	notifier ports.Notifier
	limiter  ports.RateLimiter // nil = sin límite
	cfg      Config
	log      *logger.Logger
	clock    func() time.Time
	newCode  func() (string, error)
}

// NewAuthUseCase construye el caso de uso de auth. limiter puede ser nil.
func NewAuthUseCase(
	users repository.UserRepository,
	otps repository.OTPRepository,
	tx repository.TxRunner,
	recorder *audit.Recorder,
	notifier ports.Notifier,
	limiter ports.RateLimiter,
	cfg Config,
	log *logger.Logger,
) *AuthUseCase {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	return &AuthUseCase{
		users:    users,
		otps:     otps,
		tx:       tx,
		audit:    recorder,
		notifier: notifier,
		limiter:  limiter,
		cfg:      cfg,
		log:      log.Named("auth"),
		clock:    func() time.Time { return time.Now().UTC() },
		newCode:  GenerateCode,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(clock func() time.Time) *AuthUseCase {
	c := *uc
	c.clock = clock
	return &c
}

// WithCodeGenerator reemplaza el generador de códigos (tests).
func (uc *AuthUseCase) WithCodeGenerator(gen func() (string, error)) *AuthUseCase {
	c := *uc
	c.newCode = gen
	return &c
}

// Register crea un usuario no verificado y le envía un código OTP.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uc.issue(ctx, email); err != nil {
		uc.log.Warn().Err(err).Str("email", email).Msg("no se pudo emitir el OTP de registro")
	}
	return usecase.ToUserResponse(user), nil
}

// ResendOTP emite un nuevo código. Un email desconocido o ya verificado no hace nada.
func (uc *AuthUseCase) ResendOTP(ctx context.Context, in dto.ResendOTPRequest) error {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.Verified {
		return nil
	}
	return uc.issue(ctx, email)
}

// VerifyOTP valida el último código emitido para el email y marca al usuario como verificado.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest, meta dto.RequestMeta) (*dto.UserResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)

	latest, err := uc.otps.LatestByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.IsExpired(uc.clock()) ||
		subtle.ConstantTimeCompare([]byte(latest.Code), []byte(code)) != 1 {
		return nil, domain.ErrInvalidOTP
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidOTP
	}
	if user.Verified {
		return usecase.ToUserResponse(user), nil
	}

	err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Users.MarkVerified(ctx, user.ID); err != nil {
			return err
		}
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:     user.ID,
			EntityType: entity.AuditEntityUser,
			EntityID:   user.ID,
			Operation:  entity.AuditOpUpdate,
			Details:    map[string]any{"email": user.Email, "action": "Email verified"},
			Meta:       meta,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Verified = true
	return usecase.ToUserResponse(user), nil
}

// Login verifica credenciales y que el email esté verificado; devuelve un JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Verified {
		return nil, domain.ErrEmailNotVerified
	}
	token, err := jwt.Generate(uc.cfg.JWT.Secret, user.ID, user.Email, uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *usecase.ToUserResponse(user)}, nil
}

// issue genera, persiste y envía un código. El envío no bloquea el resultado.
func (uc *AuthUseCase) issue(ctx context.Context, email string) error {
	if uc.limiter != nil {
		ok, err := uc.limiter.Allow(ctx, "otp:"+email)
		if err != nil {
			uc.log.Warn().Err(err).Msg("rate limiter no disponible; se permite la emisión")
		} else if !ok {
			return domain.ErrRateLimited
		}
	}
	code, err := uc.newCode()
	if err != nil {
		return err
	}
	otp := &entity.OneTimeCode{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		ExpiresAt: uc.clock().Add(uc.cfg.OTPTTL),
	}
	if err := uc.otps.Create(ctx, otp); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(uc.cfg.OTPTTL.Minutes()))
	if err := uc.notifier.Send(ctx, email, "Verify your email", body); err != nil {
		uc.log.Error().Err(err).Str("email", email).Msg("no se pudo enviar el OTP")
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.NewValidationError("email", "es obligatorio")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "formato inválido")
	}
	return email, nil
}
