package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	appanalytics "github.com/VishalKmk/Inventory-Management-App/internal/application/analytics"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/auth"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/cache"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/mail"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/memory"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/metrics"
	infrapdf "github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/pdf"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/postgres"
	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/storage/s3"
	httpRouter "github.com/VishalKmk/Inventory-Management-App/internal/interfaces/http"
	"github.com/VishalKmk/Inventory-Management-App/pkg/config"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// repositories puertos de persistencia, implementados por PostgreSQL o por el store en memoria.
type repositories struct {
	users    repository.UserRepository
	spaces   repository.SpaceRepository
	products repository.ProductRepository
	audit    repository.AuditRepository
	otp      repository.OTPRepository
	tx       repository.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos := openRepositories(ctx, cfg, log)
	defer repos.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := metrics.New(reg)

	// Redis opcional: limita la emisión de OTP por email y las peticiones a /api/auth por IP.
	var otpLimiter ports.RateLimiter
	deps := httpRouter.RouterDeps{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.New(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func() { _ = redisCache.Close() }()
		otpLimiter = redisCache.NewRateLimiter(cfg.OTP.ResendPerMinute)
		deps.AuthLimiter = redisCache.NewRateLimiter(authRequestsPerMinute)
		log.Info().Msg("rate limiting con Redis habilitado")
	}

	var archive ports.ReportArchive
	if cfg.S3.Bucket != "" {
		a, err := s3.New(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		archive = a
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("archivo de reportes en S3 habilitado")
	}

	recorder := audit.NewRecorder(log, prom)
	guard := access.NewGuard(repos.spaces, repos.products)

	authUC := auth.NewAuthUseCase(
		repos.users, repos.otp, repos.tx, recorder,
		mail.New(cfg.Mail, log), otpLimiter,
		auth.Config{
			JWT: auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			},
			OTPTTL: cfg.OTP.TTL,
		},
		log,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.spaces, repos.products, repos.audit)

	deps.AppName = cfg.App.Name
	deps.AuthUC = authUC
	deps.UserUC = usecase.NewUserUseCase(repos.users)
	deps.SpaceUC = usecase.NewSpaceUseCase(repos.spaces, repos.products, repos.tx, guard, recorder)
	deps.ProductUC = usecase.NewProductUseCase(repos.products, repos.tx, guard, recorder)
	deps.StockUC = inventory.NewStockUseCase(repos.tx, guard, recorder, prom)
	deps.Replenishment = inventory.NewReplenishmentUseCase(repos.products, guard)
	deps.AuditQuery = audit.NewQueryUseCase(repos.audit)
	deps.DashboardUC = dashboardUC
	deps.ReportUC = appanalytics.NewReportUseCase(dashboardUC, repos.users, infrapdf.NewMarotoPDFGenerator(), archive, log)
	deps.JWTSecret = cfg.JWT.Secret
	deps.Log = log
	deps.Observer = prom
	deps.Gatherer = reg
	deps.SwaggerFile = cfg.HTTP.SwaggerFile
	deps.TrustedProxies = cfg.HTTP.TrustedProxies

	app := httpRouter.NewApp(deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

const authRequestsPerMinute = 30

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) *repositories {
	if cfg.DB.Driver == config.StorageDriverMemory {
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			spaces:   store.Spaces(),
			products: store.Products(),
			audit:    store.Audit(),
			otp:      store.OTP(),
			tx:       store,
			close:    func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		n, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Int("applied", n).Msg("migraciones aplicadas")
	}
	return &repositories{
		users:    postgres.NewUserRepository(pool),
		spaces:   postgres.NewSpaceRepository(pool),
		products: postgres.NewProductRepository(pool),
		audit:    postgres.NewAuditRepository(pool),
		otp:      postgres.NewOTPRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}
}
