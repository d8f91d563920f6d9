package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/VishalKmk/Inventory-Management-App/internal/application/analytics"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/auth"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	SpaceUC       *usecase.SpaceUseCase
	ProductUC     *usecase.ProductUseCase
	StockUC       *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	AuditQuery    *audit.QueryUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	ReportUC      *appanalytics.ReportUseCase
	JWTSecret     string
	Log           *logger.Logger

	// Opcionales: nil los deshabilita.
	AuthLimiter limiter             // peticiones por IP en /api/auth
	Observer    requestObserver     // métricas HTTP
	Gatherer    prometheus.Gatherer // expone /metrics
	SwaggerFile string              // UI en /docs si el archivo existe

	// IPs o CIDRs de los proxies cuyo X-Forwarded-For se acepta. Vacío: siempre la IP remota.
	TrustedProxies []string
}

// NewApp construye la aplicación Fiber con middlewares, endpoints operativos y rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(deps.Log),

		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          deps.TrustedProxies,
		EnableIPValidation:      true,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log.Named("http"), deps.Observer))
	app.Use(recover.New())

	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    "Inventory Management API",
			}))
		} else {
			deps.Log.Warn().Str("file", deps.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Log)
	authGroup := api.Group("/auth", RateLimit("auth", deps.AuthLimiter, deps.Log))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/users/me", authHandler.Me)

	spaceHandler := NewSpaceHandler(deps.SpaceUC, deps.Log)
	spaces := protected.Group("/spaces")
	spaces.Post("/", spaceHandler.Create)
	spaces.Get("/", spaceHandler.List)
	spaces.Get("/creation-status", spaceHandler.Quota)
	spaces.Get("/:spaceId", spaceHandler.GetByID)
	spaces.Put("/:spaceId", spaceHandler.Rename)
	spaces.Delete("/:spaceId", spaceHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.Replenishment, deps.Log)
	inSpace := spaces.Group("/:spaceId/products")
	inSpace.Post("/", productHandler.Create)
	inSpace.Get("/", productHandler.ListBySpace)
	inSpace.Get("/low-stock", productHandler.LowStockInSpace)
	inSpace.Get("/:productId", productHandler.GetByID)
	inSpace.Put("/:productId", productHandler.Update)
	inSpace.Delete("/:productId", productHandler.Delete)
	inSpace.Post("/:productId/stock/add", productHandler.AddStock)
	inSpace.Post("/:productId/stock/remove", productHandler.RemoveStock)
	inSpace.Put("/:productId/stock", productHandler.SetStock)

	products := protected.Group("/products")
	products.Get("/", productHandler.ListAll)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/replenishment", productHandler.Replenishment)

	auditHandler := NewAuditHandler(deps.AuditQuery, deps.Log)
	auditLogs := protected.Group("/audit-logs")
	auditLogs.Get("/", auditHandler.List)
	auditLogs.Get("/summary", auditHandler.Summary)
	auditLogs.Get("/recent", auditHandler.Recent)
	auditLogs.Get("/trends", auditHandler.Trends)
	auditLogs.Get("/filters", auditHandler.Filters)
	auditLogs.Get("/entity/:entityId", auditHandler.EntityHistory)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC, deps.Log)
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/overview", dashboardHandler.Overview)
	dashboard.Get("/insights", dashboardHandler.Insights)
	dashboard.Get("/low-stock-alerts", dashboardHandler.LowStockAlerts)
	dashboard.Get("/recent-activity", dashboardHandler.RecentActivity)
	dashboard.Get("/space-metrics", dashboardHandler.SpaceMetrics)
	dashboard.Get("/top-products", dashboardHandler.TopProducts)
	dashboard.Get("/trends", dashboardHandler.Trends)
	dashboard.Get("/report", dashboardHandler.Report)
}
