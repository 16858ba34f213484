// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/app"
	"synexpos/internal/domain/auth"
	"synexpos/internal/infrastructure/http/v1/handlers"
	"synexpos/internal/infrastructure/http/v1/middleware"
	"synexpos/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *app.Services

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Idempotency replays retried POSTs when set. Nil disables it.
	Idempotency middleware.IdempotencyStore

	// HealthChecks are pinged by /health/ready.
	HealthChecks map[string]handlers.Pinger

	// Storage names the active backend, e.g. "postgres" or "memory".
	Storage string
	Version string

	// Mode is the gin mode; empty means release.
	Mode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	gin.SetMode(cfg.Mode)
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.Storage, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")

	registerAuthRoutes(v1, base, cfg)

	protected := v1.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	if cfg.Idempotency != nil {
		protected.Use(middleware.Idempotency(cfg.Idempotency))
	}

	registerCatalogRoutes(protected, base, cfg.Services)
	registerSaleRoutes(protected, base, cfg.Services)
	registerStockRoutes(protected, base, cfg.Services)
	registerReportRoutes(protected, base, cfg.Services)
	registerBillRoutes(protected, base, cfg.Services)

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewAuthHandler(base, cfg.Services.Auth, cfg.Services.Customers)

	public := rg.Group("/auth")
	public.POST("/login", h.Login)
	public.POST("/customers/register", h.CustomerSignup)
	public.POST("/customers/login", h.CustomerLogin)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.GET("/me", h.Me)
	protected.POST("/register", middleware.RequireRole(auth.RoleAdmin), h.Register)
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc *app.Services) {
	items := handlers.NewItemHandler(base, svc.Items)
	itemGroup := rg.Group("/items")
	itemGroup.GET("", items.List)
	itemGroup.GET("/:code", items.Get)
	itemGroup.GET("/:code/history", middleware.RequireRole(auth.BackOfficeRoles...), items.History)
	itemGroup.POST("", middleware.RequireRole(auth.BackOfficeRoles...), items.Create)
	itemGroup.PATCH("/:code", middleware.RequireRole(auth.BackOfficeRoles...), items.Update)

	customers := handlers.NewCustomerHandler(base, svc.Customers)
	customerGroup := rg.Group("/customers")
	customerGroup.Use(middleware.RequireRole(auth.StaffRoles...))
	customerGroup.GET("", customers.Search)
	customerGroup.POST("", customers.Register)
}

func registerSaleRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc *app.Services) {
	h := handlers.NewSaleHandler(base, svc.Sales, svc.Customers)
	sales := rg.Group("/sales")

	online := append([]string{auth.RoleOnlineCustomer}, auth.StaffRoles...)

	sales.POST("/counter", middleware.RequireRole(auth.StaffRoles...), h.Counter)
	sales.POST("/online", middleware.RequireRole(online...), h.Online)
	sales.POST("/preview", middleware.RequireRole(online...), h.Preview)
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc *app.Services) {
	h := handlers.NewStockHandler(base, svc.Stock, svc.Items)
	group := rg.Group("/stock")
	group.Use(middleware.RequireRole(auth.BackOfficeRoles...))

	group.POST("/batches", h.Receive)
	group.GET("/batches", h.Batches)
	group.POST("/move", h.Move)
	group.GET("/levels/:channel", h.Levels)
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc *app.Services) {
	h := handlers.NewReportsHandler(base, svc.Reports)
	group := rg.Group("/reports")
	group.Use(middleware.RequireRole(auth.BackOfficeRoles...))

	group.GET("/daily-sales", h.DailySales)
	group.GET("/stock", h.Stock)
	group.GET("/reorder", h.Reorder)
	group.GET("/bills", h.Bills)
}

func registerBillRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc *app.Services) {
	var receipts handlers.ReceiptFormatter
	if f, ok := svc.Printer.(handlers.ReceiptFormatter); ok {
		receipts = f
	}
	h := handlers.NewBillHandler(base, svc.Bills, receipts)
	group := rg.Group("/bills")
	group.Use(middleware.RequireRole(auth.StaffRoles...))

	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/serial/:serial", h.GetBySerial)
	group.GET("/serial/:serial/receipt", h.Receipt)
}
