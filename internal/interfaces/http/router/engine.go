package router

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/gadgetstock/backend/internal/infrastructure/telemetry"
	"github.com/gadgetstock/backend/internal/interfaces/http/handler"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Auth      *handler.AuthHandler
	Branch    *handler.BranchHandler
	Inventory *handler.InventoryHandler
	Transfer  *handler.TransferHandler
	Trade     *handler.TradeHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Options carries the infrastructure the middleware chain needs
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	// Idempotency may be nil, which disables Idempotency-Key handling
	Idempotency  shared.IdempotencyStore
	Meter        *telemetry.MeterProvider
	LoginLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the global middleware chain and every route
func NewEngine(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	// Recovery runs first so a panic anywhere below still gets a request id in the log
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(opts.Meter))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerGate(cfg.Swagger.Enabled), ginSwagger.WrapHandler(swaggerFiles.Handler))

	authenticated := []gin.HandlerFunc{
		middleware.Authenticate(middleware.AuthConfig{
			JWTService: opts.JWT,
			Blacklist:  opts.Blacklist,
			Logger:     log,
		}),
		middleware.SpanEnricher(),
		middleware.ProfilingLabels(cfg.Telemetry.ProfilingEnabled),
	}

	var idempotent gin.HandlerFunc
	if opts.Idempotency != nil && cfg.Idempotency.Enabled {
		idempotent = middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  opts.Idempotency,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		})
	}

	public := publicRoutes(h, opts.LoginLimiter)
	protected := protectedRoutes(h, idempotent).Use(authenticated...)
	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(public).Register(protected).Setup()

	log.Debug("API routes registered",
		zap.String("base_path", r.BasePath()),
		zap.Int("public", len(public.Routes())),
		zap.Int("protected", len(protected.Routes())))

	return engine
}

func publicRoutes(h Handlers, loginLimiter *middleware.RateLimiter) *DomainGroup {
	public := NewDomainGroup("public", "")
	login := []gin.HandlerFunc{h.Auth.Login}
	if loginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(loginLimiter)}, login...)
	}
	public.POST("/auth/login", login...)
	public.GET("/system/info", h.System.GetSystemInfo)
	return public
}

func protectedRoutes(h Handlers, idempotent gin.HandlerFunc) *DomainGroup {
	// once prepends the idempotency guard to handlers that create or receive
	once := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if idempotent == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{idempotent, fn}
	}

	api := NewDomainGroup("api", "")

	identity := api.Group("identity", "")
	identity.GET("/auth/me", h.Auth.Me)
	identity.POST("/auth/logout", h.Auth.Logout)
	identity.GET("/branches", h.Branch.ListBranches)
	identity.POST("/branches", h.Branch.CreateBranch)

	units := api.Group("units", "/units")
	units.POST("", once(h.Inventory.CreateUnit)...)
	units.GET("", h.Inventory.ListUnits)
	units.GET("/:id", h.Inventory.GetUnit)
	units.PUT("/:id", h.Inventory.UpdateUnit)
	units.DELETE("/:id", h.Inventory.DeleteUnit)
	units.GET("/:id/audit-log", h.Inventory.ListAuditLog)
	units.POST("/:id/audit-log/export", h.Inventory.ExportAuditLog)

	stock := api.Group("stock", "/stock")
	stock.GET("", h.Inventory.ListStock)
	stock.POST("/in", once(h.Inventory.StockIn)...)

	transfers := api.Group("transfers", "/transfers")
	transfers.POST("", once(h.Transfer.CreateTransfer)...)
	transfers.GET("", h.Transfer.ListTransfers)
	transfers.GET("/:id", h.Transfer.GetTransfer)
	transfers.POST("/:id/receive", once(h.Transfer.ReceiveTransfer)...)
	transfers.POST("/:id/approve", h.Transfer.ApproveTransfer)
	transfers.POST("/:id/reject", h.Transfer.RejectTransfer)
	transfers.POST("/:id/cancel", h.Transfer.CancelTransfer)

	accessoryTransfers := api.Group("accessory-transfers", "/accessory-transfers")
	accessoryTransfers.POST("", once(h.Transfer.CreateAccessoryTransfer)...)
	accessoryTransfers.GET("", h.Transfer.ListAccessoryTransfers)
	accessoryTransfers.GET("/:id", h.Transfer.GetAccessoryTransfer)
	accessoryTransfers.POST("/:id/receive", once(h.Transfer.ReceiveAccessoryTransfer)...)
	accessoryTransfers.POST("/:id/approve", h.Transfer.ApproveAccessoryTransfer)
	accessoryTransfers.POST("/:id/reject", h.Transfer.RejectAccessoryTransfer)
	accessoryTransfers.POST("/:id/cancel", h.Transfer.CancelAccessoryTransfer)

	invoices := api.Group("invoices", "/invoices")
	invoices.POST("", once(h.Trade.CreateInvoice)...)
	invoices.GET("", h.Trade.ListInvoices)
	invoices.GET("/:id", h.Trade.GetInvoice)
	invoices.POST("/:id/payments", once(h.Trade.RecordPayment)...)
	invoices.POST("/:id/cancel", h.Trade.CancelInvoice)
	invoices.POST("/:id/document", h.Trade.RenderDocument)

	returns := api.Group("returns", "/returns")
	returns.POST("", once(h.Trade.CreateReturn)...)
	returns.GET("/:id", h.Trade.GetReturn)

	api.GET("/dashboard", h.Dashboard.GetDashboard)
	return api
}
