package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gadgetstock/backend/docs"
	auditapp "github.com/gadgetstock/backend/internal/application/audit"
	identityapp "github.com/gadgetstock/backend/internal/application/identity"
	inventoryapp "github.com/gadgetstock/backend/internal/application/inventory"
	reportapp "github.com/gadgetstock/backend/internal/application/report"
	appshared "github.com/gadgetstock/backend/internal/application/shared"
	tradeapp "github.com/gadgetstock/backend/internal/application/trade"
	transferapp "github.com/gadgetstock/backend/internal/application/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/cache"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/gadgetstock/backend/internal/infrastructure/event"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/gadgetstock/backend/internal/infrastructure/migration"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence"
	"github.com/gadgetstock/backend/internal/infrastructure/printing"
	"github.com/gadgetstock/backend/internal/infrastructure/storage"
	"github.com/gadgetstock/backend/internal/infrastructure/telemetry"
	"github.com/gadgetstock/backend/internal/interfaces/http/handler"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gadgetstock/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			gadgetstock API
//	@version		1.0
//	@description	Multi-branch inventory, transfers and invoicing for a gadget retailer

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Telemetry starts first so the logger can tee into the OTLP log exporter
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, providers.Logs.ZapCore(zapcore.InfoLevel))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting gadgetstock",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		runMigrations(db, cfg.Database.MigrationsPath, log)
	}
	log.Info("Database connected successfully")

	stores, err := cache.NewStores(cfg.Redis, cache.WithLogger(log), cache.WithInMemoryFallback(cfg.App.Env != "production"))
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = stores.Close() }()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	}

	objects := newObjectStorage(ctx, cfg, log)
	printer := newInvoicePrinter(cfg, log)
	if printer != nil {
		defer func() { _ = printer.Close() }()
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)

	bus := event.NewInMemoryEventBus(log)
	dashboards := reportapp.NewDashboardService(persistence.NewGormSummaryReader(db.DB), stores.Dashboards, cfg.Dashboard.CacheTTL, log)
	invalidation := reportapp.NewDashboardInvalidationHandler(stores.Dashboards, log)
	bus.Subscribe(invalidation, invalidation.EventTypes()...)
	if providers.Meter.IsEnabled() {
		metrics, err := telemetry.NewBusinessMetrics(providers.Meter.Meter(telemetry.MeterName))
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		bus.Subscribe(metrics, metrics.EventTypes()...)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	unitService := inventoryapp.NewUnitService(scope, log)
	unitService.SetEventPublisher(bus)
	stockService := inventoryapp.NewStockService(scope, log)
	stockService.SetEventPublisher(bus)
	transferService := transferapp.NewService(scope, log)
	transferService.SetEventPublisher(bus)
	invoiceService := tradeapp.NewInvoiceService(scope, log)
	invoiceService.SetEventPublisher(bus)
	returnService := tradeapp.NewReturnService(scope, log)
	returnService.SetEventPublisher(bus)

	var documentService *tradeapp.DocumentService
	if printer != nil {
		documentService = tradeapp.NewDocumentService(scope, printer, objects, log)
	}

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(identityapp.NewAuthService(scope, jwtService, blacklist, log)),
		Branch:    handler.NewBranchHandler(identityapp.NewBranchService(scope)),
		Inventory: handler.NewInventoryHandler(unitService, stockService, auditapp.NewService(scope, objects, log)),
		Transfer:  handler.NewTransferHandler(transferService),
		Trade:     handler.NewTradeHandler(invoiceService, returnService, documentService),
		Dashboard: handler.NewDashboardHandler(dashboards),
		System:    handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, stores)),
	}

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
	defer loginLimiter.Stop()

	docs.SwaggerInfo.Version = version
	engine := router.NewEngine(router.Options{
		Config:       cfg,
		Logger:       log,
		JWT:          jwtService,
		Blacklist:    blacklist,
		Idempotency:  stores.Idempotency,
		Meter:        providers.Meter,
		LoginLimiter: loginLimiter,
	}, h)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func runMigrations(db *persistence.Database, path string, log *zap.Logger) {
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB for migrations", zap.Error(err))
	}
	m, err := migration.New(sqlDB, path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := m.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
}

// newObjectStorage returns S3 when configured and the in-process store otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) appshared.ObjectStorage {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, exports and invoice PDFs are kept in memory")
		return storage.NewMemoryObjectStorage()
	}
	s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
	}
	return s3
}

func newInvoicePrinter(cfg *config.Config, log *zap.Logger) *printing.InvoicePrinter {
	if !cfg.Printing.Enabled {
		return nil
	}
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.ChromeURL,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log,
	})
	printer, err := printing.NewInvoicePrinter(printing.NewTemplateEngine(), renderer, cfg.Printing.BusinessName, cfg.Printing.Timeout, log)
	if err != nil {
		log.Fatal("Failed to prepare invoice template", zap.Error(err))
	}
	return printer
}

func healthChecks(db *persistence.Database, stores *cache.Stores) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if stores.Client != nil {
		checks["redis"] = func(ctx context.Context) error { return stores.Client.Ping(ctx).Err() }
	}
	return checks
}
