package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	blapp "github.com/bizline/backoffice/internal/application/businessline"
	financeapp "github.com/bizline/backoffice/internal/application/finance"
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	inventoryapp "github.com/bizline/backoffice/internal/application/inventory"
	partnerapp "github.com/bizline/backoffice/internal/application/partner"
	reportapp "github.com/bizline/backoffice/internal/application/report"
	tradeapp "github.com/bizline/backoffice/internal/application/trade"
	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/bizline/backoffice/internal/infrastructure/cache"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/bizline/backoffice/internal/infrastructure/event"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/infrastructure/persistence"
	"github.com/bizline/backoffice/internal/infrastructure/scheduler"
	"github.com/bizline/backoffice/internal/infrastructure/telemetry"
	"github.com/bizline/backoffice/internal/interfaces/http/handler"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/bizline/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting backoffice server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Caches: Redis when configured, memory otherwise
	stores, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	// Repositories
	lineRepo := persistence.NewGormBusinessLineRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	itemRepo := persistence.NewGormStockItemRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	invoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	intakeRepo := persistence.NewGormPurchaseIntakeRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	tokens := auth.NewJWTService(cfg.JWT)
	userService := identityapp.NewUserService(userRepo, lineRepo, db, eventBus, log)
	authService := identityapp.NewAuthService(userRepo, tokens, log)
	lineService := blapp.NewBusinessLineService(lineRepo, db, eventBus, log)
	customerService := partnerapp.NewCustomerService(customerRepo, eventBus, log)
	vendorService := partnerapp.NewVendorService(vendorRepo, eventBus, log)
	stockService := inventoryapp.NewStockService(itemRepo, adjustmentRepo, db, eventBus, log)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, adjustmentRepo, db, eventBus, log)
	intakeService := tradeapp.NewIntakeService(intakeRepo, vendorRepo, itemRepo, adjustmentRepo, db, eventBus, log)
	paymentService := financeapp.NewPaymentService(paymentRepo, invoiceRepo, customerRepo, vendorRepo, db, stores.Idempotency, eventBus, log)
	reportService := reportapp.NewReportService(reportRepo, stores.Reports, cfg.Report.CacheTTL, log)

	// Event handlers
	eventBus.Subscribe(event.NewReportCacheInvalidator(reportService, log))
	alerts := event.NewAlertLogger(log)
	eventBus.Subscribe(alerts, alerts.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Overdue cheque sweep
	if cfg.Scheduler.Enabled {
		sweepCfg := scheduler.DefaultChequeSweepConfig()
		if cfg.Scheduler.ChequeSweepInterval > 0 {
			sweepCfg.Interval = cfg.Scheduler.ChequeSweepInterval
		}
		if cfg.Scheduler.ChequeOverdueGrace > 0 {
			sweepCfg.Grace = cfg.Scheduler.ChequeOverdueGrace
		}
		sweeper, err := scheduler.NewChequeSweeper(sweepCfg, paymentRepo, eventBus, log)
		if err != nil {
			log.Fatal("Failed to create cheque sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start cheque sweeper", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sweeper.Stop(stopCtx); err != nil {
				log.Error("Error stopping cheque sweeper", zap.Error(err))
			}
		}()
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		HTTP:           cfg.HTTP,
		Security:       security,
		Tokens:         tokens,
		BusinessLines:  lineRepo,
		Logger:         log,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		User:         handler.NewUserHandler(userService),
		BusinessLine: handler.NewBusinessLineHandler(lineService),
		Customer:     handler.NewCustomerHandler(customerService, invoiceService, paymentService),
		Vendor:       handler.NewVendorHandler(vendorService),
		Stock:        handler.NewStockHandler(stockService),
		Intake:       handler.NewIntakeHandler(intakeService),
		SalesInvoice: handler.NewSalesInvoiceHandler(invoiceService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Report:       handler.NewReportHandler(reportService),
		System:       handler.NewSystemHandler(cfg.App.Name, version, db, stores),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}
