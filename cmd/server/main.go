package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	assistantapp "github.com/innledger/backend/internal/application/assistant"
	householdapp "github.com/innledger/backend/internal/application/household"
	hrapp "github.com/innledger/backend/internal/application/hr"
	inboxapp "github.com/innledger/backend/internal/application/inbox"
	loanapp "github.com/innledger/backend/internal/application/loan"
	notificationapp "github.com/innledger/backend/internal/application/notification"
	paymentapp "github.com/innledger/backend/internal/application/payment"
	revenueapp "github.com/innledger/backend/internal/application/revenue"
	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/innledger/backend/internal/infrastructure/cache"
	"github.com/innledger/backend/internal/infrastructure/config"
	"github.com/innledger/backend/internal/infrastructure/integration/pm"
	"github.com/innledger/backend/internal/infrastructure/integration/pms"
	"github.com/innledger/backend/internal/infrastructure/llm"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"github.com/innledger/backend/internal/infrastructure/migration"
	"github.com/innledger/backend/internal/infrastructure/persistence"
	"github.com/innledger/backend/internal/infrastructure/scheduler"
	"github.com/innledger/backend/internal/infrastructure/secret"
	"github.com/innledger/backend/internal/infrastructure/telemetry"
	"github.com/innledger/backend/internal/interfaces/http/handler"
	"github.com/innledger/backend/internal/interfaces/http/middleware"
	"github.com/innledger/backend/internal/interfaces/http/router"
)

//	@title			InnLedger API
//	@version		1.0
//	@description	Bookkeeping backend for a hospitality business: payables, revenue reconciliation and an AI assistant.
//	@BasePath		/api

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// The log bridge must exist before the logger so that entries reach the collector
	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	var extraCores []zapcore.Core
	if core := telemetry.NewZapOTELCore(loggerProvider, cfg.Telemetry.ServiceName, zapcore.InfoLevel); core != nil {
		extraCores = append(extraCores, core)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting InnLedger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	metricsCfg := telemetryCfg
	metricsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, metricsCfg, 0, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter("innledger")
	metrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		log.Warn("Failed to create ledger metrics, continuing without them", zap.Error(err))
		metrics = telemetry.NoopLedgerMetrics()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	if err := telemetry.RegisterDBPoolMetrics(meter, db.PoolStats); err != nil {
		log.Warn("Failed to register database pool metrics", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.App.AutoMigrate {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// Redis only backs the settings cache and the scheduler lease
		log.Warn("Redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	sealer, err := newSealer(cfg.AI.SecretKey, log)
	if err != nil {
		log.Fatal("Failed to initialize API key encryption", zap.Error(err))
	}

	// Repositories
	itemRepo := persistence.NewGormPaymentItemRepository(db.DB)
	recordRepo := persistence.NewGormPaymentRecordRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	pmsRepo := persistence.NewGormPmsRevenueRepository(db.DB)
	pmRepo := persistence.NewGormPmRevenueRepository(db.DB)
	settingsRepo := persistence.NewGormAISettingsRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	householdRepo := persistence.NewGormHouseholdBudgetRepository(db.DB)
	hrRepo := persistence.NewGormHRCostRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	inboxRepo := persistence.NewGormInboxRepository(db.DB)
	transactor := persistence.NewGormTransactor(db.DB)

	// Application services
	notificationService := notificationapp.NewService(notificationRepo, log)
	itemService := paymentapp.NewItemService(paymentapp.ItemServiceDeps{
		ItemRepo:     itemRepo,
		RecordRepo:   recordRepo,
		CategoryRepo: categoryRepo,
		ProjectRepo:  projectRepo,
		Transactor:   transactor,
		Notifier:     notificationService,
		Metrics:      metrics,
		Logger:       log,
	})
	catalogService := paymentapp.NewCatalogService(categoryRepo, projectRepo, itemRepo)
	revenueService := revenueapp.NewService(revenueapp.ServiceDeps{
		PmsRepo:   pmsRepo,
		PmRepo:    pmRepo,
		PmsSource: pms.NewClient(cfg.PMS),
		PmSource:  pm.NewClient(cfg.PM),
		Notifier:  notificationService,
		Policy: revenue.Policy{
			MatchThreshold: decimal.NewFromFloat(cfg.Revenue.MatchThreshold),
			MinPmRecords:   cfg.Revenue.MinPmRecords,
		},
		Limits: revenueapp.Limits{
			MaxSyncMonths: cfg.Revenue.MaxSyncMonths,
			MaxSyncDays:   cfg.Revenue.MaxSyncDays,
		},
		Metrics: metrics,
		Logger:  log,
	})
	settingsService := assistantapp.NewSettingsService(
		settingsRepo, cache.NewSettingsCache(redisClient, log), sealer, cfg.AI.SettingsCacheTTL, log)
	chatService := assistantapp.NewChatService(
		settingsService,
		llm.NewClient(cfg.AI.RequestTimeout),
		assistantapp.NewToolbox(itemService, revenueService, notificationService),
		cfg.AI.MaxToolRounds,
		metrics,
		log,
	)
	householdService := householdapp.NewService(householdRepo)
	hrService := hrapp.NewService(hrRepo)
	loanService := loanapp.NewService(loanRepo, notificationService, log)
	inboxService := inboxapp.NewService(inboxRepo, itemRepo)

	if cfg.Scheduler.Enabled {
		trigger, err := newDailyTrigger(cfg.Scheduler, redisClient, revenueService, itemService, log)
		if err != nil {
			log.Fatal("Failed to create daily scheduler", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start daily scheduler", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping daily scheduler", zap.Error(err))
			}
		}()
		log.Info("Daily scheduler started",
			zap.Int("sync_hour", cfg.Scheduler.SyncHour),
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval),
		)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engineCfg := router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           corsConfig,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Meter:          meter,
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engineCfg.RateLimiter = limiter
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.NewEngine(engineCfg, router.Handlers{
		System:       handler.NewSystemHandler(db),
		Payment:      handler.NewPaymentHandler(itemService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Revenue:      handler.NewRevenueHandler(revenueService),
		Assistant:    handler.NewAssistantHandler(chatService, settingsService),
		Household:    handler.NewHouseholdHandler(householdService),
		HR:           handler.NewHRHandler(hrService),
		Loan:         handler.NewLoanHandler(loanService),
		Notification: handler.NewNotificationHandler(notificationService),
		Inbox:        handler.NewInboxHandler(inboxService),
	}, log)

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
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}

// newSealer returns the box that encrypts the stored AI API key. Without a
// configured key an ephemeral one is used, so stored keys do not survive a restart.
func newSealer(key string, log *zap.Logger) (*secret.Box, error) {
	if key != "" {
		return secret.NewBox([]byte(key))
	}
	log.Warn("ai.secret_key not set, using an ephemeral key; the stored API key must be re-entered after restart")
	return secret.NewEphemeralBox()
}

func newDailyTrigger(cfg config.SchedulerConfig, client *redis.Client, revenueService *revenueapp.Service, itemService *paymentapp.ItemService, log *zap.Logger) (*scheduler.DailyTrigger, error) {
	var locker scheduler.Locker
	if client != nil {
		locker = scheduler.NewRedisLocker(client)
	} else {
		log.Warn("Redis unavailable, daily jobs run without a cross-replica lock")
	}

	triggerCfg := scheduler.DefaultDailyTriggerConfig()
	triggerCfg.RunAfterHour = cfg.SyncHour
	triggerCfg.CheckInterval = cfg.CheckInterval
	triggerCfg.LockTTL = cfg.LockTTL

	return scheduler.NewDailyTrigger(triggerCfg, locker, log,
		scheduler.JobFunc{
			JobName: "revenue-sync",
			Fn: func(ctx context.Context) error {
				return revenueService.DailySync(ctx, cfg.PmLookbackDays)
			},
		},
		scheduler.JobFunc{
			JobName: "overdue-notifications",
			Fn: func(ctx context.Context) error {
				n, err := itemService.NotifyOverdue(ctx)
				if err == nil {
					log.Info("Overdue notifications written", zap.Int("count", n))
				}
				return err
			},
		},
	)
}
