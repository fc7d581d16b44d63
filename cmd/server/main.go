package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/cache"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/config"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/logger"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/pdf"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/persistence"
	"github.com/panzhenhai520/exchangenew-sub005/internal/infrastructure/scheduler"
	"github.com/panzhenhai520/exchangenew-sub005/internal/interfaces/http/handler"
	"github.com/panzhenhai520/exchangenew-sub005/internal/interfaces/http/middleware"
	"github.com/panzhenhai520/exchangenew-sub005/internal/interfaces/http/router"
)

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
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FX Back Office Regulatory Service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	fieldRepo := persistence.NewGormFieldRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	allocator := persistence.NewGormSequenceAllocator(db.DB, cfg.Regulatory.SequenceLockRetries)

	// Bootstrap the field catalogue. The registry, rule references, and PDF
	// templates are all checked against each other here; any drift aborts
	// startup rather than surfacing later as a broken report.
	ctx := context.Background()
	registry, err := bootstrapRegistry(ctx, fieldRepo, ruleRepo)
	if err != nil {
		log.Fatal("Field catalogue bootstrap failed", zap.Error(err))
	}
	log.Info("Field catalogue loaded")

	templateStore, err := pdf.NewTemplateStore(cfg.Regulatory.PDFTemplateDir)
	if err != nil {
		log.Fatal("PDF template store initialization failed", zap.Error(err))
	}
	if err := templateStore.VerifyRegistry(registry); err != nil {
		log.Fatal("PDF templates out of sync with field catalogue", zap.Error(err))
	}
	log.Info("PDF templates verified", zap.String("dir", cfg.Regulatory.PDFTemplateDir))

	filler := pdf.NewFiller(templateStore, cfg.Regulatory.ThaiFontPath, log)

	// Rule cache: Redis when reachable, in-memory otherwise. Both degrade to
	// DB reads on miss, so losing Redis only costs latency.
	var ruleCache appregulatory.RuleCache
	redisCache, err := cache.NewRedisRuleCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Regulatory.RuleCacheTTL, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory rule cache", zap.Error(err))
		ruleCache = cache.NewInMemoryRuleCache(cfg.Regulatory.RuleCacheTTL)
	} else {
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		ruleCache = redisCache
		log.Info("Redis rule cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize application services
	triggerService := appregulatory.NewTriggerService(ruleRepo, transactionRepo, auditRepo, registry, ruleCache)
	reservationService := appregulatory.NewReservationService(reservationRepo, auditRepo, registry)
	emissionService := appregulatory.NewEmissionService(
		reservationRepo, reportRepo, transactionRepo, branchRepo,
		allocator, registry, filler, auditRepo, cfg.Regulatory.PDFOutputDir)
	fieldService := appregulatory.NewFieldService(registry)
	auditService := appregulatory.NewAuditService(auditRepo)

	// Start the reservation sweeper
	sweeper := scheduler.NewReservationSweeper(reservationService, log, scheduler.ReservationSweeperConfig{
		Interval:       cfg.Regulatory.SweepInterval,
		ReservationTTL: cfg.Regulatory.ReservationTTL(),
		SweepTimeout:   time.Minute,
	})
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal("Failed to start reservation sweeper", zap.Error(err))
	}

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check outside the versioned API
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine)
	r.Register(handler.NewTriggerHandler(triggerService)).
		Register(handler.NewReservationHandler(reservationService)).
		Register(handler.NewReportHandler(emissionService)).
		Register(handler.NewFieldHandler(fieldService)).
		Register(handler.NewAuditHandler(auditService)).
		Register(handler.NewSystemHandler())
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sweeper.Stop(shutdownCtx); err != nil {
		log.Error("Reservation sweeper shutdown failed", zap.Error(err))
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// bootstrapRegistry loads the field catalogue and cross-checks every
// persisted rule against it
func bootstrapRegistry(ctx context.Context, fieldRepo regulatory.FieldRepository, ruleRepo regulatory.RuleRepository) (*regulatory.Registry, error) {
	specs, err := fieldRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := regulatory.NewRegistry(specs)
	if err != nil {
		return nil, err
	}

	rules, err := ruleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := registry.CheckRuleFields(rules); err != nil {
		return nil, err
	}

	return registry, nil
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
