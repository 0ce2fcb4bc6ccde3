package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	allocationapp "github.com/tubetrade/backend/internal/application/allocation"
	fulfillmentapp "github.com/tubetrade/backend/internal/application/fulfillment"
	sequenceapp "github.com/tubetrade/backend/internal/application/sequence"
	sequencedom "github.com/tubetrade/backend/internal/domain/sequence"
	"github.com/tubetrade/backend/internal/infrastructure/audit"
	"github.com/tubetrade/backend/internal/infrastructure/config"
	"github.com/tubetrade/backend/internal/infrastructure/event"
	"github.com/tubetrade/backend/internal/infrastructure/logger"
	"github.com/tubetrade/backend/internal/infrastructure/persistence"
	"github.com/tubetrade/backend/internal/interfaces/http/handler"
	"github.com/tubetrade/backend/internal/interfaces/http/middleware"
	"github.com/tubetrade/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting allocation engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connection established")

	// Repositories
	stockLotRepo := persistence.NewGormStockLotRepositoryWithLockWait(db.DB, cfg.Allocation.LockWait)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	sequenceRepo := persistence.NewGormDocumentSequenceRepository(db.DB)

	// Transaction scopes
	allocationScope := persistence.NewGormAllocationScopeWithLockWait(db.DB, cfg.Allocation.LockWait)
	fulfillmentScope := persistence.NewGormFulfillmentScopeWithLockWait(db.DB, cfg.Allocation.LockWait)

	// Event bus and collaborators
	eventBus := event.NewBus(log)
	eventBus.Subscribe(audit.NewEventLog(log))
	auditSink := audit.NewLogSink(log)
	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	allocationService := allocationapp.NewService(allocationScope, stockLotRepo, salesOrderRepo, log)
	allocationService.SetEventPublisher(eventBus)
	allocationService.SetAuditSink(auditSink)

	fulfillmentService := fulfillmentapp.NewService(fulfillmentScope, salesOrderRepo, log)
	fulfillmentService.SetEventPublisher(eventBus)
	fulfillmentService.SetAuditSink(auditSink)

	sequenceService := sequenceapp.NewService(sequenceRepo, log)
	sequenceService.SetPrefixOverrides(cfg.Sequence.PrefixOverrides)
	for name, prefix := range cfg.Sequence.PrefixOverrides {
		if strings.EqualFold(name, sequencedom.DocumentTypeDispatchNote.String()) {
			fulfillmentService.SetDispatchNotePrefix(prefix)
		}
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP.CORSOrigins))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAllocationHandler(allocationService))
	r.Register(handler.NewFulfillmentHandler(fulfillmentService))
	r.Register(handler.NewSequenceHandler(sequenceService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown error", zap.Error(err))
	}

	log.Info("Shutdown complete")
}

// healthHandler reports liveness and database reachability
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
		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.PoolStats(); err == nil {
			body["pool"] = gin.H{
				"open":    stats.OpenConnections,
				"in_use":  stats.InUse,
				"idle":    stats.Idle,
				"waiting": stats.WaitCount,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
