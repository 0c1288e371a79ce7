package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/pos-admin/backend/internal/application/report"
	"github.com/pos-admin/backend/internal/infrastructure/cache"
	"github.com/pos-admin/backend/internal/infrastructure/config"
	"github.com/pos-admin/backend/internal/infrastructure/logger"
	"github.com/pos-admin/backend/internal/infrastructure/persistence"
	"github.com/pos-admin/backend/internal/infrastructure/telemetry"
	"github.com/pos-admin/backend/internal/interfaces/http/handler"
	"github.com/pos-admin/backend/internal/interfaces/http/router"
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
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry: traces and, when enabled, a copy of every log record over OTLP
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	log.Info("Starting POS report service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Record store
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	source := persistence.NewGormRecordSource(db.DB)

	// Report service
	settings, err := cfg.Report.Settings()
	if err != nil {
		log.Fatal("Invalid report settings", zap.Error(err))
	}

	opts := []reportapp.Option{
		reportapp.WithSettings(settings),
		reportapp.WithFetchTimeout(cfg.Report.FetchTimeout),
	}

	// Metrics: OTel instruments read by the Prometheus endpoint and, with telemetry on, pushed over OTLP
	var (
		metrics        *telemetry.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MeterConfig{
			ServiceName:       cfg.Telemetry.ServiceName,
			ServiceVersion:    version,
			Namespace:         cfg.Metrics.Namespace,
			Push:              cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			Insecure:          cfg.Telemetry.Insecure,
			ExportInterval:    cfg.Metrics.ExportInterval,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize metrics", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error flushing metrics", zap.Error(err))
			}
		}()

		metrics, err = telemetry.NewMetrics(meterProvider.Meter("github.com/pos-admin/backend"))
		if err != nil {
			log.Fatal("Failed to create metric instruments", zap.Error(err))
		}
		metricsHandler = meterProvider.Handler()
		opts = append(opts, reportapp.WithMetrics(metrics))

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		if err := meterProvider.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Connection pool metrics unavailable", zap.Error(err))
		}
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}

	if cfg.Report.CacheEnabled && cfg.Report.CacheTTL > 0 {
		factory := cache.NewReportCacheFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(true),
		)
		reportCache, err := factory.CreateCache(ctx)
		if err != nil {
			log.Fatal("Failed to initialize report cache", zap.Error(err))
		}
		defer func() {
			if err := reportCache.Close(); err != nil {
				log.Error("Error closing report cache", zap.Error(err))
			}
		}()
		if redisCache, ok := reportCache.(*cache.RedisReportCache); ok {
			checks = append(checks, handler.HealthCheck{Name: "cache", Check: redisCache.Ping})
		}
		opts = append(opts, reportapp.WithCache(reportCache, cfg.Report.CacheTTL))
	}

	reportService := reportapp.NewReportService(source, log, opts...)

	// HTTP
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks...)
	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tracerProvider.IsEnabled(),
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Health:         systemHandler.Health,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	router.NewRouter(engine).
		Register(handler.NewReportHandler(reportService, settings.Location())).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
