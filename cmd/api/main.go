// @title           Workplace API
// @version         1.0
// @description     Multi-tenant project management backend: workplaces, sprints, issues and comments

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"workplace-api/internal/client"
	"workplace-api/internal/config"
	"workplace-api/internal/database"
	"workplace-api/internal/job"
	"workplace-api/internal/metrics"
	"workplace-api/internal/router"
	"workplace-api/internal/service"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting workplace-api",
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
	)

	// Metrics first so DB callbacks can record into them
	m := metrics.NewWithLogger(logger)

	dbConfig := database.Config{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background", zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second, func(db *gorm.DB) {
			logger.Info("Database connected (async)")
			if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
				logger.Warn("Failed to run database migrations", zap.Error(err))
			}
			database.RegisterMetricsCallbacks(db, m)
			database.StartDBStatsCollector(db, m)
		})
	} else {
		database.SetDB(db)
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		}
		database.RegisterMetricsCallbacks(db, m)
		database.StartDBStatsCollector(db, m)

		collector := metrics.NewBusinessMetricsCollector(db, m, logger)
		collector.Start()
	}

	if err := database.InitRedis(&cfg.Redis, logger); err != nil {
		logger.Warn("Failed to connect to Redis, code-backed flows disabled", zap.Error(err))
	}
	codes := database.NewRedisCodeStore(database.GetRedis())

	var fileStore service.FileStore
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Client, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, file features disabled", zap.Error(err))
		} else {
			fileStore = s3Client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, file features disabled")
	}

	notifier := client.NewMailNotifier(
		cfg.Mailer.URL,
		cfg.Mailer.APIKey,
		time.Duration(cfg.Mailer.TimeoutSeconds)*time.Second,
		logger,
		m,
	)

	tokens := service.NewTokenManager(
		cfg.Auth.SecretKey,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)

	if db != nil && cfg.Jobs.OrphanSweepSchedule != "" {
		sweeper := job.NewOrphanSweeper(db, m, logger)
		runner, err := sweeper.Schedule(cfg.Jobs.OrphanSweepSchedule)
		if err != nil {
			logger.Warn("Failed to schedule orphan sweep", zap.Error(err))
		} else {
			runner.Start()
			defer runner.Stop()
			logger.Info("Orphan sweep scheduled",
				zap.String("schedule", cfg.Jobs.OrphanSweepSchedule),
			)
		}
	}

	r := router.Setup(router.Config{
		DB:        db,
		Logger:    logger,
		Metrics:   m,
		Tokens:    tokens,
		Codes:     codes,
		Notifier:  notifier,
		FileStore: fileStore,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("workplace-api started",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return cfg.Build()
}
