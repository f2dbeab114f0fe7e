package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"busly/api/routes"
	"busly/internal/bookings"
	"busly/internal/notifications"
	"busly/internal/shared/config"
	"busly/internal/shared/database"
	"busly/internal/shared/middleware"
	"busly/pkg/cache"
	"busly/pkg/logger"
	"busly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title                      Busly API
// @version                    1.0
// @description                Bus ticket booking backend
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			logger.GetDefault().Info("Production environment: using container environment variables")
		} else {
			logger.GetDefault().Info("No .env file found, using system environment variables")
		}
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// rebuilt after gin mode is known so the handler format matches
	appLogger := logger.New()
	logger.SetDefault(appLogger)
	appLogger.Info("Starting busly",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connections", slog.Any("error", err))
		}
	}()

	deps := routes.Dependencies{}
	if db.Redis != nil {
		deps.Cache = cache.NewRedisStore(db.Redis)

		locker := bookings.NewRedisSeatLocker(db.Redis, cfg.Redis.SeatLockTTL, cfg.Redis.SeatLockWait)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := locker.PreloadScripts(ctx); err != nil {
			// scripts are loaded on first use anyway
			appLogger.Warn("Failed to preload Redis Lua scripts", slog.Any("error", err))
		}
		cancel()
		deps.Locker = locker
	}

	notificationService, err := newNotificationService(cfg, appLogger)
	if err != nil {
		return err
	}
	deps.Notifier = notificationService.Notifier()

	notificationCtx, notificationCancel := context.WithCancel(context.Background())
	defer notificationCancel()
	notificationService.Start(notificationCtx)

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("redis", db.Redis != nil),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
			slog.Int("booking_requests", cfg.RateLimit.BookingRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        setupRouter(cfg, db, deps, rateLimiter),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("kafka", cfg.KafkaEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("forced shutdown: %w", err))
		}
		// in-flight handlers may still queue emails until Shutdown returns
		appLogger.Info("Stopping notification service...")
		if err := notificationService.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("notification service: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// newNotificationService falls back to in-process delivery when Kafka is unreachable
func newNotificationService(cfg *config.Config, appLogger *logger.Logger) (*notifications.Service, error) {
	svc, err := notifications.NewService(cfg)
	if err == nil || !cfg.KafkaEnabled() {
		return svc, err
	}

	appLogger.Warn("Kafka unavailable, delivering notifications in-process", slog.Any("error", err))
	direct := *cfg
	direct.Kafka.Brokers = nil
	return notifications.NewService(&direct)
}

func setupRouter(cfg *config.Config, db *database.DB, deps routes.Dependencies, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(middleware.RequestID(), RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	routes.NewRouter(cfg, db, deps).SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// request_id and user_id ride on c.Request's context
		l.LogHTTPRequest(c, time.Since(start))
	}
}
