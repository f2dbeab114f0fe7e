package routes

import (
	"net/http"
	"time"

	_ "busly/docs"
	"busly/internal/auth"
	"busly/internal/bookings"
	"busly/internal/metrics"
	"busly/internal/schedules"
	"busly/internal/shared/config"
	"busly/internal/shared/database"
	"busly/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the long-lived collaborators built in main.
// Cache and Locker are nil when Redis is off.
type Dependencies struct {
	Notifier bookings.Notifier
	Cache    cache.Store
	Locker   bookings.SeatLocker
}

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	deps   Dependencies

	scheduleService schedules.Service // shared with bookings
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, deps Dependencies) *Router {
	return &Router{
		config: cfg,
		db:     db,
		deps:   deps,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	if !r.config.IsProduction() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// schedules first, bookings looks schedules up through the same service
		r.setupScheduleRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busly-backend",
			"redis":     r.db.Redis != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"timestamp":     time.Now(),
			"notifications": notificationMode(r.config),
		})
	})
}

func notificationMode(cfg *config.Config) string {
	if cfg.KafkaEnabled() {
		return "kafka"
	}
	return "direct"
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config.JWT)
	authController := auth.NewController(authService)

	auth.NewRouter(authController, r.config.JWT.Secret).SetupRoutes(rg)
}

// setupScheduleRoutes configures the read-only schedule routes
func (r *Router) setupScheduleRoutes(rg *gin.RouterGroup) {
	scheduleRepo := schedules.NewRepository(r.db.PostgreSQL)
	r.scheduleService = schedules.NewService(scheduleRepo, r.deps.Cache)
	scheduleController := schedules.NewController(r.scheduleService)

	schedules.NewRouter(scheduleController).SetupRoutes(rg)
}

// setupBookingRoutes configures booking management routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)
	bookingService := bookings.NewService(
		bookingRepo,
		r.scheduleService,
		r.deps.Notifier,
		r.deps.Locker,
		r.config.Booking,
	)
	bookingController := bookings.NewController(bookingService)

	bookings.NewRouter(bookingController, r.config.JWT.Secret).SetupRoutes(rg)
}
