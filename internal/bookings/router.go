package bookings

import (
	"busly/internal/shared/middleware"
	"busly/internal/users"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	jwtSecret  string
}

func NewRouter(controller *Controller, jwtSecret string) *Router {
	return &Router{controller: controller, jwtSecret: jwtSecret}
}

// SetupRoutes registers the booking routes; all of them require a signed-in user
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(
		middleware.JWTAuth(r.jwtSecret),
		middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)),
	)
	{
		bookings.POST("", r.controller.CreateBooking)
		bookings.GET("/user/:userId", r.controller.GetUserBookings)
		bookings.GET("/:id", r.controller.GetBooking)
		bookings.POST("/:id/cancel", r.controller.CancelBooking)
		bookings.GET("/:id/ticket", r.controller.DownloadTicket)
	}
}
