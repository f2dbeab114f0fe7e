package schedules

import (
	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
}

func NewRouter(controller *Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers the public, read-only schedule routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	schedules := rg.Group("/schedules")
	{
		schedules.GET("", r.controller.SearchSchedules)
		schedules.GET("/:id", r.controller.GetSchedule)
		schedules.GET("/:id/seats", r.controller.GetSeatAvailability)
	}
}
