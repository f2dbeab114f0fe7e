package auth

import (
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	jwtSecret  string
}

func NewRouter(controller *Controller, jwtSecret string) *Router {
	return &Router{controller: controller, jwtSecret: jwtSecret}
}

// SetupRoutes registers sign-up and token routes; account routes need an access token
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	group.POST("/register", r.controller.Register)
	group.POST("/login", r.controller.Login)
	group.POST("/refresh", r.controller.RefreshToken)

	account := group.Group("", middleware.JWTAuth(r.jwtSecret))
	account.PUT("/change-password", r.controller.ChangePassword)
	account.GET("/me", r.controller.GetMe)
}
