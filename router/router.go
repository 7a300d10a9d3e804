// Package router wires the panel API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PigSoilPlus/pigsoil-notify/handlers"
	"github.com/PigSoilPlus/pigsoil-notify/middleware"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	AllowedOrigins      []string
	NotificationHandler *handlers.NotificationHandler
	HealthHandler       *handlers.HealthHandler
	Logger              *zap.SugaredLogger
}

// SetupRouter configures and returns the Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.List)
			notifications.GET("/unread-count", deps.NotificationHandler.UnreadCount)
			notifications.PATCH("/read-all", deps.NotificationHandler.MarkAllRead)
			notifications.PATCH("/:notificationId/read", deps.NotificationHandler.MarkRead)
			notifications.DELETE("/:notificationId", deps.NotificationHandler.Delete)
			notifications.DELETE("", deps.NotificationHandler.ClearAll)
		}
	}

	return r
}
