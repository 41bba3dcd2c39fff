package routes

import (
	"github.com/gin-gonic/gin"

	notificationhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/notification"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
)

// NotificationRouteConfig holds dependencies for the inbox and the realtime socket.
type NotificationRouteConfig struct {
	NotificationHandler *notificationhandlers.NotificationHandler
	WebSocketHandler    *notificationhandlers.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupNotificationRoutes configures notification routes. Every user may read
// their own inbox, so no permission check beyond authentication applies.
func SetupNotificationRoutes(engine *gin.Engine, cfg *NotificationRouteConfig) {
	notifications := engine.Group("/notifications")
	notifications.Use(cfg.AuthMiddleware.RequireAuth())
	{
		notifications.GET("", cfg.NotificationHandler.ListNotifications)
		notifications.POST("/read-all", cfg.NotificationHandler.MarkAllRead)
		notifications.POST("/:id/read", cfg.NotificationHandler.MarkRead)
	}

	engine.GET("/ws/notifications", cfg.AuthMiddleware.RequireAuth(), cfg.WebSocketHandler.Connect)
}
