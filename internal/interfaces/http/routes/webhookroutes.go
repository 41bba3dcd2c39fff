package routes

import (
	"github.com/gin-gonic/gin"

	webhookhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/webhook"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
)

// WebhookRouteConfig holds dependencies for inbound provider webhooks.
type WebhookRouteConfig struct {
	WebhookHandler   *webhookhandlers.Handler
	RateLimiter      *middleware.RateLimiter
	WebhookPerMinute int
}

// SetupWebhookRoutes configures webhook routes. They carry no session; each
// handler verifies the sender's signature instead.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	webhooks.Use(cfg.RateLimiter.Limit("webhook", cfg.WebhookPerMinute))
	{
		webhooks.POST("/calcom", cfg.WebhookHandler.Calcom)
		webhooks.POST("/calendly", cfg.WebhookHandler.Calendly)
		webhooks.POST("/clerk", cfg.WebhookHandler.Clerk)
		webhooks.POST("/stripe", cfg.WebhookHandler.Stripe)
	}
}
