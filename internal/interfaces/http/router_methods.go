package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coachhub/coachhub/docs"
	"github.com/coachhub/coachhub/internal/infrastructure/config"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	c := r.container
	production := cfg.Server.Mode == gin.ReleaseMode

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(c.log))
	r.engine.Use(middleware.Recovery(c.log))
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders(production))

	r.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	r.engine.GET("/version", c.hdlrs.healthHandler.Version)

	if cfg.Server.EnableSwagger && !production {
		r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.setupUserRoutes()
	r.setupCoachRoutes()
	r.setupSchedulingRoutes(cfg)
	r.setupSessionRoutes()
	r.setupGoalRoutes()
	r.setupTicketRoutes()
	r.setupBillingRoutes()
	r.setupNotificationRoutes()
	r.setupWebhookRoutes(cfg)
}

func (r *Router) setupUserRoutes() {
	c := r.container
	routes.SetupUserRoutes(r.engine, &routes.UserRouteConfig{
		UserHandler:          c.hdlrs.userHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupCoachRoutes() {
	c := r.container
	routes.SetupCoachRoutes(r.engine, &routes.CoachRouteConfig{
		CoachHandler:         c.hdlrs.coachHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupSchedulingRoutes(cfg *config.Config) {
	c := r.container
	routes.SetupSchedulingRoutes(r.engine, &routes.SchedulingRouteConfig{
		BookingHandler:       c.hdlrs.bookingHandler,
		ProposalHandler:      c.hdlrs.proposalHandler,
		IntegrationHandler:   c.hdlrs.integrationHandler,
		ScheduleHandler:      c.hdlrs.scheduleHandler,
		SyncHandler:          c.hdlrs.syncHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimiter:          c.rateLimiter,
		BookingPerMinute:     cfg.RateLimit.BookingPerMinute,
	})
}

func (r *Router) setupSessionRoutes() {
	c := r.container
	routes.SetupSessionRoutes(r.engine, &routes.SessionRouteConfig{
		SessionHandler:       c.hdlrs.sessionHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupGoalRoutes() {
	c := r.container
	routes.SetupGoalRoutes(r.engine, &routes.GoalRouteConfig{
		GoalHandler:          c.hdlrs.goalHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupTicketRoutes() {
	c := r.container
	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupBillingRoutes() {
	c := r.container
	routes.SetupBillingRoutes(r.engine, &routes.BillingRouteConfig{
		PlanHandler:          c.hdlrs.planHandler,
		BillingHandler:       c.hdlrs.billingHandler,
		DisputeHandler:       c.hdlrs.disputeHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) setupNotificationRoutes() {
	c := r.container
	routes.SetupNotificationRoutes(r.engine, &routes.NotificationRouteConfig{
		NotificationHandler: c.hdlrs.notificationHandler,
		WebSocketHandler:    c.hdlrs.webSocketHandler,
		AuthMiddleware:      c.authMiddleware,
	})
}

func (r *Router) setupWebhookRoutes(cfg *config.Config) {
	c := r.container
	routes.SetupWebhookRoutes(r.engine, &routes.WebhookRouteConfig{
		WebhookHandler:   c.hdlrs.webhookHandler,
		RateLimiter:      c.rateLimiter,
		WebhookPerMinute: cfg.RateLimit.WebhookPerMinute,
	})
}
