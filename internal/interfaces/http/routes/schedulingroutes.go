package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	schedulinghandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/scheduling"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

// SchedulingRouteConfig holds dependencies for bookings, proposals,
// integrations, schedules and admin sync.
type SchedulingRouteConfig struct {
	BookingHandler       *schedulinghandlers.BookingHandler
	ProposalHandler      *schedulinghandlers.ProposalHandler
	IntegrationHandler   *schedulinghandlers.IntegrationHandler
	ScheduleHandler      *schedulinghandlers.ScheduleHandler
	SyncHandler          *schedulinghandlers.SyncHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimiter          *middleware.RateLimiter
	BookingPerMinute     int
}

// SetupSchedulingRoutes configures all scheduling routes.
func SetupSchedulingRoutes(engine *gin.Engine, cfg *SchedulingRouteConfig) {
	perm := cfg.PermissionMiddleware

	bookings := engine.Group("/bookings")
	bookings.Use(cfg.AuthMiddleware.RequireAuth())
	{
		bookings.POST("",
			cfg.RateLimiter.Limit("booking", cfg.BookingPerMinute),
			perm.RequirePermission(permission.ResourceBooking, permission.ActionCreate),
			cfg.BookingHandler.Create)
		bookings.GET("",
			perm.RequirePermission(permission.ResourceBooking, permission.ActionRead),
			cfg.BookingHandler.List)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		bookings.POST("/:id/cancel",
			perm.RequirePermission(permission.ResourceBooking, permission.ActionUpdate),
			cfg.BookingHandler.Cancel)
		bookings.POST("/:id/proposals",
			perm.RequirePermission(permission.ResourceProposal, permission.ActionCreate),
			cfg.BookingHandler.CreateProposal)

		bookings.GET("/:id",
			perm.RequirePermission(permission.ResourceBooking, permission.ActionRead),
			cfg.BookingHandler.Get)
	}

	proposals := engine.Group("/proposals")
	proposals.Use(
		cfg.AuthMiddleware.RequireAuth(),
		perm.RequirePermission(permission.ResourceProposal, permission.ActionUpdate),
	)
	{
		proposals.POST("/:id/accept", cfg.ProposalHandler.Accept)
		proposals.POST("/:id/decline", cfg.ProposalHandler.Decline)
		proposals.POST("/:id/withdraw", cfg.ProposalHandler.Withdraw)
	}

	// The OAuth callback arrives from Calendly without our session; the
	// state parameter identifies the coach.
	engine.GET("/integrations/calendly/callback", cfg.IntegrationHandler.CalendlyCallback)

	integrations := engine.Group("/integrations")
	integrations.Use(cfg.AuthMiddleware.RequireAuth(), authorization.RequireCoach())
	{
		integrations.GET("",
			perm.RequirePermission(permission.ResourceIntegration, permission.ActionRead),
			cfg.IntegrationHandler.List)
		integrations.POST("/calcom",
			perm.RequirePermission(permission.ResourceIntegration, permission.ActionCreate),
			cfg.IntegrationHandler.ConnectCalcom)
		integrations.GET("/calendly/connect",
			perm.RequirePermission(permission.ResourceIntegration, permission.ActionCreate),
			cfg.IntegrationHandler.StartCalendlyConnect)
		integrations.DELETE("/:provider",
			perm.RequirePermission(permission.ResourceIntegration, permission.ActionDelete),
			cfg.IntegrationHandler.Disconnect)
	}

	schedules := engine.Group("/schedules")
	schedules.Use(cfg.AuthMiddleware.RequireAuth(), authorization.RequireCoach())
	{
		schedules.GET("",
			perm.RequirePermission(permission.ResourceSchedule, permission.ActionRead),
			cfg.ScheduleHandler.List)
		schedules.POST("",
			perm.RequirePermission(permission.ResourceSchedule, permission.ActionCreate),
			cfg.ScheduleHandler.Create)
		schedules.POST("/:id/default",
			perm.RequirePermission(permission.ResourceSchedule, permission.ActionUpdate),
			cfg.ScheduleHandler.SetDefault)
		schedules.DELETE("/:id",
			perm.RequirePermission(permission.ResourceSchedule, permission.ActionDelete),
			cfg.ScheduleHandler.Delete)
	}

	sync := engine.Group("/admin/sync")
	sync.Use(
		cfg.AuthMiddleware.RequireAuth(),
		authorization.RequireAdmin(),
		perm.RequirePermission(permission.ResourceSync, permission.ActionManage),
	)
	{
		sync.POST("/:coachId", cfg.SyncHandler.SyncCoach)
	}
}
