package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	tickethandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/ticket"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	perm := config.PermissionMiddleware

	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		// Collection operations (no ID parameter)
		tickets.POST("",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionCreate),
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.ListTickets)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.POST("/:id/assign",
			authorization.RequireAdmin(),
			config.TicketHandler.AssignTicket)
		tickets.POST("/:id/comments",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionUpdate),
			config.TicketHandler.AddComment)
		tickets.PATCH("/:id/status",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionUpdate),
			config.TicketHandler.ChangeStatus)
		tickets.PATCH("/:id/priority",
			authorization.RequireAdmin(),
			config.TicketHandler.ChangePriority)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id",
			perm.RequirePermission(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.GetTicket)
	}
}
