package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	sessionhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/session"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
)

type SessionRouteConfig struct {
	SessionHandler       *sessionhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupSessionRoutes(engine *gin.Engine, cfg *SessionRouteConfig) {
	perm := cfg.PermissionMiddleware

	sessions := engine.Group("/sessions")
	sessions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sessions.GET("",
			perm.RequirePermission(permission.ResourceSession, permission.ActionRead),
			cfg.SessionHandler.List)

		sessions.PATCH("/:id/notes",
			perm.RequirePermission(permission.ResourceSession, permission.ActionUpdate),
			cfg.SessionHandler.UpdateNotes)
		sessions.POST("/:id/feedback",
			perm.RequirePermission(permission.ResourceSession, permission.ActionUpdate),
			cfg.SessionHandler.SubmitFeedback)
		sessions.POST("/:id/video-token",
			perm.RequirePermission(permission.ResourceSession, permission.ActionRead),
			cfg.SessionHandler.IssueVideoToken)

		sessions.GET("/:id",
			perm.RequirePermission(permission.ResourceSession, permission.ActionRead),
			cfg.SessionHandler.Get)
	}
}
