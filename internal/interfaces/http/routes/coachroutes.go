package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	coachhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/coach"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

// CoachRouteConfig holds dependencies for the coach directory routes.
type CoachRouteConfig struct {
	CoachHandler         *coachhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupCoachRoutes configures the public directory and the coach's own profile.
func SetupCoachRoutes(engine *gin.Engine, cfg *CoachRouteConfig) {
	coaches := engine.Group("/coaches")
	{
		// Specific paths BEFORE /:id
		coaches.PUT("/me/profile",
			cfg.AuthMiddleware.RequireAuth(),
			authorization.RequireCoach(),
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceCoach, permission.ActionUpdate),
			cfg.CoachHandler.UpsertMyProfile)

		// Public directory
		coaches.GET("", cfg.CoachHandler.ListCoaches)
		coaches.GET("/:id", cfg.CoachHandler.GetCoach)
	}
}
