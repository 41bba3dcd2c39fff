package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	goalhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/goal"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
)

type GoalRouteConfig struct {
	GoalHandler          *goalhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupGoalRoutes(engine *gin.Engine, cfg *GoalRouteConfig) {
	perm := cfg.PermissionMiddleware

	goals := engine.Group("/goals")
	goals.Use(cfg.AuthMiddleware.RequireAuth())
	{
		goals.POST("",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionCreate),
			cfg.GoalHandler.Create)
		goals.GET("",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionRead),
			cfg.GoalHandler.List)

		goals.PATCH("/:id/progress",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionUpdate),
			cfg.GoalHandler.UpdateProgress)

		goals.GET("/:id",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionRead),
			cfg.GoalHandler.Get)
		goals.PUT("/:id",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionUpdate),
			cfg.GoalHandler.Update)
		goals.DELETE("/:id",
			perm.RequirePermission(permission.ResourceGoal, permission.ActionDelete),
			cfg.GoalHandler.Delete)
	}
}
