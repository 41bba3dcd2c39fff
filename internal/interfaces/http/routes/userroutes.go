package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	userhandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/user"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

// UserRouteConfig holds dependencies for user routes.
type UserRouteConfig struct {
	UserHandler          *userhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupUserRoutes configures the current user and admin user routes.
func SetupUserRoutes(engine *gin.Engine, cfg *UserRouteConfig) {
	users := engine.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("/me",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceUser, permission.ActionRead),
			cfg.UserHandler.GetMe)
		users.PATCH("/me",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceUser, permission.ActionUpdate),
			cfg.UserHandler.UpdateMe)
	}

	admin := engine.Group("/admin/users")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		admin.GET("", cfg.UserHandler.ListUsers)
		admin.PATCH("/:id/role", cfg.UserHandler.ChangeRole)
	}
}
