package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/permission"
	billinghandlers "github.com/coachhub/coachhub/internal/interfaces/http/handlers/billing"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

// BillingRouteConfig holds dependencies for plans, checkout and disputes.
type BillingRouteConfig struct {
	PlanHandler          *billinghandlers.PlanHandler
	BillingHandler       *billinghandlers.BillingHandler
	DisputeHandler       *billinghandlers.DisputeHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	perm := cfg.PermissionMiddleware

	// Public plan catalogue
	engine.GET("/plans", cfg.PlanHandler.ListPlans)

	billing := engine.Group("/billing")
	billing.Use(cfg.AuthMiddleware.RequireAuth())
	{
		billing.POST("/checkout",
			perm.RequirePermission(permission.ResourceBilling, permission.ActionCreate),
			cfg.BillingHandler.Checkout)
		billing.GET("/subscription",
			perm.RequirePermission(permission.ResourceBilling, permission.ActionRead),
			cfg.BillingHandler.GetSubscription)
	}

	plans := engine.Group("/admin/plans")
	plans.Use(
		cfg.AuthMiddleware.RequireAuth(),
		authorization.RequireAdmin(),
		perm.RequirePermission(permission.ResourcePlan, permission.ActionManage),
	)
	{
		plans.GET("", cfg.PlanHandler.ListAllPlans)
		plans.POST("", cfg.PlanHandler.CreatePlan)
		plans.PATCH("/:id", cfg.PlanHandler.UpdatePlan)
	}

	disputes := engine.Group("/admin/disputes")
	disputes.Use(
		cfg.AuthMiddleware.RequireAuth(),
		authorization.RequireAdmin(),
		perm.RequirePermission(permission.ResourceDispute, permission.ActionManage),
	)
	{
		disputes.GET("", cfg.DisputeHandler.ListDisputes)
		disputes.POST("/:id/evidence/file", cfg.DisputeHandler.UploadEvidenceFile)
		disputes.POST("/:id/evidence", cfg.DisputeHandler.SubmitEvidence)
		disputes.POST("/:id/accept", cfg.DisputeHandler.AcceptDispute)
	}
}
