package billing

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/subscription/dto"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// PlanService is satisfied by usecases.PlanUseCases.
type PlanService interface {
	Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanDTO, error)
	Update(ctx context.Context, planID string, req dto.UpdatePlanRequest) (*dto.PlanDTO, error)
	List(ctx context.Context, includeInactive bool) ([]*dto.PlanDTO, error)
}

type PlanHandler struct {
	plans  PlanService
	logger logger.Interface
}

func NewPlanHandler(plans PlanService, logger logger.Interface) *PlanHandler {
	return &PlanHandler{plans: plans, logger: logger}
}

// ListPlans returns the active subscription plans
// @Summary List plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.PlanDTO}
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	result, err := h.plans.List(c.Request.Context(), false)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListAllPlans handles GET /admin/plans
func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	result, err := h.plans.List(c.Request.Context(), true)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreatePlan handles POST /admin/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

// UpdatePlan handles PATCH /admin/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := utils.ParseIDParam(c, "id", "plan")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.plans.Update(c.Request.Context(), planID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", result)
}
