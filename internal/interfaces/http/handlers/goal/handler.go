package goal

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/goal/dto"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// GoalService is satisfied by usecases.GoalUseCases.
type GoalService interface {
	Create(ctx context.Context, menteeID string, req dto.CreateGoalRequest) (*dto.GoalDTO, error)
	List(ctx context.Context, userID, status string, page, pageSize int) (*dto.ListGoalsResponse, error)
	Get(ctx context.Context, goalID, userID string) (*dto.GoalDTO, error)
	Update(ctx context.Context, goalID, userID string, req dto.UpdateGoalRequest) (*dto.GoalDTO, error)
	UpdateProgress(ctx context.Context, goalID, userID string, progress int) (*dto.GoalDTO, error)
	Delete(ctx context.Context, goalID, userID string) error
}

type ListGoalsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=active completed archived"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type Handler struct {
	goals  GoalService
	logger logger.Interface
}

func NewHandler(goals GoalService, logger logger.Interface) *Handler {
	return &Handler{goals: goals, logger: logger}
}

func (h *Handler) goalParam(c *gin.Context) (userID, goalID string, ok bool) {
	userID, found := utils.CurrentUserID(c)
	if !found {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return "", "", false
	}
	goalID, err := utils.ParseIDParam(c, "id", "goal")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	return userID, goalID, true
}

// Create creates a goal for the current mentee
// @Summary Create goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param request body dto.CreateGoalRequest true "Goal"
// @Success 201 {object} utils.APIResponse{data=dto.GoalDTO}
// @Failure 400 {object} utils.APIResponse
// @Router /goals [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create goal", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.goals.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Goal created successfully")
}

// List handles GET /goals
func (h *Handler) List(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req ListGoalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.goals.List(c.Request.Context(), userID, req.Status, req.Page, req.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Goals, result.Total, result.Page, result.PageSize)
}

// Get handles GET /goals/:id
func (h *Handler) Get(c *gin.Context) {
	userID, goalID, ok := h.goalParam(c)
	if !ok {
		return
	}

	result, err := h.goals.Get(c.Request.Context(), goalID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Update handles PUT /goals/:id
func (h *Handler) Update(c *gin.Context) {
	userID, goalID, ok := h.goalParam(c)
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.goals.Update(c.Request.Context(), goalID, userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Goal updated successfully", result)
}

// UpdateProgress handles PATCH /goals/:id/progress
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID, goalID, ok := h.goalParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.goals.UpdateProgress(c.Request.Context(), goalID, userID, *req.Progress)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Progress updated successfully", result)
}

// Delete handles DELETE /goals/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, goalID, ok := h.goalParam(c)
	if !ok {
		return
	}

	if err := h.goals.Delete(c.Request.Context(), goalID, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
