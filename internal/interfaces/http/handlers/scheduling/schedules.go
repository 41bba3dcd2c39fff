package scheduling

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// ScheduleManager is satisfied by usecases.ScheduleUseCases.
type ScheduleManager interface {
	List(ctx context.Context, coachID string) ([]*dto.ScheduleDTO, error)
	Create(ctx context.Context, cmd usecases.CreateScheduleCommand) (*dto.ScheduleDTO, error)
	SetDefault(ctx context.Context, coachID, scheduleID string) (*dto.ScheduleDTO, error)
	Delete(ctx context.Context, coachID, scheduleID string) error
}

type ScheduleHandler struct {
	schedules ScheduleManager
	logger    logger.Interface
}

func NewScheduleHandler(schedules ScheduleManager, logger logger.Interface) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

// List handles GET /schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	coachID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.schedules.List(c.Request.Context(), coachID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Create creates an availability schedule on the coach's Cal.com account
// @Summary Create schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body CreateScheduleRequest true "Schedule"
// @Success 201 {object} utils.APIResponse{data=dto.ScheduleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	coachID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create schedule", "coach_id", coachID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.schedules.Create(c.Request.Context(), req.ToCommand(coachID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Schedule created successfully")
}

// SetDefault handles POST /schedules/:id/default
func (h *ScheduleHandler) SetDefault(c *gin.Context) {
	coachID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	scheduleID, err := utils.ParseIDParam(c, "id", "schedule")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.schedules.SetDefault(c.Request.Context(), coachID, scheduleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default schedule updated", result)
}

// Delete handles DELETE /schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	coachID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	scheduleID, err := utils.ParseIDParam(c, "id", "schedule")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), coachID, scheduleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
