package coach

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ListCoachesExecutor interface {
	Execute(ctx context.Context, req dto.ListCoachesRequest) (*dto.ListCoachesResponse, error)
}

type GetCoachExecutor interface {
	Execute(ctx context.Context, coachID string) (*dto.CoachDTO, error)
}

type UpsertProfileExecutor interface {
	Execute(ctx context.Context, userID string, req dto.UpsertProfileRequest) (*dto.CoachDTO, error)
}

// Handler serves the public coach directory and the coach's own profile.
type Handler struct {
	listCoachesUC   ListCoachesExecutor
	getCoachUC      GetCoachExecutor
	upsertProfileUC UpsertProfileExecutor
	logger          logger.Interface
}

func NewHandler(
	listCoachesUC ListCoachesExecutor,
	getCoachUC GetCoachExecutor,
	upsertProfileUC UpsertProfileExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		listCoachesUC:   listCoachesUC,
		getCoachUC:      getCoachUC,
		upsertProfileUC: upsertProfileUC,
		logger:          logger,
	}
}

// ListCoaches lists coaches accepting clients
// @Summary List coaches
// @Description Public coach directory with specialty, price range and provider filters
// @Tags Coaches
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param specialty query string false "Specialty"
// @Param min_rate query int false "Minimum hourly rate in cents"
// @Param max_rate query int false "Maximum hourly rate in cents"
// @Param provider query string false "calcom or calendly"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /coaches [get]
func (h *Handler) ListCoaches(c *gin.Context) {
	var req dto.ListCoachesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listCoachesUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Coaches, result.Total, result.Page, result.PageSize)
}

// GetCoach returns one coach
// @Summary Get coach
// @Tags Coaches
// @Produce json
// @Param id path string true "Coach user ID"
// @Success 200 {object} utils.APIResponse{data=dto.CoachDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /coaches/{id} [get]
func (h *Handler) GetCoach(c *gin.Context) {
	coachID, err := utils.ParseIDParam(c, "id", "coach")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getCoachUC.Execute(c.Request.Context(), coachID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpsertMyProfile handles PUT /coaches/me/profile
func (h *Handler) UpsertMyProfile(c *gin.Context) {
	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for coach profile", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	userID, _ := utils.CurrentUserID(c)
	result, err := h.upsertProfileUC.Execute(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile saved successfully", result)
}
