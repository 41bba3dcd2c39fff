package scheduling

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type SyncCoachExecutor interface {
	Execute(ctx context.Context, coachID string) (*usecases.SyncResult, error)
}

type SyncHandler struct {
	syncCoachUC SyncCoachExecutor
	logger      logger.Interface
}

func NewSyncHandler(syncCoachUC SyncCoachExecutor, logger logger.Interface) *SyncHandler {
	return &SyncHandler{syncCoachUC: syncCoachUC, logger: logger}
}

// SyncCoach handles POST /admin/sync/:coachId
func (h *SyncHandler) SyncCoach(c *gin.Context) {
	coachID, err := utils.ParseIDParam(c, "coachId", "coach")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.syncCoachUC.Execute(c.Request.Context(), coachID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual booking sync finished", "coach_id", coachID,
		"created", result.Created, "updated", result.Updated, "cancelled", result.Cancelled)
	utils.SuccessResponse(c, http.StatusOK, "Sync completed", result)
}
