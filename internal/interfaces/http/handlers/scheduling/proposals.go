package scheduling

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type RespondProposalExecutor interface {
	Execute(ctx context.Context, cmd usecases.RespondProposalCommand) (*usecases.RespondProposalResult, error)
}

type ProposalHandler struct {
	acceptUC   RespondProposalExecutor
	declineUC  RespondProposalExecutor
	withdrawUC RespondProposalExecutor
	logger     logger.Interface
}

func NewProposalHandler(acceptUC, declineUC, withdrawUC RespondProposalExecutor, logger logger.Interface) *ProposalHandler {
	return &ProposalHandler{
		acceptUC:   acceptUC,
		declineUC:  declineUC,
		withdrawUC: withdrawUC,
		logger:     logger,
	}
}

// Accept accepts a pending proposal
// @Summary Accept proposal
// @Description The counterparty accepts. A reschedule books the new slot and cancels the old one.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} utils.APIResponse{data=usecases.RespondProposalResult}
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(c *gin.Context) {
	h.respond(c, h.acceptUC, "Proposal accepted")
}

// Decline handles POST /proposals/:id/decline
func (h *ProposalHandler) Decline(c *gin.Context) {
	h.respond(c, h.declineUC, "Proposal declined")
}

// Withdraw handles POST /proposals/:id/withdraw
func (h *ProposalHandler) Withdraw(c *gin.Context) {
	h.respond(c, h.withdrawUC, "Proposal withdrawn")
}

func (h *ProposalHandler) respond(c *gin.Context, uc RespondProposalExecutor, message string) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	proposalID, err := utils.ParseIDParam(c, "id", "proposal")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := uc.Execute(c.Request.Context(), usecases.RespondProposalCommand{
		ProposalID: proposalID,
		UserID:     userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, result)
}
