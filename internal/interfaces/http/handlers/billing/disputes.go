package billing

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/payment/dto"
	"github.com/coachhub/coachhub/internal/application/payment/usecases"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// DisputeService is satisfied by usecases.DisputeUseCases.
type DisputeService interface {
	List(ctx context.Context, req dto.ListDisputesRequest) (*dto.ListDisputesResponse, error)
	SubmitEvidence(ctx context.Context, disputeID, text string) (*dto.DisputeDTO, error)
	UploadEvidenceFile(ctx context.Context, disputeID, filename string, r io.Reader) (*dto.DisputeDTO, error)
	Accept(ctx context.Context, disputeID string) (*dto.DisputeDTO, error)
}

type DisputeHandler struct {
	disputes DisputeService
	logger   logger.Interface
}

func NewDisputeHandler(disputes DisputeService, logger logger.Interface) *DisputeHandler {
	return &DisputeHandler{disputes: disputes, logger: logger}
}

// ListDisputes handles GET /admin/disputes
func (h *DisputeHandler) ListDisputes(c *gin.Context) {
	var req dto.ListDisputesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.disputes.List(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Disputes, result.Total, result.Page, result.PageSize)
}

// SubmitEvidence handles POST /admin/disputes/:id/evidence
func (h *DisputeHandler) SubmitEvidence(c *gin.Context) {
	disputeID, err := utils.ParseIDParam(c, "id", "dispute")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.SubmitEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.disputes.SubmitEvidence(c.Request.Context(), disputeID, req.Text)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Evidence submitted", result)
}

// UploadEvidenceFile uploads a supporting document to Stripe
// @Summary Upload dispute evidence file
// @Description Accepts PDF, PNG or JPEG up to 5 MiB in the "file" form field
// @Tags Disputes
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Dispute ID"
// @Param file formData file true "Evidence document"
// @Success 200 {object} utils.APIResponse{data=dto.DisputeDTO}
// @Failure 400 {object} utils.APIResponse
// @Router /admin/disputes/{id}/evidence/file [post]
func (h *DisputeHandler) UploadEvidenceFile(c *gin.Context) {
	disputeID, err := utils.ParseIDParam(c, "id", "dispute")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecases.MaxEvidenceFileSize+(1<<20))
	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warnw("missing evidence file", "dispute_id", disputeID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required"))
		return
	}
	if header.Size > usecases.MaxEvidenceFileSize {
		utils.ErrorResponseWithError(c, errors.NewValidationError("file exceeds the 5 MiB limit"))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to read uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.disputes.UploadEvidenceFile(c.Request.Context(), disputeID, header.Filename, file)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Evidence file uploaded", result)
}

// AcceptDispute handles POST /admin/disputes/:id/accept
func (h *DisputeHandler) AcceptDispute(c *gin.Context) {
	disputeID, err := utils.ParseIDParam(c, "id", "dispute")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.disputes.Accept(c.Request.Context(), disputeID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Dispute accepted", result)
}
