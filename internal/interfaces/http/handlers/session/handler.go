package session

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/application/session/usecases"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type GetSessionExecutor interface {
	Execute(ctx context.Context, sessionID, userID string, isAdmin bool) (*dto.SessionDTO, error)
}

type ListSessionsExecutor interface {
	Execute(ctx context.Context, query usecases.ListSessionsQuery) (*usecases.ListSessionsResult, error)
}

type UpdateNotesExecutor interface {
	Execute(ctx context.Context, sessionID, userID, notes string) (*dto.SessionDTO, error)
}

type SubmitFeedbackExecutor interface {
	Execute(ctx context.Context, cmd usecases.SubmitFeedbackCommand) (*dto.SessionDTO, error)
}

type IssueVideoTokenExecutor interface {
	Execute(ctx context.Context, sessionID, userID string) (*dto.VideoTokenDTO, error)
}

type ListSessionsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled no_show"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type Handler struct {
	getUC      GetSessionExecutor
	listUC     ListSessionsExecutor
	notesUC    UpdateNotesExecutor
	feedbackUC SubmitFeedbackExecutor
	videoUC    IssueVideoTokenExecutor
	logger     logger.Interface
}

func NewHandler(
	getUC GetSessionExecutor,
	listUC ListSessionsExecutor,
	notesUC UpdateNotesExecutor,
	feedbackUC SubmitFeedbackExecutor,
	videoUC IssueVideoTokenExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		getUC:      getUC,
		listUC:     listUC,
		notesUC:    notesUC,
		feedbackUC: feedbackUC,
		videoUC:    videoUC,
		logger:     logger,
	}
}

func actor(c *gin.Context) (string, error) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return "", errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, nil
}

func (h *Handler) sessionParam(c *gin.Context) (userID, sessionID string, ok bool) {
	userID, err := actor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	sessionID, err = utils.ParseIDParam(c, "id", "session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	return userID, sessionID, true
}

// List handles GET /sessions
func (h *Handler) List(c *gin.Context) {
	userID, err := actor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListSessionsQuery{
		UserID:    userID,
		IsAdmin:   utils.CurrentUserRole(c) == authorization.RoleAdmin.String(),
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.Order,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Sessions, result.Total, result.Page, result.PageSize)
}

// Get handles GET /sessions/:id
func (h *Handler) Get(c *gin.Context) {
	userID, sessionID, ok := h.sessionParam(c)
	if !ok {
		return
	}

	isAdmin := utils.CurrentUserRole(c) == authorization.RoleAdmin.String()
	result, err := h.getUC.Execute(c.Request.Context(), sessionID, userID, isAdmin)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateNotes handles PATCH /sessions/:id/notes
func (h *Handler) UpdateNotes(c *gin.Context) {
	userID, sessionID, ok := h.sessionParam(c)
	if !ok {
		return
	}

	var req dto.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.notesUC.Execute(c.Request.Context(), sessionID, userID, req.Notes)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notes updated successfully", result)
}

// SubmitFeedback rates a completed session
// @Summary Submit session feedback
// @Description The mentee rates a completed session once, 1 to 5
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitFeedbackRequest true "Rating and feedback"
// @Success 200 {object} utils.APIResponse{data=dto.SessionDTO}
// @Failure 409 {object} utils.APIResponse
// @Router /sessions/{id}/feedback [post]
func (h *Handler) SubmitFeedback(c *gin.Context) {
	userID, sessionID, ok := h.sessionParam(c)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for session feedback", "session_id", sessionID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.feedbackUC.Execute(c.Request.Context(), usecases.SubmitFeedbackCommand{
		SessionID: sessionID,
		UserID:    userID,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Feedback submitted successfully", result)
}

// IssueVideoToken handles POST /sessions/:id/video-token
func (h *Handler) IssueVideoToken(c *gin.Context) {
	userID, sessionID, ok := h.sessionParam(c)
	if !ok {
		return
	}

	result, err := h.videoUC.Execute(c.Request.Context(), sessionID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
