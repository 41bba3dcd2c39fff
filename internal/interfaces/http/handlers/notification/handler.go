package notification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/notification/dto"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ListNotificationsExecutor interface {
	Execute(ctx context.Context, userID string, req dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error)
}

type MarkReadExecutor interface {
	Execute(ctx context.Context, userID, notificationID string) (*dto.NotificationDTO, error)
}

type MarkAllReadExecutor interface {
	Execute(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error)
}

type NotificationHandler struct {
	listUC        ListNotificationsExecutor
	markReadUC    MarkReadExecutor
	markAllReadUC MarkAllReadExecutor
	logger        logger.Interface
}

func NewNotificationHandler(
	listUC ListNotificationsExecutor,
	markReadUC MarkReadExecutor,
	markAllReadUC MarkAllReadExecutor,
	logger logger.Interface,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:        listUC,
		markReadUC:    markReadUC,
		markAllReadUC: markAllReadUC,
		logger:        logger,
	}
}

// ListNotifications returns the inbox with the unread count
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=dto.ListNotificationsResponse}
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}
	notificationID, err := utils.ParseIDParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.markReadUC.Execute(c.Request.Context(), userID, notificationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	result, err := h.markAllReadUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
