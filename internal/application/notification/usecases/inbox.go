package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/notification/dto"
	"github.com/coachhub/coachhub/internal/domain/notification"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ListNotificationsUseCase struct {
	repo   notification.NotificationRepository
	logger logger.Interface
}

func NewListNotificationsUseCase(repo notification.NotificationRepository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo, logger: logger}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID string, req dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error) {
	uc.logger.Debugw("executing list notifications use case", "user_id", userID, "unread_only", req.UnreadOnly)

	p := utils.ValidatePagination(req.Page, req.PageSize)
	items, total, err := uc.repo.ListByUserID(ctx, userID, req.UnreadOnly, p.PageSize, (p.Page-1)*p.PageSize)
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	out := make([]*dto.NotificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, dto.ToNotificationDTO(n))
	}
	return &dto.ListNotificationsResponse{
		Notifications: out,
		Total:         total,
		UnreadCount:   unread,
		Page:          p.Page,
		PageSize:      p.PageSize,
	}, nil
}

type MarkNotificationReadUseCase struct {
	repo   notification.NotificationRepository
	logger logger.Interface
}

func NewMarkNotificationReadUseCase(repo notification.NotificationRepository, logger logger.Interface) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{repo: repo, logger: logger}
}

// Execute marks one of the user's notifications read. Other users'
// notifications are reported as not found.
func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, userID, notificationID string) (*dto.NotificationDTO, error) {
	uc.logger.Infow("executing mark notification read use case", "user_id", userID, "notification_id", notificationID)

	n, err := uc.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	if n == nil || n.UserID() != userID {
		return nil, errors.NewNotFoundError("notification not found")
	}
	if n.IsRead() {
		return dto.ToNotificationDTO(n), nil
	}

	n.MarkAsRead()
	if err := uc.repo.Update(ctx, n); err != nil {
		uc.logger.Errorw("failed to update notification", "notification_id", n.ID(), "error", err)
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return dto.ToNotificationDTO(n), nil
}

type MarkAllReadUseCase struct {
	repo   notification.NotificationRepository
	logger logger.Interface
}

func NewMarkAllReadUseCase(repo notification.NotificationRepository, logger logger.Interface) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{repo: repo, logger: logger}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error) {
	uc.logger.Infow("executing mark all notifications read use case", "user_id", userID)

	updated, err := uc.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to mark notifications read", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return &dto.MarkAllReadResponse{Updated: updated}, nil
}
