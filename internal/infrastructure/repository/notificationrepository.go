package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/notification"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type NotificationRepository struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
	logger logger.Interface
}

func NewNotificationRepository(db *gorm.DB, logger logger.Interface) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
		logger: logger,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ToModel(n)).Error; err != nil {
		r.logger.Errorw("failed to create notification", "user_id", n.UserID(), "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) BulkCreate(ctx context.Context, list []*notification.Notification) error {
	if len(list) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, 0, len(list))
	for _, n := range list {
		rows = append(rows, r.mapper.ToModel(n))
	}
	if err := db.GetTxFromContext(ctx, r.db).CreateInBatches(rows, 100).Error; err != nil {
		r.logger.Errorw("failed to bulk create notifications", "count", len(rows), "error", err)
		return fmt.Errorf("failed to bulk create notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *NotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	model := r.mapper.ToModel(n)
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.NotificationModel{}).
		Where("id = ?", model.ID).
		Update("read_at", model.ReadAt).Error; err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*notification.Notification, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var list []*models.NotificationModel
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list notifications", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*notification.Notification, 0, len(list))
	for _, m := range list {
		n, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", biztime.NowUTC())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
