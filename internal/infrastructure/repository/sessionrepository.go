package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
	logger logger.Interface
}

func NewSessionRepository(db *gorm.DB, logger logger.Interface) session.Repository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSessionMapper(),
		logger: logger,
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, s *session.Session) error {
	model := r.mapper.ToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create session", "booking_id", model.BookingID, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, s *session.Session) error {
	model := r.mapper.ToModel(s)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.SessionModel{}, model.ID, model.Version, map[string]any{
		"booking_id":      model.BookingID,
		"mentee_id":       model.MenteeID,
		"scheduled_start": model.ScheduledStart,
		"scheduled_end":   model.ScheduledEnd,
		"status":          model.Status,
		"coach_notes":     model.CoachNotes,
		"rating":          model.Rating,
		"feedback":        model.Feedback,
		"completed_at":    model.CompletedAt,
		"updated_at":      model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update session", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update session: %w", err)
	}
	if rows == 0 {
		return conflictError("session", model.ID)
	}
	return nil
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id string) (*session.Session, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *SessionRepositoryImpl) GetByBookingID(ctx context.Context, bookingID string) (*session.Session, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("booking_id = ?", bookingID))
}

func (r *SessionRepositoryImpl) getOne(query *gorm.DB) (*session.Session, error) {
	var model models.SessionModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get session", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SessionRepositoryImpl) List(ctx context.Context, filter session.ListFilter) ([]*session.Session, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SessionModel{})
	if filter.ParticipantID != "" {
		query = query.Where("(coach_id = ? OR mentee_id = ?)", filter.ParticipantID, filter.ParticipantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count sessions", "error", err)
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	order := "scheduled_start DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "scheduled_start ASC"
	}

	var list []*models.SessionModel
	if err := query.Order(order).Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list sessions", "error", err)
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SessionRepositoryImpl) ListEndedBefore(ctx context.Context, t time.Time, limit int) ([]*session.Session, error) {
	var list []*models.SessionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ? AND scheduled_end < ?",
			[]string{string(session.StatusScheduled), string(session.StatusInProgress)}, t.UTC()).
		Order("scheduled_end").
		Limit(limit).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list ended sessions", "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return r.mapper.ToEntities(list)
}
