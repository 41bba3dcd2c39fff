package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BookingMapper
	logger logger.Interface
}

func NewBookingRepository(db *gorm.DB, logger logger.Interface) booking.Repository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mappers.NewBookingMapper(),
		logger: logger,
	}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, b *booking.Booking) error {
	model, err := r.mapper.ToModel(b)
	if err != nil {
		return fmt.Errorf("failed to map booking: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create booking", "uid", model.UID, "error", err)
		return fmt.Errorf("failed to create booking: %w", err)
	}
	r.logger.Infow("booking created", "id", model.ID, "uid", model.UID, "provider", model.Provider)
	return nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, b *booking.Booking) error {
	model, err := r.mapper.ToModel(b)
	if err != nil {
		return fmt.Errorf("failed to map booking: %w", err)
	}
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.BookingModel{}, model.ID, model.Version, map[string]any{
		"provider_booking_id":  model.ProviderBookingID,
		"mentee_id":            model.MenteeID,
		"attendee_email":       model.AttendeeEmail,
		"attendee_name":        model.AttendeeName,
		"title":                model.Title,
		"start_time":           model.StartTime,
		"end_time":             model.EndTime,
		"status":               model.Status,
		"meeting_url":          model.MeetingURL,
		"cancellation_reason":  model.CancellationReason,
		"cancelled_by":         model.CancelledBy,
		"rescheduled_from_uid": model.RescheduledFromUID,
		"metadata":             model.Metadata,
		"updated_at":           model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update booking", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if rows == 0 {
		return conflictError("booking", model.ID)
	}
	return nil
}

func (r *BookingRepositoryImpl) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *BookingRepositoryImpl) GetByUID(ctx context.Context, uid string) (*booking.Booking, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("uid = ?", uid))
}

func (r *BookingRepositoryImpl) GetByProviderBookingID(ctx context.Context, provider integration.Provider, providerBookingID string) (*booking.Booking, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND provider_booking_id = ?", provider.String(), providerBookingID))
}

func (r *BookingRepositoryImpl) getOne(query *gorm.DB) (*booking.Booking, error) {
	var model models.BookingModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get booking", "error", err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *BookingRepositoryImpl) List(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.BookingModel{})

	if filter.CoachID != "" {
		query = query.Where("coach_id = ?", filter.CoachID)
	}
	if filter.MenteeID != "" {
		query = query.Where("mentee_id = ?", filter.MenteeID)
	}
	if filter.ParticipantID != "" {
		query = query.Where("(coach_id = ? OR mentee_id = ?)", filter.ParticipantID, filter.ParticipantID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.UpcomingAfter != nil {
		query = query.Where("start_time >= ?", filter.UpcomingAfter.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count bookings", "error", err)
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	order := "start_time DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "start_time ASC"
	}

	var list []*models.BookingModel
	if err := query.Order(order).Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list bookings", "error", err)
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepositoryImpl) ListInWindow(ctx context.Context, coachID string, provider integration.Provider, from, to time.Time) ([]*booking.Booking, error) {
	var list []*models.BookingModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("coach_id = ? AND provider = ? AND start_time >= ? AND start_time < ?", coachID, provider.String(), from.UTC(), to.UTC()).
		Order("start_time").
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list bookings in window", "coach_id", coachID, "error", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *BookingRepositoryImpl) ListEndedBefore(ctx context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	var list []*models.BookingModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_time < ?", booking.StatusAccepted.String(), t.UTC()).
		Order("end_time").
		Limit(limit).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list ended bookings", "error", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return r.mapper.ToEntities(list)
}

type ProposalRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BookingMapper
	logger logger.Interface
}

func NewProposalRepository(db *gorm.DB, logger logger.Interface) booking.ProposalRepository {
	return &ProposalRepositoryImpl{
		db:     db,
		mapper: mappers.NewBookingMapper(),
		logger: logger,
	}
}

// Create relies on the partial unique index to reject a second pending
// proposal for the same booking.
func (r *ProposalRepositoryImpl) Create(ctx context.Context, p *booking.Proposal) error {
	model := r.mapper.ProposalToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create proposal", "booking_id", model.BookingID, "error", err)
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// Update only transitions proposals that are still pending in storage.
func (r *ProposalRepositoryImpl) Update(ctx context.Context, p *booking.Proposal) error {
	model := r.mapper.ProposalToModel(p)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.BookingProposalModel{}).
		Where("id = ? AND status = ?", model.ID, string(booking.ProposalStatusPending)).
		Updates(map[string]any{
			"status":       model.Status,
			"responded_by": model.RespondedBy,
			"responded_at": model.RespondedAt,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update proposal", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update proposal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return conflictError("proposal", model.ID)
	}
	return nil
}

func (r *ProposalRepositoryImpl) GetByID(ctx context.Context, id string) (*booking.Proposal, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *ProposalRepositoryImpl) GetPendingByBooking(ctx context.Context, bookingID string) (*booking.Proposal, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).
		Where("booking_id = ? AND status = ?", bookingID, string(booking.ProposalStatusPending)))
}

func (r *ProposalRepositoryImpl) getOne(query *gorm.DB) (*booking.Proposal, error) {
	var model models.BookingProposalModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get proposal", "error", err)
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return r.mapper.ProposalToEntity(&model)
}

func (r *ProposalRepositoryImpl) ListByBooking(ctx context.Context, bookingID string) ([]*booking.Proposal, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).Where("booking_id = ?", bookingID).Order("created_at DESC"))
}

func (r *ProposalRepositoryImpl) ListExpired(ctx context.Context, now time.Time, limit int) ([]*booking.Proposal, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires_at <= ?", string(booking.ProposalStatusPending), now.UTC()).
		Order("expires_at").
		Limit(limit))
}

func (r *ProposalRepositoryImpl) list(query *gorm.DB) ([]*booking.Proposal, error) {
	var list []*models.BookingProposalModel
	if err := query.Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list proposals", "error", err)
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	out := make([]*booking.Proposal, 0, len(list))
	for _, m := range list {
		p, err := r.mapper.ProposalToEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
