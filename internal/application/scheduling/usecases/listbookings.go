package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ListBookingsQuery struct {
	UserID    string
	IsAdmin   bool
	Statuses  []string
	Upcoming  bool
	Page      int
	PageSize  int
	SortOrder string
}

type ListBookingsResult struct {
	Bookings []*dto.BookingDTO `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type ListBookingsUseCase struct {
	bookingRepo booking.Repository
	logger      logger.Interface
	now         func() time.Time
}

func NewListBookingsUseCase(bookingRepo booking.Repository, logger logger.Interface) *ListBookingsUseCase {
	return &ListBookingsUseCase{bookingRepo: bookingRepo, logger: logger, now: biztime.NowUTC}
}

// Execute lists the caller's bookings. Admins see every booking.
func (uc *ListBookingsUseCase) Execute(ctx context.Context, query ListBookingsQuery) (*ListBookingsResult, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}

	filter := booking.ListFilter{
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortOrder: query.SortOrder,
	}
	if !query.IsAdmin {
		filter.ParticipantID = query.UserID
	}
	for _, raw := range query.Statuses {
		s, err := booking.ParseStatus(raw)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Statuses = append(filter.Statuses, s)
	}
	if query.Upcoming {
		now := uc.now()
		filter.UpcomingAfter = &now
		if filter.SortOrder == "" {
			filter.SortOrder = "asc"
		}
	}

	items, total, err := uc.bookingRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list bookings", "user_id", query.UserID, "error", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &ListBookingsResult{
		Bookings: dto.ToBookingDTOs(items),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}
