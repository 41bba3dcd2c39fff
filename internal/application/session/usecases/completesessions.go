package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const completionBatchSize = 200

type CompleteSessionsResult struct {
	Completed int `json:"completed"`
	NoShow    int `json:"no_show"`
	Cancelled int `json:"cancelled"`
	Failed    int `json:"failed"`
	// BookingsCompleted counts ended bookings that had no open session.
	BookingsCompleted int `json:"bookings_completed"`
}

// CompleteSessionsUseCase closes sessions whose scheduled end has passed and
// moves their bookings to completed.
type CompleteSessionsUseCase struct {
	sessionRepo session.Repository
	bookingRepo booking.Repository
	now         func() time.Time
	logger      logger.Interface
}

func NewCompleteSessionsUseCase(sessionRepo session.Repository, bookingRepo booking.Repository, logger logger.Interface) *CompleteSessionsUseCase {
	return &CompleteSessionsUseCase{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		now:         biztime.NowUTC,
		logger:      logger,
	}
}

func (uc *CompleteSessionsUseCase) Execute(ctx context.Context) (*CompleteSessionsResult, error) {
	now := uc.now()
	res := &CompleteSessionsResult{}

	for {
		batch, err := uc.sessionRepo.ListEndedBefore(ctx, now, completionBatchSize)
		if err != nil {
			return res, fmt.Errorf("failed to list ended sessions: %w", err)
		}
		progressed := 0
		for _, s := range batch {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if err := uc.close(ctx, s, now, res); err != nil {
				res.Failed++
				uc.logger.Warnw("failed to close ended session", "session_id", s.ID(), "error", err)
				continue
			}
			progressed++
		}
		if len(batch) < completionBatchSize || progressed == 0 {
			break
		}
	}

	// Bookings without a session still complete once they end.
	bookings, err := uc.bookingRepo.ListEndedBefore(ctx, now, completionBatchSize)
	if err != nil {
		return res, fmt.Errorf("failed to list ended bookings: %w", err)
	}
	for _, b := range bookings {
		if err := b.Complete(); err != nil {
			res.Failed++
			continue
		}
		if err := uc.bookingRepo.Update(ctx, b); err != nil {
			res.Failed++
			uc.logger.Warnw("failed to complete ended booking", "booking_id", b.ID(), "error", err)
			continue
		}
		res.BookingsCompleted++
	}

	if res.Completed+res.NoShow+res.Cancelled+res.Failed+res.BookingsCompleted > 0 {
		uc.logger.Infow("ended sessions closed",
			"completed", res.Completed,
			"no_show", res.NoShow,
			"cancelled", res.Cancelled,
			"bookings_completed", res.BookingsCompleted,
			"failed", res.Failed,
		)
	}
	return res, nil
}

// close settles s according to its booking. A booking that ended without
// being held cancels the session.
func (uc *CompleteSessionsUseCase) close(ctx context.Context, s *session.Session, now time.Time, res *CompleteSessionsResult) error {
	b, err := uc.bookingRepo.GetByID(ctx, s.BookingID())
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}

	switch {
	case b != nil && b.Status() == booking.StatusNoShow:
		if err := s.TransitionTo(session.StatusNoShow); err != nil {
			return err
		}
		res.NoShow++
	case b != nil && b.Status().IsTerminal() && b.Status() != booking.StatusCompleted:
		if err := s.Cancel(); err != nil {
			return err
		}
		res.Cancelled++
	default:
		if err := s.Complete(now); err != nil {
			return err
		}
		if b != nil && b.Status() == booking.StatusAccepted {
			if err := b.Complete(); err != nil {
				return err
			}
			if err := uc.bookingRepo.Update(ctx, b); err != nil {
				return fmt.Errorf("failed to complete booking: %w", err)
			}
		}
		res.Completed++
	}

	if err := uc.sessionRepo.Update(ctx, s); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}
