package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// ReasonMissingUpstream is recorded on mirrors whose provider booking vanished.
const ReasonMissingUpstream = "missing upstream"

type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeCancelled
	OutcomeSkipped
)

// Reconciler applies provider bookings to the local mirrors. Sync and the
// provider webhooks share it so both paths produce the same side effects.
type Reconciler struct {
	bookings  booking.Repository
	proposals booking.ProposalRepository
	sessions  session.Repository
	users     user.Repository
	publisher events.EventPublisher
	logger    logger.Interface
}

func NewReconciler(
	bookings booking.Repository,
	proposals booking.ProposalRepository,
	sessions session.Repository,
	users user.Repository,
	publisher events.EventPublisher,
	logger logger.Interface,
) *Reconciler {
	return &Reconciler{
		bookings:  bookings,
		proposals: proposals,
		sessions:  sessions,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Apply upserts remote as a booking of coachID.
func (r *Reconciler) Apply(ctx context.Context, coachID string, p integration.Provider, remote provider.RemoteBooking) (Outcome, error) {
	existing, err := r.bookings.GetByUID(ctx, remote.UID)
	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to load booking: %w", err)
	}
	if existing == nil {
		return r.create(ctx, coachID, p, remote)
	}
	return r.update(ctx, existing, remote)
}

func (r *Reconciler) create(ctx context.Context, coachID string, p integration.Provider, remote provider.RemoteBooking) (Outcome, error) {
	menteeID := r.matchMentee(ctx, coachID, remote.AttendeeEmail)

	b, err := booking.NewBooking(booking.NewBookingParams{
		UID:                remote.UID,
		Provider:           p,
		ProviderBookingID:  remote.ProviderBookingID,
		CoachID:            coachID,
		MenteeID:           menteeID,
		AttendeeEmail:      remote.AttendeeEmail,
		AttendeeName:       remote.AttendeeName,
		EventTypeID:        remote.EventTypeID,
		Title:              remote.Title,
		StartTime:          remote.StartTime,
		EndTime:            remote.EndTime,
		Status:             remote.Status,
		MeetingURL:         remote.MeetingURL,
		RescheduledFromUID: remote.RescheduledFromUID,
		Metadata:           remote.Metadata,
	})
	if err != nil {
		r.logger.Warnw("skipping unusable remote booking", "uid", remote.UID, "error", err)
		return OutcomeSkipped, nil
	}
	if err := r.bookings.Create(ctx, b); err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to create booking mirror: %w", err)
	}

	var previous *booking.Booking
	if remote.RescheduledFromUID != "" && remote.RescheduledFromUID != remote.UID {
		previous, err = r.retirePredecessor(ctx, remote.RescheduledFromUID)
		if err != nil {
			return OutcomeCreated, err
		}
	}

	if err := r.syncSession(ctx, b, previous); err != nil {
		return OutcomeCreated, err
	}

	if previous != nil {
		r.publish(booking.NewBookingRescheduledEvent(previous, b))
	} else if b.Status().IsActive() {
		r.publish(booking.NewBookingCreatedEvent(b))
	}

	r.logger.Infow("booking mirror created",
		"booking_id", b.ID(),
		"uid", b.UID(),
		"provider", p,
		"status", b.Status(),
	)
	return OutcomeCreated, nil
}

func (r *Reconciler) update(ctx context.Context, b *booking.Booking, remote provider.RemoteBooking) (Outcome, error) {
	before := b.Status()
	changed, applyErr := b.ApplyRemote(remote.Snapshot())
	if applyErr != nil {
		// The provider may report moves the local machine forbids, e.g. a
		// completed booking later cancelled. Keep the terminal local state.
		if !errors.Is(applyErr, booking.ErrInvalidStatusTransition) {
			return OutcomeUnchanged, applyErr
		}
		r.logger.Warnw("ignoring invalid remote status transition",
			"booking_id", b.ID(),
			"from", before,
			"to", remote.Status,
		)
	}

	if b.MenteeID() == "" {
		if menteeID := r.matchMentee(ctx, b.CoachID(), remote.AttendeeEmail); menteeID != "" {
			b.LinkMentee(menteeID)
			changed = true
		}
	}

	if !changed {
		if applyErr != nil {
			return OutcomeSkipped, nil
		}
		return OutcomeUnchanged, nil
	}
	if err := r.bookings.Update(ctx, b); err != nil {
		return OutcomeUnchanged, fmt.Errorf("failed to update booking mirror: %w", err)
	}

	outcome := OutcomeUpdated
	if b.Status() == booking.StatusCancelled && before != booking.StatusCancelled {
		outcome = OutcomeCancelled
		if err := r.afterCancel(ctx, b); err != nil {
			return outcome, err
		}
		r.publish(booking.NewBookingCancelledEvent(b))
	} else if b.Status() == booking.StatusRescheduled {
		// The successor booking takes over the session when it arrives.
		r.supersedeProposal(ctx, b)
	} else if err := r.syncSession(ctx, b, nil); err != nil {
		return outcome, err
	}

	r.logger.Infow("booking mirror updated",
		"booking_id", b.ID(),
		"from", before,
		"to", b.Status(),
	)
	return outcome, nil
}

// CancelMissing cancels a local mirror whose provider booking disappeared.
func (r *Reconciler) CancelMissing(ctx context.Context, b *booking.Booking) error {
	if err := b.Cancel(ReasonMissingUpstream, ""); err != nil {
		return err
	}
	if err := r.bookings.Update(ctx, b); err != nil {
		return fmt.Errorf("failed to cancel missing booking: %w", err)
	}
	if err := r.FinishCancel(ctx, b); err != nil {
		return err
	}
	r.logger.Infow("booking missing upstream, cancelled", "booking_id", b.ID(), "uid", b.UID())
	return nil
}

// FinishCancel runs the side effects of a persisted cancellation: the
// pending proposal is withdrawn, the session cancelled and the event published.
func (r *Reconciler) FinishCancel(ctx context.Context, b *booking.Booking) error {
	if err := r.afterCancel(ctx, b); err != nil {
		return err
	}
	r.publish(booking.NewBookingCancelledEvent(b))
	return nil
}

// retirePredecessor marks the booking a reschedule replaced and returns it.
func (r *Reconciler) retirePredecessor(ctx context.Context, uid string) (*booking.Booking, error) {
	prev, err := r.bookings.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load rescheduled booking: %w", err)
	}
	if prev == nil || prev.Status().IsTerminal() {
		return prev, nil
	}
	if prev.Status() == booking.StatusAccepted {
		err = prev.MarkRescheduled()
	} else {
		err = prev.Cancel("rescheduled", "")
	}
	if err != nil {
		return nil, err
	}
	if err := r.bookings.Update(ctx, prev); err != nil {
		return nil, fmt.Errorf("failed to retire rescheduled booking: %w", err)
	}
	r.supersedeProposal(ctx, prev)
	return prev, nil
}

// syncSession keeps the session aligned with an active booking. A session of
// previous moves to b.
func (r *Reconciler) syncSession(ctx context.Context, b *booking.Booking, previous *booking.Booking) error {
	s, err := r.sessions.GetByBookingID(ctx, b.ID())
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil && previous != nil {
		if s, err = r.sessions.GetByBookingID(ctx, previous.ID()); err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
	}

	if s == nil {
		if b.Status() != booking.StatusAccepted {
			return nil
		}
		s, err = session.NewSession(b.ID(), b.CoachID(), b.MenteeID(), b.StartTime(), b.EndTime())
		if err != nil {
			return err
		}
		if err := r.sessions.Create(ctx, s); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	}

	changed := s.LinkMentee(b.MenteeID())

	switch b.Status() {
	case booking.StatusAccepted:
		moved := s.BookingID() != b.ID() || !s.ScheduledStart().Equal(b.StartTime()) || !s.ScheduledEnd().Equal(b.EndTime())
		if s.Status() == session.StatusScheduled && moved {
			if err := s.MoveTo(b.ID(), b.StartTime(), b.EndTime()); err != nil {
				return err
			}
			changed = true
		}
	case booking.StatusCompleted:
		if s.Status() != session.StatusCompleted {
			if err := s.TransitionTo(session.StatusCompleted); err != nil {
				r.logger.Warnw("cannot complete session", "session_id", s.ID(), "error", err)
			} else {
				changed = true
			}
		}
	case booking.StatusNoShow:
		if s.Status() != session.StatusNoShow {
			if err := s.TransitionTo(session.StatusNoShow); err != nil {
				r.logger.Warnw("cannot mark session no-show", "session_id", s.ID(), "error", err)
			} else {
				changed = true
			}
		}
	}

	if !changed {
		return nil
	}
	if err := r.sessions.Update(ctx, s); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func (r *Reconciler) afterCancel(ctx context.Context, b *booking.Booking) error {
	r.supersedeProposal(ctx, b)

	s, err := r.sessions.GetByBookingID(ctx, b.ID())
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil || s.Status() == session.StatusCancelled {
		return nil
	}
	if err := s.Cancel(); err != nil {
		r.logger.Warnw("cannot cancel session", "session_id", s.ID(), "error", err)
		return nil
	}
	if err := r.sessions.Update(ctx, s); err != nil {
		return fmt.Errorf("failed to cancel session: %w", err)
	}
	return nil
}

func (r *Reconciler) supersedeProposal(ctx context.Context, b *booking.Booking) {
	p, err := r.proposals.GetPendingByBooking(ctx, b.ID())
	if err != nil || p == nil {
		return
	}
	p.Supersede()
	if err := r.proposals.Update(ctx, p); err != nil {
		r.logger.Warnw("failed to withdraw pending proposal", "proposal_id", p.ID(), "error", err)
	}
}

// matchMentee finds the local user behind an attendee email. The coach
// booking their own slot is not a mentee.
func (r *Reconciler) matchMentee(ctx context.Context, coachID, email string) string {
	if email == "" {
		return ""
	}
	u, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		r.logger.Warnw("failed to match attendee", "error", err)
		return ""
	}
	if u == nil || u.IsDeleted() || u.ID() == coachID {
		return ""
	}
	return u.ID()
}

func (r *Reconciler) publish(e events.DomainEvent) {
	if err := r.publisher.Publish(e); err != nil {
		r.logger.Warnw("failed to publish event", "event_type", e.GetEventType(), "error", err)
	}
}
