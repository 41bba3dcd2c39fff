package booking

import (
	"context"
	"time"

	"github.com/coachhub/coachhub/internal/domain/integration"
)

// ListFilter scopes booking queries. CoachID and MenteeID are ANDed; role
// scoping is applied by the caller.
type ListFilter struct {
	Page     int
	PageSize int
	CoachID  string
	MenteeID string
	// ParticipantID matches bookings where the user is coach or mentee.
	ParticipantID string
	Statuses      []Status
	UpcomingAfter *time.Time
	SortOrder     string
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	// Update persists b with optimistic locking on its version.
	Update(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByUID(ctx context.Context, uid string) (*Booking, error)
	GetByProviderBookingID(ctx context.Context, provider integration.Provider, providerBookingID string) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, int64, error)
	// ListInWindow returns the coach's bookings from provider starting in [from, to).
	ListInWindow(ctx context.Context, coachID string, provider integration.Provider, from, to time.Time) ([]*Booking, error)
	// ListEndedBefore returns accepted bookings whose end time is before t.
	ListEndedBefore(ctx context.Context, t time.Time, limit int) ([]*Booking, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, p *Proposal) error
	Update(ctx context.Context, p *Proposal) error
	GetByID(ctx context.Context, id string) (*Proposal, error)
	GetPendingByBooking(ctx context.Context, bookingID string) (*Proposal, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*Proposal, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*Proposal, error)
}
