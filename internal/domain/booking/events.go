package booking

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/shared/events"
)

const (
	EventTypeBookingCreated     = "booking.created"
	EventTypeBookingCancelled   = "booking.cancelled"
	EventTypeBookingRescheduled = "booking.rescheduled"
	EventTypeProposalCreated    = "proposal.created"
	EventTypeProposalAccepted   = "proposal.accepted"
	EventTypeProposalDeclined   = "proposal.declined"
)

// Participants lists the users an event concerns.
type Participants struct {
	CoachID  string `json:"coach_id"`
	MenteeID string `json:"mentee_id,omitempty"`
}

// UserIDs returns the non-empty participant IDs.
func (p Participants) UserIDs() []string {
	ids := make([]string, 0, 2)
	if p.CoachID != "" {
		ids = append(ids, p.CoachID)
	}
	if p.MenteeID != "" {
		ids = append(ids, p.MenteeID)
	}
	return ids
}

func participantsOf(b *Booking) Participants {
	return Participants{CoachID: b.CoachID(), MenteeID: b.MenteeID()}
}

type BookingCreatedEvent struct {
	events.BaseEvent
	Participants
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func NewBookingCreatedEvent(b *Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BaseEvent:    events.NewBaseEvent(b.ID(), EventTypeBookingCreated),
		Participants: participantsOf(b),
		Title:        b.Title(),
		StartTime:    b.StartTime(),
		EndTime:      b.EndTime(),
	}
}

type BookingCancelledEvent struct {
	events.BaseEvent
	Participants
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	Reason      string    `json:"reason,omitempty"`
	CancelledBy string    `json:"cancelled_by,omitempty"`
}

func NewBookingCancelledEvent(b *Booking) BookingCancelledEvent {
	return BookingCancelledEvent{
		BaseEvent:    events.NewBaseEvent(b.ID(), EventTypeBookingCancelled),
		Participants: participantsOf(b),
		Title:        b.Title(),
		StartTime:    b.StartTime(),
		Reason:       b.CancellationReason(),
		CancelledBy:  b.CancelledBy(),
	}
}

type BookingRescheduledEvent struct {
	events.BaseEvent
	Participants
	PreviousBookingID string    `json:"previous_booking_id"`
	Title             string    `json:"title"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
}

func NewBookingRescheduledEvent(previous, next *Booking) BookingRescheduledEvent {
	return BookingRescheduledEvent{
		BaseEvent:         events.NewBaseEvent(next.ID(), EventTypeBookingRescheduled),
		Participants:      participantsOf(next),
		PreviousBookingID: previous.ID(),
		Title:             next.Title(),
		StartTime:         next.StartTime(),
		EndTime:           next.EndTime(),
	}
}

type ProposalEvent struct {
	events.BaseEvent
	Participants
	BookingID     string       `json:"booking_id"`
	Kind          ProposalKind `json:"kind"`
	ProposedBy    string       `json:"proposed_by"`
	ProposedStart *time.Time   `json:"proposed_start,omitempty"`
	ProposedEnd   *time.Time   `json:"proposed_end,omitempty"`
	Reason        string       `json:"reason,omitempty"`
}

func NewProposalEvent(eventType string, p *Proposal, b *Booking) ProposalEvent {
	return ProposalEvent{
		BaseEvent:     events.NewBaseEvent(p.ID(), eventType),
		Participants:  participantsOf(b),
		BookingID:     b.ID(),
		Kind:          p.Kind(),
		ProposedBy:    p.ProposedBy(),
		ProposedStart: p.ProposedStart(),
		ProposedEnd:   p.ProposedEnd(),
		Reason:        p.Reason(),
	}
}
