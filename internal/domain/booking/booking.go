package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// Booking is the local mirror of a booking held by a scheduling provider.
type Booking struct {
	id                 string
	uid                string
	provider           integration.Provider
	providerBookingID  string
	coachID            string
	menteeID           string
	attendeeEmail      string
	attendeeName       string
	eventTypeID        string
	title              string
	startTime          time.Time
	endTime            time.Time
	status             Status
	meetingURL         string
	cancellationReason string
	cancelledBy        string
	rescheduledFromUID string
	metadata           map[string]any
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewBookingParams describes a booking as reported by the provider.
type NewBookingParams struct {
	UID                string
	Provider           integration.Provider
	ProviderBookingID  string
	CoachID            string
	MenteeID           string
	AttendeeEmail      string
	AttendeeName       string
	EventTypeID        string
	Title              string
	StartTime          time.Time
	EndTime            time.Time
	Status             Status
	MeetingURL         string
	RescheduledFromUID string
	Metadata           map[string]any
}

func NewBooking(p NewBookingParams) (*Booking, error) {
	if strings.TrimSpace(p.UID) == "" {
		return nil, fmt.Errorf("booking uid is required")
	}
	if !p.Provider.IsValid() {
		return nil, fmt.Errorf("invalid provider: %s", p.Provider)
	}
	if p.CoachID == "" {
		return nil, fmt.Errorf("coach ID is required")
	}
	if p.StartTime.IsZero() || p.EndTime.IsZero() {
		return nil, fmt.Errorf("start and end time are required")
	}
	if !p.EndTime.After(p.StartTime) {
		return nil, fmt.Errorf("end time must be after start time")
	}
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	now := biztime.NowUTC()
	return &Booking{
		id:                 id.New(),
		uid:                p.UID,
		provider:           p.Provider,
		providerBookingID:  p.ProviderBookingID,
		coachID:            p.CoachID,
		menteeID:           p.MenteeID,
		attendeeEmail:      strings.ToLower(strings.TrimSpace(p.AttendeeEmail)),
		attendeeName:       p.AttendeeName,
		eventTypeID:        p.EventTypeID,
		title:              p.Title,
		startTime:          p.StartTime.UTC(),
		endTime:            p.EndTime.UTC(),
		status:             status,
		meetingURL:         p.MeetingURL,
		rescheduledFromUID: p.RescheduledFromUID,
		metadata:           metadata,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructBooking rebuilds a booking from persistence.
func ReconstructBooking(
	bookingID string,
	p NewBookingParams,
	cancellationReason string,
	cancelledBy string,
	version int,
	createdAt, updatedAt time.Time,
) (*Booking, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("booking ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Booking{
		id:                 bookingID,
		uid:                p.UID,
		provider:           p.Provider,
		providerBookingID:  p.ProviderBookingID,
		coachID:            p.CoachID,
		menteeID:           p.MenteeID,
		attendeeEmail:      p.AttendeeEmail,
		attendeeName:       p.AttendeeName,
		eventTypeID:        p.EventTypeID,
		title:              p.Title,
		startTime:          p.StartTime,
		endTime:            p.EndTime,
		status:             p.Status,
		meetingURL:         p.MeetingURL,
		cancellationReason: cancellationReason,
		cancelledBy:        cancelledBy,
		rescheduledFromUID: p.RescheduledFromUID,
		metadata:           metadata,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (b *Booking) ID() string                     { return b.id }
func (b *Booking) UID() string                    { return b.uid }
func (b *Booking) Provider() integration.Provider { return b.provider }
func (b *Booking) ProviderBookingID() string      { return b.providerBookingID }
func (b *Booking) CoachID() string                { return b.coachID }
func (b *Booking) MenteeID() string               { return b.menteeID }
func (b *Booking) AttendeeEmail() string          { return b.attendeeEmail }
func (b *Booking) AttendeeName() string           { return b.attendeeName }
func (b *Booking) EventTypeID() string            { return b.eventTypeID }
func (b *Booking) Title() string                  { return b.title }
func (b *Booking) StartTime() time.Time           { return b.startTime }
func (b *Booking) EndTime() time.Time             { return b.endTime }
func (b *Booking) Status() Status                 { return b.status }
func (b *Booking) MeetingURL() string             { return b.meetingURL }
func (b *Booking) CancellationReason() string     { return b.cancellationReason }
func (b *Booking) CancelledBy() string            { return b.cancelledBy }
func (b *Booking) RescheduledFromUID() string     { return b.rescheduledFromUID }
func (b *Booking) Version() int                   { return b.version }
func (b *Booking) CreatedAt() time.Time           { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time           { return b.updatedAt }

func (b *Booking) Metadata() map[string]any {
	out := make(map[string]any, len(b.metadata))
	for k, v := range b.metadata {
		out[k] = v
	}
	return out
}

func (b *Booking) Duration() time.Duration {
	return b.endTime.Sub(b.startTime)
}

func (b *Booking) IsParticipant(userID string) bool {
	return userID != "" && (userID == b.coachID || userID == b.menteeID)
}

// CounterpartyOf returns the other participant, or "" if userID is not one.
func (b *Booking) CounterpartyOf(userID string) string {
	switch {
	case userID == "":
		return ""
	case userID == b.coachID:
		return b.menteeID
	case userID == b.menteeID:
		return b.coachID
	default:
		return ""
	}
}

// HasStarted reports whether the booking start time is not in the future.
func (b *Booking) HasStarted(now time.Time) bool {
	return !now.Before(b.startTime)
}

// TransitionTo moves the booking to next. Moving to the current status is a no-op.
func (b *Booking) TransitionTo(next Status) error {
	if b.status == next {
		return nil
	}
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition(b.status, next)
	}
	b.status = next
	b.touch()
	return nil
}

func (b *Booking) Accept() error {
	return b.TransitionTo(StatusAccepted)
}

func (b *Booking) Reject(reason string) error {
	if err := b.TransitionTo(StatusRejected); err != nil {
		return err
	}
	b.cancellationReason = reason
	return nil
}

// Cancel cancels the booking. by is the acting user ID, or empty when the
// cancellation originates from the provider.
func (b *Booking) Cancel(reason, by string) error {
	if b.status == StatusCancelled {
		return nil
	}
	if err := b.TransitionTo(StatusCancelled); err != nil {
		return err
	}
	b.cancellationReason = strings.TrimSpace(reason)
	b.cancelledBy = by
	return nil
}

func (b *Booking) MarkRescheduled() error {
	return b.TransitionTo(StatusRescheduled)
}

func (b *Booking) Complete() error {
	return b.TransitionTo(StatusCompleted)
}

func (b *Booking) MarkNoShow() error {
	return b.TransitionTo(StatusNoShow)
}

// LinkMentee attaches a local mentee matched by attendee email.
func (b *Booking) LinkMentee(menteeID string) {
	if b.menteeID == menteeID {
		return
	}
	b.menteeID = menteeID
	b.touch()
}

// RemoteSnapshot is the provider's current view of a booking.
type RemoteSnapshot struct {
	Title              string
	StartTime          time.Time
	EndTime            time.Time
	Status             Status
	MeetingURL         string
	CancellationReason string
}

// ApplyRemote reconciles the mirror with the provider's view and reports
// whether anything changed. Details are only refreshed while the booking is
// active; status follows the allowed transitions.
func (b *Booking) ApplyRemote(remote RemoteSnapshot) (bool, error) {
	changed := false

	if b.status.IsActive() {
		if remote.Title != "" && remote.Title != b.title {
			b.title = remote.Title
			changed = true
		}
		if !remote.StartTime.IsZero() && !remote.StartTime.Equal(b.startTime) {
			b.startTime = remote.StartTime.UTC()
			changed = true
		}
		if !remote.EndTime.IsZero() && !remote.EndTime.Equal(b.endTime) {
			b.endTime = remote.EndTime.UTC()
			changed = true
		}
		if remote.MeetingURL != "" && remote.MeetingURL != b.meetingURL {
			b.meetingURL = remote.MeetingURL
			changed = true
		}
	}

	if remote.Status != "" && remote.Status != b.status {
		if !b.status.CanTransitionTo(remote.Status) {
			if changed {
				b.touch()
			}
			return changed, ErrInvalidTransition(b.status, remote.Status)
		}
		b.status = remote.Status
		if remote.Status == StatusCancelled || remote.Status == StatusRejected {
			b.cancellationReason = remote.CancellationReason
		}
		changed = true
	}

	if changed {
		b.touch()
	}
	return changed, nil
}

func (b *Booking) touch() {
	b.updatedAt = biztime.NowUTC()
	b.version++
}
