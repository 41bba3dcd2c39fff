package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/schedule"
)

type BookingDTO struct {
	ID                 string         `json:"id"`
	UID                string         `json:"uid"`
	Provider           string         `json:"provider"`
	CoachID            string         `json:"coach_id"`
	MenteeID           string         `json:"mentee_id,omitempty"`
	AttendeeEmail      string         `json:"attendee_email,omitempty"`
	AttendeeName       string         `json:"attendee_name,omitempty"`
	EventTypeID        string         `json:"event_type_id,omitempty"`
	Title              string         `json:"title"`
	StartTime          time.Time      `json:"start_time"`
	EndTime            time.Time      `json:"end_time"`
	Status             string         `json:"status"`
	MeetingURL         string         `json:"meeting_url,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	RescheduledFromUID string         `json:"rescheduled_from_uid,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	PendingProposal    *ProposalDTO   `json:"pending_proposal,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type ProposalDTO struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"booking_id"`
	Kind          string     `json:"kind"`
	ProposedBy    string     `json:"proposed_by"`
	ProposedStart *time.Time `json:"proposed_start,omitempty"`
	ProposedEnd   *time.Time `json:"proposed_end,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RespondedBy   string     `json:"responded_by,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type IntegrationDTO struct {
	Provider        string     `json:"provider"`
	Connected       bool       `json:"connected"`
	Status          string     `json:"status,omitempty"`
	ExternalUserID  string     `json:"external_user_id,omitempty"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

type AvailabilityDTO struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

type ScheduleDTO struct {
	ID               string            `json:"id"`
	CalcomScheduleID int64             `json:"calcom_schedule_id"`
	Name             string            `json:"name"`
	TimeZone         string            `json:"time_zone"`
	IsDefault        bool              `json:"is_default"`
	Availability     []AvailabilityDTO `json:"availability"`
	CreatedAt        time.Time         `json:"created_at"`
}

func ToBookingDTO(b *booking.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:                 b.ID(),
		UID:                b.UID(),
		Provider:           b.Provider().String(),
		CoachID:            b.CoachID(),
		MenteeID:           b.MenteeID(),
		AttendeeEmail:      b.AttendeeEmail(),
		AttendeeName:       b.AttendeeName(),
		EventTypeID:        b.EventTypeID(),
		Title:              b.Title(),
		StartTime:          b.StartTime(),
		EndTime:            b.EndTime(),
		Status:             b.Status().String(),
		MeetingURL:         b.MeetingURL(),
		CancellationReason: b.CancellationReason(),
		RescheduledFromUID: b.RescheduledFromUID(),
		Metadata:           b.Metadata(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
}

func ToBookingDTOs(items []*booking.Booking) []*BookingDTO {
	out := make([]*BookingDTO, 0, len(items))
	for _, b := range items {
		out = append(out, ToBookingDTO(b))
	}
	return out
}

func ToProposalDTO(p *booking.Proposal) *ProposalDTO {
	if p == nil {
		return nil
	}
	return &ProposalDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Kind:          string(p.Kind()),
		ProposedBy:    p.ProposedBy(),
		ProposedStart: p.ProposedStart(),
		ProposedEnd:   p.ProposedEnd(),
		Reason:        p.Reason(),
		Status:        string(p.Status()),
		ExpiresAt:     p.ExpiresAt(),
		RespondedBy:   p.RespondedBy(),
		RespondedAt:   p.RespondedAt(),
		CreatedAt:     p.CreatedAt(),
	}
}

// ToIntegrationDTO never exposes tokens.
func ToIntegrationDTO(p integration.Provider, i *integration.Integration) *IntegrationDTO {
	if i == nil {
		return &IntegrationDTO{Provider: p.String()}
	}
	expires := i.AccessExpiresAt()
	return &IntegrationDTO{
		Provider:        p.String(),
		Connected:       true,
		Status:          i.Status().String(),
		ExternalUserID:  i.ExternalUserID(),
		AccessExpiresAt: &expires,
		LastRefreshedAt: i.LastRefreshedAt(),
		LastSyncedAt:    i.LastSyncedAt(),
		LastError:       i.LastError(),
	}
}

func ToScheduleDTO(s *schedule.Schedule) *ScheduleDTO {
	if s == nil {
		return nil
	}
	rules := make([]AvailabilityDTO, 0, len(s.Availability()))
	for _, r := range s.Availability() {
		rules = append(rules, AvailabilityDTO{Days: r.Days, StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return &ScheduleDTO{
		ID:               s.ID(),
		CalcomScheduleID: s.CalcomScheduleID(),
		Name:             s.Name(),
		TimeZone:         s.Timezone(),
		IsDefault:        s.IsDefault(),
		Availability:     rules,
		CreatedAt:        s.CreatedAt(),
	}
}
