package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/session"
)

type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=10000"`
}

type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

type SessionDTO struct {
	ID             string     `json:"id"`
	BookingID      string     `json:"booking_id"`
	CoachID        string     `json:"coach_id"`
	MenteeID       string     `json:"mentee_id"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   time.Time  `json:"scheduled_end"`
	Status         string     `json:"status"`
	CoachNotes     string     `json:"coach_notes,omitempty"`
	Rating         *int       `json:"rating,omitempty"`
	Feedback       string     `json:"feedback,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type VideoTokenDTO struct {
	Token     string    `json:"token"`
	Topic     string    `json:"topic"`
	RoleType  int       `json:"role_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToSessionDTO renders s for viewerID. Coach notes are private to the coach.
func ToSessionDTO(s *session.Session, viewerID string, isAdmin bool) *SessionDTO {
	d := &SessionDTO{
		ID:             s.ID(),
		BookingID:      s.BookingID(),
		CoachID:        s.CoachID(),
		MenteeID:       s.MenteeID(),
		ScheduledStart: s.ScheduledStart(),
		ScheduledEnd:   s.ScheduledEnd(),
		Status:         string(s.Status()),
		Rating:         s.Rating(),
		Feedback:       s.Feedback(),
		CompletedAt:    s.CompletedAt(),
		CreatedAt:      s.CreatedAt(),
		UpdatedAt:      s.UpdatedAt(),
	}
	if isAdmin || s.IsCoach(viewerID) {
		d.CoachNotes = s.CoachNotes()
	}
	return d
}
