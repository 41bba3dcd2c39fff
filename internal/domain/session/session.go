package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var statusTransitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	maxNotesLength    = 10000
	maxFeedbackLength = 2000
)

var (
	ErrNotCompleted      = errors.New("feedback is only accepted for completed sessions")
	ErrFeedbackGiven     = errors.New("feedback has already been submitted")
	ErrVideoWindowClosed = errors.New("video is only available from shortly before start until the session ends")
)

// Session is the coaching meeting attached to a booking.
type Session struct {
	id             string
	bookingID      string
	coachID        string
	menteeID       string
	scheduledStart time.Time
	scheduledEnd   time.Time
	status         Status
	coachNotes     string
	rating         *int
	feedback       string
	completedAt    *time.Time
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

func NewSession(bookingID, coachID, menteeID string, start, end time.Time) (*Session, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("booking ID is required")
	}
	if coachID == "" {
		return nil, fmt.Errorf("coach ID is required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("session end must be after start")
	}

	now := biztime.NowUTC()
	return &Session{
		id:             id.New(),
		bookingID:      bookingID,
		coachID:        coachID,
		menteeID:       menteeID,
		scheduledStart: start.UTC(),
		scheduledEnd:   end.UTC(),
		status:         StatusScheduled,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructSession(
	sessionID, bookingID, coachID, menteeID string,
	start, end time.Time,
	status Status,
	coachNotes string,
	rating *int,
	feedback string,
	completedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid session status: %s", status)
	}
	return &Session{
		id:             sessionID,
		bookingID:      bookingID,
		coachID:        coachID,
		menteeID:       menteeID,
		scheduledStart: start,
		scheduledEnd:   end,
		status:         status,
		coachNotes:     coachNotes,
		rating:         rating,
		feedback:       feedback,
		completedAt:    completedAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (s *Session) ID() string                { return s.id }
func (s *Session) BookingID() string         { return s.bookingID }
func (s *Session) CoachID() string           { return s.coachID }
func (s *Session) MenteeID() string          { return s.menteeID }
func (s *Session) ScheduledStart() time.Time { return s.scheduledStart }
func (s *Session) ScheduledEnd() time.Time   { return s.scheduledEnd }
func (s *Session) Status() Status            { return s.status }
func (s *Session) CoachNotes() string        { return s.coachNotes }
func (s *Session) Rating() *int              { return s.rating }
func (s *Session) Feedback() string          { return s.feedback }
func (s *Session) CompletedAt() *time.Time   { return s.completedAt }
func (s *Session) Version() int              { return s.version }
func (s *Session) CreatedAt() time.Time      { return s.createdAt }
func (s *Session) UpdatedAt() time.Time      { return s.updatedAt }

func (s *Session) IsParticipant(userID string) bool {
	return userID != "" && (userID == s.coachID || userID == s.menteeID)
}

func (s *Session) IsCoach(userID string) bool {
	return userID != "" && userID == s.coachID
}

func (s *Session) TransitionTo(next Status) error {
	if s.status == next {
		return nil
	}
	if !s.status.CanTransitionTo(next) {
		return fmt.Errorf("cannot transition session from %s to %s", s.status, next)
	}
	s.status = next
	if next == StatusCompleted {
		now := biztime.NowUTC()
		s.completedAt = &now
	}
	s.touch()
	return nil
}

func (s *Session) Cancel() error {
	return s.TransitionTo(StatusCancelled)
}

// Complete marks the session completed once its scheduled end has passed.
func (s *Session) Complete(now time.Time) error {
	if now.Before(s.scheduledEnd) {
		return fmt.Errorf("session has not ended yet")
	}
	return s.TransitionTo(StatusCompleted)
}

// MoveTo reattaches the session to a rescheduled booking.
func (s *Session) MoveTo(bookingID string, start, end time.Time) error {
	if s.status != StatusScheduled {
		return fmt.Errorf("only scheduled sessions can be moved")
	}
	if bookingID == "" {
		return fmt.Errorf("booking ID is required")
	}
	if !end.After(start) {
		return fmt.Errorf("session end must be after start")
	}
	s.bookingID = bookingID
	s.scheduledStart = start.UTC()
	s.scheduledEnd = end.UTC()
	s.touch()
	return nil
}

// LinkMentee attaches the mentee matched after the session was created. It
// reports whether the session changed.
func (s *Session) LinkMentee(menteeID string) bool {
	if menteeID == "" || s.menteeID == menteeID {
		return false
	}
	s.menteeID = menteeID
	s.touch()
	return true
}

func (s *Session) UpdateNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxNotesLength {
		return fmt.Errorf("notes exceed maximum length of %d characters", maxNotesLength)
	}
	s.coachNotes = notes
	s.touch()
	return nil
}

func (s *Session) SubmitFeedback(rating int, feedback string) error {
	if s.status != StatusCompleted {
		return ErrNotCompleted
	}
	if s.rating != nil {
		return ErrFeedbackGiven
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	feedback = strings.TrimSpace(feedback)
	if len([]rune(feedback)) > maxFeedbackLength {
		return fmt.Errorf("feedback exceeds maximum length of %d characters", maxFeedbackLength)
	}
	s.rating = &rating
	s.feedback = feedback
	s.touch()
	return nil
}

// VideoWindowOpen reports whether a participant may join at now: from lead
// before the scheduled start until the scheduled end.
func (s *Session) VideoWindowOpen(now time.Time, lead time.Duration) bool {
	if s.status != StatusScheduled && s.status != StatusInProgress {
		return false
	}
	return !now.Before(s.scheduledStart.Add(-lead)) && now.Before(s.scheduledEnd)
}

func (s *Session) touch() {
	s.updatedAt = biztime.NowUTC()
	s.version++
}
