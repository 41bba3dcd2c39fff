package goal

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusArchived
}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type Goal struct {
	id          string
	menteeID    string
	coachID     *string
	title       string
	description string
	status      Status
	progress    int
	targetDate  *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewGoal(menteeID string, coachID *string, title, description string, targetDate *time.Time) (*Goal, error) {
	if menteeID == "" {
		return nil, fmt.Errorf("mentee ID is required")
	}
	g := &Goal{
		id:       id.New(),
		menteeID: menteeID,
		status:   StatusActive,
		version:  1,
	}
	if err := g.setDetails(title, description, targetDate); err != nil {
		return nil, err
	}
	g.setCoach(coachID)
	now := biztime.NowUTC()
	g.createdAt = now
	g.updatedAt = now
	return g, nil
}

func ReconstructGoal(
	goalID, menteeID string,
	coachID *string,
	title, description string,
	status Status,
	progress int,
	targetDate *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Goal, error) {
	if goalID == "" {
		return nil, fmt.Errorf("goal ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid goal status: %s", status)
	}
	return &Goal{
		id:          goalID,
		menteeID:    menteeID,
		coachID:     coachID,
		title:       title,
		description: description,
		status:      status,
		progress:    progress,
		targetDate:  targetDate,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (g *Goal) ID() string             { return g.id }
func (g *Goal) MenteeID() string       { return g.menteeID }
func (g *Goal) CoachID() *string       { return g.coachID }
func (g *Goal) Title() string          { return g.title }
func (g *Goal) Description() string    { return g.description }
func (g *Goal) Status() Status         { return g.status }
func (g *Goal) Progress() int          { return g.progress }
func (g *Goal) TargetDate() *time.Time { return g.targetDate }
func (g *Goal) Version() int           { return g.version }
func (g *Goal) CreatedAt() time.Time   { return g.createdAt }
func (g *Goal) UpdatedAt() time.Time   { return g.updatedAt }

func (g *Goal) IsOwnedBy(userID string) bool {
	return userID != "" && g.menteeID == userID
}

func (g *Goal) IsCoachedBy(userID string) bool {
	return userID != "" && g.coachID != nil && *g.coachID == userID
}

// CanView reports whether userID may read the goal.
func (g *Goal) CanView(userID string) bool {
	return g.IsOwnedBy(userID) || g.IsCoachedBy(userID)
}

func (g *Goal) Update(title, description string, targetDate *time.Time, coachID *string) error {
	if g.status == StatusArchived {
		return fmt.Errorf("archived goals cannot be edited")
	}
	if err := g.setDetails(title, description, targetDate); err != nil {
		return err
	}
	g.setCoach(coachID)
	g.touch()
	return nil
}

// SetProgress records progress. Reaching 100 completes the goal.
func (g *Goal) SetProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	if g.status == StatusArchived {
		return fmt.Errorf("archived goals cannot be updated")
	}
	g.progress = progress
	if progress == 100 {
		g.status = StatusCompleted
	} else if g.status == StatusCompleted {
		g.status = StatusActive
	}
	g.touch()
	return nil
}

func (g *Goal) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid goal status: %s", status)
	}
	if g.status == status {
		return nil
	}
	g.status = status
	if status == StatusCompleted {
		g.progress = 100
	}
	g.touch()
	return nil
}

func (g *Goal) setDetails(title, description string, targetDate *time.Time) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if len([]rune(description)) > maxDescriptionLength {
		return fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	g.title = title
	g.description = description
	if targetDate != nil {
		td := targetDate.UTC()
		g.targetDate = &td
	} else {
		g.targetDate = nil
	}
	return nil
}

func (g *Goal) setCoach(coachID *string) {
	if coachID == nil || *coachID == "" {
		g.coachID = nil
		return
	}
	c := *coachID
	g.coachID = &c
}

func (g *Goal) touch() {
	g.updatedAt = biztime.NowUTC()
	g.version++
}
