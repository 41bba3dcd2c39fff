package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type Ticket struct {
	id           string
	number       string
	title        string
	description  string
	category     vo.Category
	priority     vo.Priority
	status       vo.TicketStatus
	creatorID    string
	assigneeID   *string
	bookingID    *string
	slaDueTime   *time.Time
	responseTime *time.Time
	resolvedTime *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	closedAt     *time.Time
}

// NewTicket opens a ticket. bookingID optionally links the ticket to a booking.
func NewTicket(
	number string,
	title string,
	description string,
	category vo.Category,
	priority vo.Priority,
	creatorID string,
	bookingID *string,
) (*Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if number == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if len([]rune(description)) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category")
	}
	if priority == "" {
		priority = vo.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if creatorID == "" {
		return nil, fmt.Errorf("creator ID is required")
	}
	if bookingID != nil && *bookingID == "" {
		bookingID = nil
	}

	now := biztime.NowUTC()
	slaDueTime := now.Add(priority.SLA())

	return &Ticket{
		id:          id.New(),
		number:      number,
		title:       title,
		description: description,
		category:    category,
		priority:    priority,
		status:      vo.StatusNew,
		creatorID:   creatorID,
		bookingID:   bookingID,
		slaDueTime:  &slaDueTime,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	ticketID string,
	number string,
	title string,
	description string,
	category vo.Category,
	priority vo.Priority,
	status vo.TicketStatus,
	creatorID string,
	assigneeID *string,
	bookingID *string,
	slaDueTime *time.Time,
	responseTime *time.Time,
	resolvedTime *time.Time,
	version int,
	createdAt, updatedAt time.Time,
	closedAt *time.Time,
) (*Ticket, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if number == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}

	return &Ticket{
		id:           ticketID,
		number:       number,
		title:        title,
		description:  description,
		category:     category,
		priority:     priority,
		status:       status,
		creatorID:    creatorID,
		assigneeID:   assigneeID,
		bookingID:    bookingID,
		slaDueTime:   slaDueTime,
		responseTime: responseTime,
		resolvedTime: resolvedTime,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		closedAt:     closedAt,
	}, nil
}

func (t *Ticket) ID() string               { return t.id }
func (t *Ticket) Number() string           { return t.number }
func (t *Ticket) Title() string            { return t.title }
func (t *Ticket) Description() string      { return t.description }
func (t *Ticket) Category() vo.Category    { return t.category }
func (t *Ticket) Priority() vo.Priority    { return t.priority }
func (t *Ticket) Status() vo.TicketStatus  { return t.status }
func (t *Ticket) CreatorID() string        { return t.creatorID }
func (t *Ticket) AssigneeID() *string      { return t.assigneeID }
func (t *Ticket) BookingID() *string       { return t.bookingID }
func (t *Ticket) SLADueTime() *time.Time   { return t.slaDueTime }
func (t *Ticket) ResponseTime() *time.Time { return t.responseTime }
func (t *Ticket) ResolvedTime() *time.Time { return t.resolvedTime }
func (t *Ticket) Version() int             { return t.version }
func (t *Ticket) CreatedAt() time.Time     { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time     { return t.updatedAt }
func (t *Ticket) ClosedAt() *time.Time     { return t.closedAt }

func (t *Ticket) AssignTo(assigneeID string) error {
	if assigneeID == "" {
		return fmt.Errorf("assignee ID is required")
	}
	if t.status.IsClosed() {
		return fmt.Errorf("cannot assign a closed ticket")
	}

	t.assigneeID = &assigneeID
	if t.status.IsNew() {
		t.status = vo.StatusOpen
	}
	t.touch()
	return nil
}

func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status == newStatus {
		return nil
	}
	if !t.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", t.status, newStatus)
	}

	t.status = newStatus
	now := biztime.NowUTC()

	if newStatus.IsResolved() && t.resolvedTime == nil {
		t.resolvedTime = &now
	}
	if newStatus.IsClosed() && t.closedAt == nil {
		t.closedAt = &now
	}
	if newStatus.IsReopened() {
		t.closedAt = nil
		t.resolvedTime = nil
	}

	t.touch()
	return nil
}

func (t *Ticket) ChangePriority(newPriority vo.Priority) error {
	if !newPriority.IsValid() {
		return fmt.Errorf("invalid priority: %s", newPriority)
	}
	if t.priority == newPriority {
		return nil
	}

	t.priority = newPriority
	if !t.createdAt.IsZero() {
		due := t.createdAt.Add(newPriority.SLA())
		t.slaDueTime = &due
	}
	t.touch()
	return nil
}

// RecordComment updates response tracking for a comment added to the ticket.
// The first public comment from someone other than the creator counts as the
// first response.
func (t *Ticket) RecordComment(c *Comment) error {
	if c == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if c.TicketID() != t.id {
		return fmt.Errorf("comment ticket ID mismatch")
	}

	if t.responseTime == nil && !c.IsInternal() && c.UserID() != t.creatorID {
		now := biztime.NowUTC()
		t.responseTime = &now
	}
	t.touch()
	return nil
}

func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.slaDueTime == nil {
		return false
	}
	if t.status.IsClosed() || t.status.IsResolved() || t.responseTime != nil {
		return false
	}
	return now.After(*t.slaDueTime)
}

func (t *Ticket) CanBeViewedBy(userID string, role authorization.UserRole) bool {
	if role.IsAdmin() {
		return true
	}
	if t.creatorID == userID {
		return true
	}
	return t.assigneeID != nil && *t.assigneeID == userID
}

func (t *Ticket) touch() {
	t.updatedAt = biztime.NowUTC()
	t.version++
}
