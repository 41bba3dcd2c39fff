package ticket

import (
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
)

const (
	EventTypeTicketCreated       = "ticket.created"
	EventTypeTicketAssigned      = "ticket.assigned"
	EventTypeTicketStatusChanged = "ticket.status_changed"
)

type TicketCreatedEvent struct {
	events.BaseEvent
	Number    string `json:"number"`
	Title     string `json:"title"`
	CreatorID string `json:"creator_id"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
}

func NewTicketCreatedEvent(t *Ticket) TicketCreatedEvent {
	return TicketCreatedEvent{
		BaseEvent: events.NewBaseEvent(t.ID(), EventTypeTicketCreated),
		Number:    t.Number(),
		Title:     t.Title(),
		CreatorID: t.CreatorID(),
		Priority:  t.Priority().String(),
		Category:  t.Category().String(),
	}
}

type TicketAssignedEvent struct {
	events.BaseEvent
	Number     string `json:"number"`
	AssigneeID string `json:"assignee_id"`
	AssignedBy string `json:"assigned_by"`
}

func NewTicketAssignedEvent(t *Ticket, assignedBy string) TicketAssignedEvent {
	assignee := ""
	if t.AssigneeID() != nil {
		assignee = *t.AssigneeID()
	}
	return TicketAssignedEvent{
		BaseEvent:  events.NewBaseEvent(t.ID(), EventTypeTicketAssigned),
		Number:     t.Number(),
		AssigneeID: assignee,
		AssignedBy: assignedBy,
	}
}

type TicketStatusChangedEvent struct {
	events.BaseEvent
	Number    string `json:"number"`
	CreatorID string `json:"creator_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

func NewTicketStatusChangedEvent(t *Ticket, oldStatus vo.TicketStatus, changedBy string) TicketStatusChangedEvent {
	return TicketStatusChangedEvent{
		BaseEvent: events.NewBaseEvent(t.ID(), EventTypeTicketStatusChanged),
		Number:    t.Number(),
		CreatorID: t.CreatorID(),
		OldStatus: oldStatus.String(),
		NewStatus: t.Status().String(),
		ChangedBy: changedBy,
	}
}
