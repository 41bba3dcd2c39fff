package valueobjects

import "fmt"

// TicketStatus is a support ticket's position in the support workflow.
type TicketStatus string

const (
	StatusNew        TicketStatus = "new"
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusPending    TicketStatus = "pending"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
	StatusReopened   TicketStatus = "reopened"
)

type statusSet map[TicketStatus]struct{}

func setOf(statuses ...TicketStatus) statusSet {
	s := make(statusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

// nextStatuses lists where each status may move. Pending means support is
// waiting on the user; only resolved and closed tickets can be reopened.
var nextStatuses = map[TicketStatus]statusSet{
	StatusNew:        setOf(StatusOpen, StatusClosed),
	StatusOpen:       setOf(StatusInProgress, StatusPending, StatusClosed),
	StatusInProgress: setOf(StatusPending, StatusResolved, StatusClosed),
	StatusPending:    setOf(StatusInProgress, StatusResolved, StatusClosed),
	StatusResolved:   setOf(StatusClosed, StatusReopened),
	StatusClosed:     setOf(StatusReopened),
	StatusReopened:   setOf(StatusOpen, StatusInProgress, StatusClosed),
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

func (ts TicketStatus) String() string { return string(ts) }

func (ts TicketStatus) IsValid() bool {
	_, ok := nextStatuses[ts]
	return ok
}

func (ts TicketStatus) CanTransitionTo(next TicketStatus) bool {
	_, ok := nextStatuses[ts][next]
	return ok
}

func (ts TicketStatus) IsNew() bool      { return ts == StatusNew }
func (ts TicketStatus) IsResolved() bool { return ts == StatusResolved }
func (ts TicketStatus) IsClosed() bool   { return ts == StatusClosed }
func (ts TicketStatus) IsReopened() bool { return ts == StatusReopened }
