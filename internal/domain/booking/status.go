package booking

import "fmt"

type Status string

const (
	StatusPending     Status = "pending"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
)

var statusTransitions = map[Status][]Status{
	StatusPending: {
		StatusAccepted,
		StatusRejected,
		StatusCancelled,
	},
	StatusAccepted: {
		StatusCancelled,
		StatusRescheduled,
		StatusCompleted,
		StatusNoShow,
	},
}

var validStatuses = map[Status]bool{
	StatusPending:     true,
	StatusAccepted:    true,
	StatusRejected:    true,
	StatusCancelled:   true,
	StatusRescheduled: true,
	StatusCompleted:   true,
	StatusNoShow:      true,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return st, nil
}
