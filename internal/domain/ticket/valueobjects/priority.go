package valueobjects

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var prioritySLAHours = map[Priority]int{
	PriorityLow:    72,
	PriorityMedium: 24,
	PriorityHigh:   8,
	PriorityUrgent: 2,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := prioritySLAHours[p]
	return ok
}

// SLA returns the response window for the priority. Unknown priorities get
// the low-priority window.
func (p Priority) SLA() time.Duration {
	hours, ok := prioritySLAHours[p]
	if !ok {
		hours = prioritySLAHours[PriorityLow]
	}
	return time.Duration(hours) * time.Hour
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
