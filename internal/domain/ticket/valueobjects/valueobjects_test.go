package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{StatusNew, StatusOpen, true},
		{StatusNew, StatusResolved, false},
		{StatusOpen, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusPending, StatusInProgress, true},
		{StatusResolved, StatusReopened, true},
		{StatusResolved, StatusOpen, false},
		{StatusClosed, StatusReopened, true},
		{StatusClosed, StatusOpen, false},
		{StatusReopened, StatusInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("booking")
	assert.NoError(t, err)
	assert.Equal(t, CategoryBooking, c)

	_, err = NewCategory("feature")
	assert.Error(t, err)
}

func TestPriority_SLA(t *testing.T) {
	assert.Equal(t, 2*time.Hour, PriorityUrgent.SLA())
	assert.Equal(t, 24*time.Hour, PriorityMedium.SLA())
	assert.Equal(t, 72*time.Hour, Priority("bogus").SLA())

	_, err := NewPriority("critical")
	assert.Error(t, err)
}
