package webhook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_DedupKey(t *testing.T) {
	e, err := NewEvent(SourceStripe, "evt_1", "checkout.session.completed", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", e.DedupKey())

	payload := []byte(`{"triggerEvent":"BOOKING_CREATED"}`)
	a, err := NewEvent(SourceCalcom, "", "BOOKING_CREATED", payload)
	require.NoError(t, err)
	b, err := NewEvent(SourceCalcom, "", "BOOKING_CREATED", payload)
	require.NoError(t, err)
	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.Len(t, a.DedupKey(), 64)

	_, err = NewEvent("github", "x", "push", nil)
	assert.Error(t, err)
	_, err = NewEvent(SourceClerk, "x", "", nil)
	assert.Error(t, err)
}

func TestEvent_Finish(t *testing.T) {
	e, err := NewEvent(SourceCalendly, "", "invitee.created", []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, e.IsHandled())

	e.MarkFailed(errors.New("db down"))
	assert.Equal(t, StatusFailed, e.Status())
	assert.Equal(t, "db down", e.LastError())
	assert.False(t, e.IsHandled())

	e.MarkProcessed()
	assert.True(t, e.IsHandled())
	assert.Empty(t, e.LastError())
	assert.NotNil(t, e.ProcessedAt())
}
