package goal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewGoal(t *testing.T) {
	target := time.Now().Add(30 * 24 * time.Hour)
	g, err := NewGoal("mentee-1", strPtr("coach-1"), " Run a 10k ", "", &target)
	require.NoError(t, err)

	assert.Equal(t, "Run a 10k", g.Title())
	assert.Equal(t, StatusActive, g.Status())
	assert.Equal(t, 0, g.Progress())
	assert.True(t, g.CanView("mentee-1"))
	assert.True(t, g.CanView("coach-1"))
	assert.False(t, g.CanView("other"))
	assert.False(t, g.IsOwnedBy("coach-1"))
}

func TestNewGoal_Validation(t *testing.T) {
	_, err := NewGoal("", nil, "t", "", nil)
	assert.Error(t, err)
	_, err = NewGoal("m", nil, "  ", "", nil)
	assert.Error(t, err)
	_, err = NewGoal("m", nil, strings.Repeat("t", 201), "", nil)
	assert.Error(t, err)
}

func TestGoal_SetProgress(t *testing.T) {
	g, err := NewGoal("mentee-1", strPtr(""), "Goal", "", nil)
	require.NoError(t, err)
	assert.Nil(t, g.CoachID())

	assert.Error(t, g.SetProgress(-1))
	assert.Error(t, g.SetProgress(101))

	require.NoError(t, g.SetProgress(100))
	assert.Equal(t, StatusCompleted, g.Status())

	require.NoError(t, g.SetProgress(60))
	assert.Equal(t, StatusActive, g.Status())

	require.NoError(t, g.ChangeStatus(StatusArchived))
	assert.Error(t, g.SetProgress(70))
	assert.Error(t, g.Update("x", "", nil, nil))
}

func TestGoal_ChangeStatusCompletedSetsProgress(t *testing.T) {
	g, err := NewGoal("mentee-1", nil, "Goal", "", nil)
	require.NoError(t, err)

	require.NoError(t, g.ChangeStatus(StatusCompleted))
	assert.Equal(t, 100, g.Progress())
	assert.Error(t, g.ChangeStatus("paused"))
}
