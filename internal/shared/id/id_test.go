package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsSortableAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		v := New()
		require.Len(t, v, 26)
		assert.False(t, seen[v], "duplicate id %s", v)
		assert.Greater(t, v, prev)
		seen[v] = true
		prev = v
	}
}

func TestParse(t *testing.T) {
	v := New()

	got, err := Parse(strings.ToLower(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = Parse("not-a-ulid")
	assert.Error(t, err)
	assert.False(t, IsValid(""))
	assert.True(t, IsValid(v))
}

func TestTime_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := Time(NewAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got.UTC()))
}
