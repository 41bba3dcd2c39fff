package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func TestSchedulerManager_RegisterMaintenanceJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, m.RegisterMaintenanceJobs(MaintenanceJobs{
		RefreshTokens:   noop,
		SyncBookings:    noop,
		ExpireProposals: noop,
	}, config.SchedulerConfig{BookingSyncInterval: time.Hour}))

	var names []string
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"booking-sync", "proposal-expiry", "token-refresh"}, names)
}

func TestSchedulerManager_RunsJobsImmediatelyWithDeadline(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var runs atomic.Int32
	var hadDeadline atomic.Bool
	require.NoError(t, m.Register(JobSpec{
		Name:     "probe",
		Interval: time.Hour,
		Timeout:  time.Minute,
		Job: BatchJobFunc(func(ctx context.Context) (int, error) {
			_, ok := ctx.Deadline()
			hadDeadline.Store(ok)
			runs.Add(1)
			return 3, nil
		}),
	}))
	require.NoError(t, m.Register(JobSpec{
		Name:     "failing",
		Interval: time.Hour,
		Timeout:  time.Minute,
		Job: BatchJobFunc(func(context.Context) (int, error) {
			return 0, errors.New("boom")
		}),
	}))

	m.Start()
	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, hadDeadline.Load())

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}
