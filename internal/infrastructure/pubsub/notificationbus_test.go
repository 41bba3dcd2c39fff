package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/shared/logger"
)

type recorder struct {
	mu     sync.Mutex
	frames map[string][]string
}

func (r *recorder) SendToUser(userID string, frame []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames == nil {
		r.frames = map[string][]string{}
	}
	r.frames[userID] = append(r.frames[userID], string(frame))
	return 1
}

func (r *recorder) count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames[userID])
}

func TestRedisNotificationBus_RelaysAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	localA, localB := &recorder{}, &recorder{}
	busA := NewRedisNotificationBus(client, localA, logger.NewNopLogger())
	busB := NewRedisNotificationBus(client, localB, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go busA.Run(ctx)
	go busB.Run(ctx)

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(notificationChannel)[notificationChannel] == 2
	}, time.Second, 10*time.Millisecond)

	frame := []byte(`{"type":"notification"}`)
	require.NoError(t, busA.Push(ctx, "user-1", frame))

	assert.Eventually(t, func() bool { return localB.count("user-1") == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, localA.count("user-1"))
	localB.mu.Lock()
	defer localB.mu.Unlock()
	assert.JSONEq(t, string(frame), localB.frames["user-1"][0])
}

func TestRedisNotificationBus_PushLocalWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	local := &recorder{}
	bus := NewRedisNotificationBus(client, local, logger.NewNopLogger())

	err := bus.Push(context.Background(), "user-1", []byte(`{}`))
	assert.Error(t, err)
	assert.Equal(t, 1, local.count("user-1"))
}
