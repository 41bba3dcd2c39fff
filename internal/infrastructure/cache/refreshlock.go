package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshLockPrefix = "token_refresh:"

// RefreshLock debounces token refreshes across instances. Holding the lock
// for an integration means another instance refreshed it within the window.
type RefreshLock struct {
	client *redis.Client
}

func NewRefreshLock(client *redis.Client) *RefreshLock {
	return &RefreshLock{client: client}
}

func (l *RefreshLock) buildKey(integrationID string) string {
	return refreshLockPrefix + integrationID
}

// TryAcquire takes the lock with SETNX. It returns false while another
// holder's window is still open.
func (l *RefreshLock) TryAcquire(ctx context.Context, integrationID string, window time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.buildKey(integrationID), "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire refresh lock: %w", err)
	}
	return acquired, nil
}

// Release drops the lock so a failed refresh can be retried immediately.
func (l *RefreshLock) Release(ctx context.Context, integrationID string) error {
	if err := l.client.Del(ctx, l.buildKey(integrationID)).Err(); err != nil {
		return fmt.Errorf("failed to release refresh lock: %w", err)
	}
	return nil
}
