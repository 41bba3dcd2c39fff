package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coachhub/coachhub/internal/shared/biztime"
)

var ErrStateNotFound = errors.New("state not found or expired")

// StateInfo is what the OAuth connect step leaves behind for the callback.
type StateInfo struct {
	UserID       string    `json:"user_id"`
	Provider     string    `json:"provider"`
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore keeps OAuth state values in Redis
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a state store. prefix namespaces the keys,
// e.g. "oauth:state:", and ttl bounds how long a user may take to consent.
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Set stores info under state with the configured TTL.
func (s *RedisStateStore) Set(ctx context.Context, state string, info StateInfo) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if info.CodeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = biztime.NowUTC()
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(state), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// VerifyAndGet consumes state. GETDEL makes every state single use.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.buildKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}
	return &info, nil
}

func (s *RedisStateStore) buildKey(state string) string {
	return s.prefix + state
}
