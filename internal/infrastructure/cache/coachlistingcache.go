package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	coachListingPrefix     = "coaches:list:"
	coachListingGeneration = "coaches:list:gen"
)

// CoachListingCache stores serialized coach listing pages. Entries are keyed
// by a generation counter, so Invalidate retires every page at once and the
// stale keys age out through their TTL.
type CoachListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCoachListingCache(client *redis.Client, ttl time.Duration) *CoachListingCache {
	return &CoachListingCache{client: client, ttl: ttl}
}

// Get returns the cached page for query, or nil on a miss.
func (c *CoachListingCache) Get(ctx context.Context, query string) ([]byte, error) {
	key, err := c.key(ctx, query)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read coach listing cache: %w", err)
	}
	return data, nil
}

func (c *CoachListingCache) Set(ctx context.Context, query string, page []byte) error {
	key, err := c.key(ctx, query)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, page, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write coach listing cache: %w", err)
	}
	return nil
}

// Invalidate bumps the generation.
func (c *CoachListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, coachListingGeneration).Err(); err != nil {
		return fmt.Errorf("failed to invalidate coach listing cache: %w", err)
	}
	return nil
}

func (c *CoachListingCache) key(ctx context.Context, query string) (string, error) {
	gen, err := c.client.Get(ctx, coachListingGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read coach listing generation: %w", err)
	}
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s%d:%s", coachListingPrefix, gen, hex.EncodeToString(sum[:8])), nil
}
