// Package pubsub relays realtime notification frames between API instances
// over Redis Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/goroutine"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const notificationChannel = "coachhub:notifications"

// LocalDelivery writes a frame to the connections held by this instance.
type LocalDelivery interface {
	SendToUser(userID string, frame []byte) int
}

// NotificationEnvelope carries one frame for one user across instances.
type NotificationEnvelope struct {
	UserID     string          `json:"user_id"`
	Frame      json.RawMessage `json:"frame"`
	Timestamp  int64           `json:"timestamp"`
	InstanceID string          `json:"instance_id"`
}

// RedisNotificationBus delivers frames to local connections and publishes
// them so other instances can reach their own connections.
type RedisNotificationBus struct {
	client     *redis.Client
	local      LocalDelivery
	logger     logger.Interface
	instanceID string
}

func NewRedisNotificationBus(client *redis.Client, local LocalDelivery, logger logger.Interface) *RedisNotificationBus {
	return &RedisNotificationBus{
		client:     client,
		local:      local,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// Push delivers frame locally, then publishes it for the other instances.
func (b *RedisNotificationBus) Push(ctx context.Context, userID string, frame []byte) error {
	b.local.SendToUser(userID, frame)

	data, err := json.Marshal(NotificationEnvelope{
		UserID:     userID,
		Frame:      frame,
		Timestamp:  biztime.NowUTC().Unix(),
		InstanceID: b.instanceID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}

	if err := b.client.Publish(ctx, notificationChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish notification frame", "user_id", userID, "error", err)
		return fmt.Errorf("failed to publish notification frame: %w", err)
	}
	return nil
}

// Run relays frames published by other instances to local connections until
// ctx is cancelled.
func (b *RedisNotificationBus) Run(ctx context.Context) error {
	return b.subscribeWithReconnect(ctx, notificationChannel, func(payload string) {
		var env NotificationEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			b.logger.Warnw("failed to unmarshal notification envelope", "error", err)
			return
		}
		if env.InstanceID == b.instanceID || env.UserID == "" {
			return
		}
		b.local.SendToUser(env.UserID, env.Frame)
	})
}

// subscribeWithReconnect resubscribes with exponential backoff until ctx ends.
func (b *RedisNotificationBus) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("notification subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisNotificationBus) subscribe(ctx context.Context, channel string, handler func(payload string)) error {
	sub := b.client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}
	b.logger.Infow("subscribed to notification channel", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("notification subscriber stopped", "channel", channel, "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("notification channel closed", "channel", channel)
				return nil
			}
			goroutine.SafeGo(b.logger, "notification-relay", func() {
				handler(msg.Payload)
			})
		}
	}
}
