// Package webhookinbox deduplicates inbound webhook deliveries through the
// webhook event log.
package webhookinbox

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// Handler processes a delivery. Returning ignored marks the event as seen
// without work.
type Handler func(ctx context.Context) (ignored bool, err error)

// Result describes how a delivery was settled.
type Result struct {
	Duplicate bool
	Ignored   bool
}

type Inbox struct {
	repo   webhook.Repository
	logger logger.Interface
}

func New(repo webhook.Repository, logger logger.Interface) *Inbox {
	return &Inbox{repo: repo, logger: logger}
}

// Process records the delivery and runs handle unless an earlier delivery
// with the same key was already handled. A failed delivery is retried on
// redelivery.
func (in *Inbox) Process(ctx context.Context, source webhook.Source, externalID, eventType string, payload []byte, handle Handler) (Result, error) {
	e, err := webhook.NewEvent(source, externalID, eventType, payload)
	if err != nil {
		return Result{}, err
	}
	existing, created, err := in.repo.Record(ctx, e)
	if err != nil {
		return Result{}, fmt.Errorf("failed to record webhook event: %w", err)
	}
	if !created {
		if existing.IsHandled() {
			in.logger.Infow("duplicate webhook delivery",
				"source", source,
				"event_type", eventType,
				"dedup_key", existing.DedupKey(),
			)
			return Result{Duplicate: true}, nil
		}
		e = existing
	}

	ignored, handleErr := handle(ctx)
	switch {
	case handleErr != nil:
		e.MarkFailed(handleErr)
	case ignored:
		e.MarkIgnored()
	default:
		e.MarkProcessed()
	}
	if err := in.repo.Update(ctx, e); err != nil {
		in.logger.Errorw("failed to update webhook event", "event_id", e.ID(), "error", err)
	}
	if handleErr != nil {
		in.logger.Errorw("webhook handling failed",
			"source", source,
			"event_type", eventType,
			"error", handleErr,
		)
		return Result{}, handleErr
	}
	return Result{Ignored: ignored}, nil
}
