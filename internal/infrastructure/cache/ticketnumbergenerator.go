package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coachhub/coachhub/internal/domain/ticket"
	"github.com/coachhub/coachhub/internal/shared/biztime"
)

const ticketSeqPrefix = "ticket:seq:"

var _ ticket.NumberGenerator = (*TicketNumberGenerator)(nil)

// TicketNumberGenerator hands out per-day ticket sequence numbers from a
// Redis counter shared by all instances.
type TicketNumberGenerator struct {
	client *redis.Client
	now    func() time.Time
}

func NewTicketNumberGenerator(client *redis.Client) *TicketNumberGenerator {
	return &TicketNumberGenerator{client: client, now: biztime.NowUTC}
}

func (g *TicketNumberGenerator) Generate(ctx context.Context) (string, error) {
	day := g.now()
	key := ticketSeqPrefix + ticket.NumberDayKey(day)

	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to allocate ticket number: %w", err)
	}
	return ticket.FormatNumber(day, incr.Val()), nil
}
