package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const expireBatchSize = 200

type ExpireProposalsUseCase struct {
	proposalRepo booking.ProposalRepository
	logger       logger.Interface
	now          func() time.Time
}

func NewExpireProposalsUseCase(proposalRepo booking.ProposalRepository, logger logger.Interface) *ExpireProposalsUseCase {
	return &ExpireProposalsUseCase{proposalRepo: proposalRepo, logger: logger, now: biztime.NowUTC}
}

// Execute expires pending proposals past their deadline and returns how many
// were expired.
func (uc *ExpireProposalsUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	expired := 0
	for {
		batch, err := uc.proposalRepo.ListExpired(ctx, now, expireBatchSize)
		if err != nil {
			return expired, fmt.Errorf("failed to list expired proposals: %w", err)
		}
		progressed := 0
		for _, p := range batch {
			if !p.Expire(now) {
				continue
			}
			if err := uc.proposalRepo.Update(ctx, p); err != nil {
				uc.logger.Warnw("failed to expire proposal", "proposal_id", p.ID(), "error", err)
				continue
			}
			progressed++
		}
		expired += progressed
		if len(batch) < expireBatchSize || progressed == 0 {
			break
		}
	}

	if expired > 0 {
		uc.logger.Infow("proposals expired", "count", expired)
	}
	return expired, nil
}
