package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// TokenRefresher forces a refresh of one integration's tokens.
type TokenRefresher interface {
	Refresh(ctx context.Context, integrationID string) (*integration.Integration, error)
}

type RefreshExpiringTokensResult struct {
	Refreshed int
	Failed    int
}

type RefreshExpiringTokensUseCase struct {
	integrationRepo integration.Repository
	refresher       TokenRefresher
	horizon         time.Duration
	logger          logger.Interface
	now             func() time.Time
}

func NewRefreshExpiringTokensUseCase(
	integrationRepo integration.Repository,
	refresher TokenRefresher,
	horizon time.Duration,
	logger logger.Interface,
) *RefreshExpiringTokensUseCase {
	if horizon <= 0 {
		horizon = 30 * time.Minute
	}
	return &RefreshExpiringTokensUseCase{
		integrationRepo: integrationRepo,
		refresher:       refresher,
		horizon:         horizon,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

// Execute refreshes integrations whose access token expires within the
// horizon so request paths rarely pay for a refresh.
func (uc *RefreshExpiringTokensUseCase) Execute(ctx context.Context) (*RefreshExpiringTokensResult, error) {
	items, err := uc.integrationRepo.ListExpiringBefore(ctx, uc.now().Add(uc.horizon))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring integrations: %w", err)
	}

	result := &RefreshExpiringTokensResult{}
	for _, i := range items {
		if ctx.Err() != nil {
			break
		}
		if _, err := uc.refresher.Refresh(ctx, i.ID()); err != nil {
			result.Failed++
			uc.logger.Warnw("proactive token refresh failed",
				"integration_id", i.ID(),
				"provider", i.Provider(),
				"error", err,
			)
			continue
		}
		result.Refreshed++
	}
	return result, nil
}
