package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/subscription/dto"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.Repository, planRepo subscription.PlanRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{subscriptionRepo: subscriptionRepo, planRepo: planRepo, logger: logger}
}

// Execute returns the user's current subscription, falling back to the most
// recent one so a lapsed subscriber still sees its status.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, userID string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetCurrentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		if sub, err = uc.subscriptionRepo.GetLatestByUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to load subscription: %w", err)
		}
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("no subscription")
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Warnw("failed to load subscription plan", "plan_id", sub.PlanID(), "error", err)
	}
	return dto.ToSubscriptionDTO(sub, plan), nil
}
