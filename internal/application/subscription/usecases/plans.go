package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/subscription/dto"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	vo "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// PlanUseCases administers subscription plans and serves the public catalog.
type PlanUseCases struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewPlanUseCases(planRepo subscription.PlanRepository, logger logger.Interface) *PlanUseCases {
	return &PlanUseCases{planRepo: planRepo, logger: logger}
}

func (uc *PlanUseCases) Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanDTO, error) {
	uc.logger.Infow("executing create plan use case", "name", req.Name, "stripe_price_id", req.StripePriceID)

	interval, err := vo.NewBillingInterval(req.Interval)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	p, err := subscription.NewPlan(subscription.PlanInput{
		Name:              req.Name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		Currency:          req.Currency,
		Interval:          interval,
		SessionsPerPeriod: req.SessionsPerPeriod,
		StripePriceID:     req.StripePriceID,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.planRepo.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create plan", "name", req.Name, "error", err)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	uc.logger.Infow("plan created", "plan_id", p.ID())
	return dto.ToPlanDTO(p, true), nil
}

func (uc *PlanUseCases) Update(ctx context.Context, planID string, req dto.UpdatePlanRequest) (*dto.PlanDTO, error) {
	uc.logger.Infow("executing update plan use case", "plan_id", planID)

	p, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}

	in := subscription.PlanInput{
		Name:              p.Name(),
		Description:       p.Description(),
		PriceCents:        p.PriceCents(),
		Currency:          p.Currency(),
		Interval:          p.Interval(),
		SessionsPerPeriod: p.SessionsPerPeriod(),
		StripePriceID:     p.StripePriceID(),
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.PriceCents != nil {
		in.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		in.Currency = *req.Currency
	}
	if req.Interval != nil {
		if in.Interval, err = vo.NewBillingInterval(*req.Interval); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if req.SessionsPerPeriod != nil {
		in.SessionsPerPeriod = *req.SessionsPerPeriod
	}
	if req.StripePriceID != nil {
		in.StripePriceID = *req.StripePriceID
	}
	if err := p.Update(in); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if req.IsActive != nil {
		if *req.IsActive {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}

	if err := uc.planRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update plan", "plan_id", planID, "error", err)
		return nil, err
	}
	return dto.ToPlanDTO(p, true), nil
}

// List returns active plans, or every plan when includeInactive is set.
func (uc *PlanUseCases) List(ctx context.Context, includeInactive bool) ([]*dto.PlanDTO, error) {
	plans, err := uc.planRepo.List(ctx, !includeInactive)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	out := make([]*dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.ToPlanDTO(p, includeInactive))
	}
	return out, nil
}
