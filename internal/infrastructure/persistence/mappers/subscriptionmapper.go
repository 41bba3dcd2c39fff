package mappers

import (
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/subscription"
	vo "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	PlanToEntity(model *models.SubscriptionPlanModel) (*subscription.Plan, error)
	PlanToModel(entity *subscription.Plan) *models.SubscriptionPlanModel
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}
	return subscription.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.PlanID,
		vo.SubscriptionStatus(model.Status),
		model.StripeCustomerID,
		model.StripeSubscriptionID,
		utcPtr(model.CurrentPeriodStart),
		utcPtr(model.CurrentPeriodEnd),
		utcPtr(model.CancelledAt),
		model.CancelReason,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:                   entity.ID(),
		UserID:               entity.UserID(),
		PlanID:               entity.PlanID(),
		Status:               entity.Status().String(),
		StripeCustomerID:     entity.StripeCustomerID(),
		StripeSubscriptionID: entity.StripeSubscriptionID(),
		CurrentPeriodStart:   utcPtr(entity.CurrentPeriodStart()),
		CurrentPeriodEnd:     utcPtr(entity.CurrentPeriodEnd()),
		CancelledAt:          utcPtr(entity.CancelledAt()),
		CancelReason:         entity.CancelReason(),
		Version:              entity.Version(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) PlanToEntity(model *models.SubscriptionPlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}
	interval, err := vo.NewBillingInterval(model.BillingInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid billing interval for plan %s: %w", model.ID, err)
	}
	return subscription.ReconstructPlan(
		model.ID,
		model.Name,
		model.Description,
		model.PriceCents,
		model.Currency,
		interval,
		model.SessionsPerPeriod,
		model.StripePriceID,
		model.IsActive,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *SubscriptionMapperImpl) PlanToModel(entity *subscription.Plan) *models.SubscriptionPlanModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionPlanModel{
		ID:                entity.ID(),
		Name:              entity.Name(),
		Description:       entity.Description(),
		PriceCents:        entity.PriceCents(),
		Currency:          entity.Currency(),
		BillingInterval:   entity.Interval().String(),
		SessionsPerPeriod: entity.SessionsPerPeriod(),
		StripePriceID:     entity.StripePriceID(),
		IsActive:          entity.IsActive(),
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}
}
