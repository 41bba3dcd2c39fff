package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/subscription"
	vo "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, p *subscription.Plan) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.PlanToModel(p)).Error; err != nil {
		r.logger.Errorw("failed to create plan", "name", p.Name(), "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}
	r.logger.Infow("plan created", "id", p.ID(), "name", p.Name())
	return nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, p *subscription.Plan) error {
	model := r.mapper.PlanToModel(p)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.SubscriptionPlanModel{}, model.ID, model.Version, map[string]any{
		"name":                model.Name,
		"description":         model.Description,
		"price_cents":         model.PriceCents,
		"currency":            model.Currency,
		"billing_interval":    model.BillingInterval,
		"sessions_per_period": model.SessionsPerPeriod,
		"stripe_price_id":     model.StripePriceID,
		"is_active":           model.IsActive,
		"updated_at":          model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update plan", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if rows == 0 {
		return conflictError("plan", model.ID)
	}
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id string) (*subscription.Plan, error) {
	var model models.SubscriptionPlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.PlanToEntity(&model)
}

func (r *PlanRepositoryImpl) List(ctx context.Context, onlyActive bool) ([]*subscription.Plan, error) {
	query := db.GetTxFromContext(ctx, r.db)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var list []*models.SubscriptionPlanModel
	if err := query.Order("price_cents ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	plans := make([]*subscription.Plan, 0, len(list))
	for _, m := range list {
		p, err := r.mapper.PlanToEntity(m)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, s *subscription.Subscription) error {
	model := r.mapper.ToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	r.logger.Infow("subscription created successfully", "id", model.ID, "user_id", model.UserID, "plan_id", model.PlanID)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, s *subscription.Subscription) error {
	model := r.mapper.ToModel(s)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.SubscriptionModel{}, model.ID, model.Version, map[string]any{
		"plan_id":                model.PlanID,
		"status":                 model.Status,
		"stripe_customer_id":     model.StripeCustomerID,
		"stripe_subscription_id": model.StripeSubscriptionID,
		"current_period_start":   model.CurrentPeriodStart,
		"current_period_end":     model.CurrentPeriodEnd,
		"cancelled_at":           model.CancelledAt,
		"cancel_reason":          model.CancelReason,
		"updated_at":             model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if rows == 0 {
		return conflictError("subscription", model.ID)
	}
	r.logger.Infow("subscription updated successfully", "id", model.ID, "status", model.Status)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *SubscriptionRepositoryImpl) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("stripe_subscription_id = ?", stripeSubscriptionID))
}

func (r *SubscriptionRepositoryImpl) GetCurrentByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status IN ?", userID, []string{vo.StatusActive.String(), vo.StatusPastDue.String()}))
}

func (r *SubscriptionRepositoryImpl) GetLatestByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC, id DESC"))
}

func (r *SubscriptionRepositoryImpl) getOne(query *gorm.DB) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription", "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.mapper.ToEntity(&model)
}
