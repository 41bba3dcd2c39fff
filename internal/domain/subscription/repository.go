package subscription

import "context"

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, onlyActive bool) ([]*Plan, error)
}

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)
	// GetCurrentByUser returns the user's active or past-due subscription.
	GetCurrentByUser(ctx context.Context, userID string) (*Subscription, error)
	// GetLatestByUser returns the most recently created subscription of any status.
	GetLatestByUser(ctx context.Context, userID string) (*Subscription, error)
}
