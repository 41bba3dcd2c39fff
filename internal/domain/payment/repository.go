package payment

import (
	"context"

	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*Payment, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Payment, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*Payment, int64, error)
}

type DisputeFilter struct {
	Status   *vo.DisputeStatus
	Page     int
	PageSize int
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *Dispute) error
	Update(ctx context.Context, dispute *Dispute) error
	GetByID(ctx context.Context, id string) (*Dispute, error)
	GetByStripeID(ctx context.Context, stripeDisputeID string) (*Dispute, error)
	List(ctx context.Context, filter DisputeFilter) ([]*Dispute, int64, error)
}
