package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/application/webhookinbox"
	"github.com/coachhub/coachhub/internal/domain/payment"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type WebhookResult struct {
	Duplicate bool
	Ignored   bool
}

// HandleStripeWebhookUseCase applies verified Stripe events to payments,
// subscriptions and disputes. Deliveries are deduplicated on the event ID.
type HandleStripeWebhookUseCase struct {
	gateway          paymentgateway.Gateway
	inbox            *webhookinbox.Inbox
	paymentRepo      payment.PaymentRepository
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	disputeRepo      payment.DisputeRepository
	tx               Transactor
	publisher        events.EventPublisher
	logger           logger.Interface
	now              func() time.Time
}

func NewHandleStripeWebhookUseCase(
	gateway paymentgateway.Gateway,
	inbox *webhookinbox.Inbox,
	paymentRepo payment.PaymentRepository,
	subscriptionRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	disputeRepo payment.DisputeRepository,
	tx Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *HandleStripeWebhookUseCase {
	return &HandleStripeWebhookUseCase{
		gateway:          gateway,
		inbox:            inbox,
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		disputeRepo:      disputeRepo,
		tx:               tx,
		publisher:        publisher,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *HandleStripeWebhookUseCase) Execute(ctx context.Context, body []byte, signature string) (WebhookResult, error) {
	ev, err := uc.gateway.ParseWebhook(body, signature)
	if err != nil {
		if errors.IsAuthError(err) {
			uc.logger.Warnw("rejected stripe webhook", "error", err)
			return WebhookResult{}, err
		}
		return WebhookResult{}, errors.NewBadRequestError("malformed webhook payload", err.Error())
	}

	uc.logger.Infow("executing stripe webhook use case", "event_id", ev.ID, "event_type", ev.Type)
	res, err := uc.inbox.Process(ctx, webhook.SourceStripe, ev.ID, string(ev.Type), body, func(ctx context.Context) (bool, error) {
		return uc.handle(ctx, ev)
	})
	return WebhookResult{Duplicate: res.Duplicate, Ignored: res.Ignored}, err
}

func (uc *HandleStripeWebhookUseCase) handle(ctx context.Context, ev *paymentgateway.Event) (bool, error) {
	switch ev.Type {
	case paymentgateway.EventCheckoutCompleted:
		return uc.checkoutCompleted(ctx, ev.Checkout)
	case paymentgateway.EventInvoicePaymentFail:
		return uc.updateSubscription(ctx, ev.StripeSubscriptionID, func(s *subscription.Subscription) error {
			return s.MarkPastDue()
		})
	case paymentgateway.EventSubscriptionDeleted:
		return uc.updateSubscription(ctx, ev.StripeSubscriptionID, func(s *subscription.Subscription) error {
			return s.Cancel("cancelled in stripe")
		})
	case paymentgateway.EventDisputeCreated, paymentgateway.EventDisputeUpdated, paymentgateway.EventDisputeClosed:
		return uc.mirrorDispute(ctx, ev.Dispute)
	default:
		return true, nil
	}
}

func (uc *HandleStripeWebhookUseCase) checkoutCompleted(ctx context.Context, c *paymentgateway.CheckoutCompleted) (bool, error) {
	if c == nil {
		return true, nil
	}

	var p *payment.Payment
	var err error
	if c.PaymentID != "" {
		if p, err = uc.paymentRepo.GetByID(ctx, c.PaymentID); err != nil {
			return false, fmt.Errorf("failed to load payment: %w", err)
		}
	}
	if p == nil && c.SessionID != "" {
		if p, err = uc.paymentRepo.GetByCheckoutSessionID(ctx, c.SessionID); err != nil {
			return false, fmt.Errorf("failed to load payment: %w", err)
		}
	}
	if p == nil {
		uc.logger.Warnw("checkout completed for unknown payment", "session_id", c.SessionID, "payment_id", c.PaymentID)
		return true, nil
	}
	if p.Status().IsPaid() {
		return true, nil
	}

	sub, err := uc.subscriptionRepo.GetByID(ctx, p.SubscriptionID())
	if err != nil {
		return false, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return false, fmt.Errorf("subscription %s of payment %s not found", p.SubscriptionID(), p.ID())
	}

	start, end := c.PeriodStart, c.PeriodEnd
	if start.IsZero() || !end.After(start) {
		plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			return false, fmt.Errorf("failed to load plan: %w", err)
		}
		if plan == nil {
			return false, fmt.Errorf("plan %s not found", sub.PlanID())
		}
		start = uc.now()
		end = plan.Interval().PeriodEnd(start)
	}

	if err := p.MarkAsPaid(c.PaymentIntentID); err != nil {
		return false, err
	}
	if err := sub.Activate(c.StripeCustomerID, c.StripeSubscriptionID, start, end); err != nil {
		return false, err
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.paymentRepo.Update(txCtx, p); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	uc.publish(payment.NewPaymentSucceededEvent(p))
	uc.logger.Infow("subscription activated",
		"subscription_id", sub.ID(),
		"payment_id", p.ID(),
		"period_end", end,
	)
	return false, nil
}

// updateSubscription applies change to the subscription behind stripeID.
// Unknown subscriptions and disallowed transitions are ignored.
func (uc *HandleStripeWebhookUseCase) updateSubscription(ctx context.Context, stripeID string, change func(*subscription.Subscription) error) (bool, error) {
	if stripeID == "" {
		return true, nil
	}
	sub, err := uc.subscriptionRepo.GetByStripeSubscriptionID(ctx, stripeID)
	if err != nil {
		return false, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		uc.logger.Warnw("webhook for unknown subscription", "stripe_subscription_id", stripeID)
		return true, nil
	}

	before := sub.Status()
	if err := change(sub); err != nil {
		uc.logger.Warnw("ignoring subscription webhook", "subscription_id", sub.ID(), "status", before, "error", err)
		return true, nil
	}
	if sub.Status() == before {
		return true, nil
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return false, fmt.Errorf("failed to update subscription: %w", err)
	}
	uc.logger.Infow("subscription status changed", "subscription_id", sub.ID(), "from", before, "to", sub.Status())
	return false, nil
}

func (uc *HandleStripeWebhookUseCase) mirrorDispute(ctx context.Context, snap *payment.DisputeSnapshot) (bool, error) {
	if snap == nil || snap.StripeDisputeID == "" {
		return true, nil
	}

	d, err := uc.disputeRepo.GetByStripeID(ctx, snap.StripeDisputeID)
	if err != nil {
		return false, fmt.Errorf("failed to load dispute: %w", err)
	}

	if d == nil {
		var paymentID *string
		if snap.PaymentIntentID != "" {
			p, err := uc.paymentRepo.GetByPaymentIntentID(ctx, snap.PaymentIntentID)
			if err != nil {
				return false, fmt.Errorf("failed to load disputed payment: %w", err)
			}
			if p != nil {
				id := p.ID()
				paymentID = &id
			}
		}
		d, err = payment.NewDispute(*snap, paymentID)
		if err != nil {
			return false, errors.NewBadRequestError("invalid dispute payload", err.Error())
		}
		if err := uc.disputeRepo.Create(ctx, d); err != nil {
			return false, fmt.Errorf("failed to create dispute: %w", err)
		}
		uc.publish(payment.NewDisputeOpenedEvent(d))
		uc.logger.Infow("dispute opened", "dispute_id", d.ID(), "stripe_dispute_id", d.StripeDisputeID(), "status", d.Status())
		return false, nil
	}

	if _, err := d.Sync(*snap); err != nil {
		return false, errors.NewBadRequestError("invalid dispute payload", err.Error())
	}
	if err := uc.disputeRepo.Update(ctx, d); err != nil {
		return false, fmt.Errorf("failed to update dispute: %w", err)
	}
	uc.logger.Infow("dispute synced", "dispute_id", d.ID(), "status", d.Status())
	return false, nil
}

func (uc *HandleStripeWebhookUseCase) publish(e events.DomainEvent) {
	if err := uc.publisher.Publish(e); err != nil {
		uc.logger.Warnw("failed to publish event", "event_type", e.GetEventType(), "error", err)
	}
}
