package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/payment/dto"
	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/domain/payment"
	paymentVO "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	subscriptionVO "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const checkoutLifetime = time.Hour

// RedirectURLs are where Stripe Checkout sends the user back to.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// CheckoutUseCase starts a Stripe Checkout for a plan. The subscription stays
// pending_payment until the checkout.session.completed webhook arrives.
type CheckoutUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.Repository
	paymentRepo      payment.PaymentRepository
	userRepo         domainUser.Repository
	gateway          paymentgateway.Gateway
	urls             RedirectURLs
	logger           logger.Interface
	now              func() time.Time
}

func NewCheckoutUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.Repository,
	paymentRepo payment.PaymentRepository,
	userRepo domainUser.Repository,
	gateway paymentgateway.Gateway,
	urls RedirectURLs,
	logger logger.Interface,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		urls:             urls,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *CheckoutUseCase) Execute(ctx context.Context, userID, planID string) (*dto.CheckoutResponse, error) {
	uc.logger.Infow("executing checkout use case", "user_id", userID, "plan_id", planID)

	current, err := uc.subscriptionRepo.GetCurrentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if current != nil {
		return nil, errors.NewConflictError(subscription.ErrAlreadySubscribed.Error(), current.Status().String())
	}

	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError(subscription.ErrPlanNotFound.Error())
	}
	if !plan.IsActive() {
		return nil, errors.NewValidationError(subscription.ErrPlanInactive.Error())
	}

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}

	sub, err := uc.pendingSubscription(ctx, userID, plan.ID())
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(userID, sub.ID(), plan.ID(), paymentVO.NewMoney(plan.PriceCents(), plan.Currency()))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	session, err := uc.gateway.CreateCheckout(ctx, paymentgateway.CheckoutRequest{
		PaymentID:      p.ID(),
		SubscriptionID: sub.ID(),
		UserID:         userID,
		CustomerEmail:  u.Email().String(),
		PriceID:        plan.StripePriceID(),
		SuccessURL:     uc.urls.Success,
		CancelURL:      uc.urls.Cancel,
		ExpiresAt:      uc.now().Add(checkoutLifetime),
	})
	if err != nil {
		uc.logger.Errorw("failed to create checkout session", "payment_id", p.ID(), "error", err)
		if markErr := p.MarkAsFailed(err.Error()); markErr == nil {
			if updErr := uc.paymentRepo.Update(ctx, p); updErr != nil {
				uc.logger.Warnw("failed to record checkout failure", "payment_id", p.ID(), "error", updErr)
			}
		}
		return nil, err
	}

	p.AttachCheckout(session.ID, session.URL, session.ExpiresAt)
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to store checkout session: %w", err)
	}

	uc.logger.Infow("checkout session created",
		"payment_id", p.ID(),
		"subscription_id", sub.ID(),
		"checkout_session_id", session.ID,
	)
	return &dto.CheckoutResponse{
		PaymentID:      p.ID(),
		SubscriptionID: sub.ID(),
		CheckoutURL:    session.URL,
		ExpiresAt:      p.ExpiredAt(),
	}, nil
}

// pendingSubscription returns the user's unpaid subscription for planID,
// creating one when the latest subscription is for another plan or settled.
func (uc *CheckoutUseCase) pendingSubscription(ctx context.Context, userID, planID string) (*subscription.Subscription, error) {
	latest, err := uc.subscriptionRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if latest != nil && latest.Status() == subscriptionVO.StatusPendingPayment && latest.PlanID() == planID {
		return latest, nil
	}

	sub, err := subscription.NewSubscription(userID, planID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}
