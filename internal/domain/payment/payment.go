package payment

import (
	"fmt"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// checkoutTTL matches the default Stripe Checkout session lifetime.
const checkoutTTL = 24 * time.Hour

type Payment struct {
	id             string
	userID         string
	subscriptionID string
	planID         string
	amount         vo.Money
	status         vo.PaymentStatus

	stripeCheckoutSessionID string
	stripePaymentIntentID   string
	checkoutURL             string
	failureReason           string

	paidAt    *time.Time
	expiredAt time.Time

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewPayment(userID, subscriptionID, planID string, amount vo.Money) (*Payment, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := biztime.NowUTC()
	return &Payment{
		id:             id.New(),
		userID:         userID,
		subscriptionID: subscriptionID,
		planID:         planID,
		amount:         amount,
		status:         vo.PaymentStatusPending,
		expiredAt:      now.Add(checkoutTTL),
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructPayment(
	paymentID, userID, subscriptionID, planID string,
	amount vo.Money,
	status vo.PaymentStatus,
	stripeCheckoutSessionID, stripePaymentIntentID, checkoutURL, failureReason string,
	paidAt *time.Time,
	expiredAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Payment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}
	return &Payment{
		id:                      paymentID,
		userID:                  userID,
		subscriptionID:          subscriptionID,
		planID:                  planID,
		amount:                  amount,
		status:                  status,
		stripeCheckoutSessionID: stripeCheckoutSessionID,
		stripePaymentIntentID:   stripePaymentIntentID,
		checkoutURL:             checkoutURL,
		failureReason:           failureReason,
		paidAt:                  paidAt,
		expiredAt:               expiredAt,
		version:                 version,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}, nil
}

// AttachCheckout records the Stripe Checkout session created for the payment.
func (p *Payment) AttachCheckout(sessionID, url string, expiresAt time.Time) {
	p.stripeCheckoutSessionID = sessionID
	p.checkoutURL = url
	if !expiresAt.IsZero() {
		p.expiredAt = expiresAt.UTC()
	}
	p.touch()
}

func (p *Payment) MarkAsPaid(paymentIntentID string) error {
	if p.status == vo.PaymentStatusPaid {
		return nil
	}
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot mark payment as paid with status %s", p.status)
	}

	now := biztime.NowUTC()
	p.status = vo.PaymentStatusPaid
	if paymentIntentID != "" {
		p.stripePaymentIntentID = paymentIntentID
	}
	p.paidAt = &now
	p.touch()
	return nil
}

func (p *Payment) MarkAsFailed(reason string) error {
	if p.status.IsFinal() {
		return fmt.Errorf("cannot mark payment as failed with final status %s", p.status)
	}
	p.status = vo.PaymentStatusFailed
	p.failureReason = reason
	p.touch()
	return nil
}

func (p *Payment) MarkAsExpired() error {
	if p.status.IsFinal() {
		return nil
	}
	p.status = vo.PaymentStatusExpired
	p.touch()
	return nil
}

func (p *Payment) IsExpired(now time.Time) bool {
	return now.After(p.expiredAt) && p.status == vo.PaymentStatusPending
}

func (p *Payment) ID() string                      { return p.id }
func (p *Payment) UserID() string                  { return p.userID }
func (p *Payment) SubscriptionID() string          { return p.subscriptionID }
func (p *Payment) PlanID() string                  { return p.planID }
func (p *Payment) Amount() vo.Money                { return p.amount }
func (p *Payment) Status() vo.PaymentStatus        { return p.status }
func (p *Payment) StripeCheckoutSessionID() string { return p.stripeCheckoutSessionID }
func (p *Payment) StripePaymentIntentID() string   { return p.stripePaymentIntentID }
func (p *Payment) CheckoutURL() string             { return p.checkoutURL }
func (p *Payment) FailureReason() string           { return p.failureReason }
func (p *Payment) PaidAt() *time.Time              { return p.paidAt }
func (p *Payment) ExpiredAt() time.Time            { return p.expiredAt }
func (p *Payment) Version() int                    { return p.version }
func (p *Payment) CreatedAt() time.Time            { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time            { return p.updatedAt }

func (p *Payment) touch() {
	p.updatedAt = biztime.NowUTC()
	p.version++
}
