package payment

import (
	"github.com/coachhub/coachhub/internal/domain/shared/events"
)

const (
	EventTypePaymentSucceeded = "payment.succeeded"
	EventTypeDisputeOpened    = "dispute.opened"
)

type PaymentSucceededEvent struct {
	events.BaseEvent
	UserID         string `json:"user_id"`
	SubscriptionID string `json:"subscription_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
}

func NewPaymentSucceededEvent(p *Payment) PaymentSucceededEvent {
	return PaymentSucceededEvent{
		BaseEvent:      events.NewBaseEvent(p.ID(), EventTypePaymentSucceeded),
		UserID:         p.UserID(),
		SubscriptionID: p.SubscriptionID(),
		AmountCents:    p.Amount().AmountInCents(),
		Currency:       p.Amount().Currency(),
	}
}

type DisputeOpenedEvent struct {
	events.BaseEvent
	StripeDisputeID string `json:"stripe_dispute_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	Reason          string `json:"reason"`
}

func NewDisputeOpenedEvent(d *Dispute) DisputeOpenedEvent {
	return DisputeOpenedEvent{
		BaseEvent:       events.NewBaseEvent(d.ID(), EventTypeDisputeOpened),
		StripeDisputeID: d.StripeDisputeID(),
		AmountCents:     d.Amount().AmountInCents(),
		Currency:        d.Amount().Currency(),
		Reason:          d.Reason(),
	}
}
