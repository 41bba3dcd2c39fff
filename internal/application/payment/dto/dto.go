package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/payment"
)

type CheckoutRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type CheckoutResponse struct {
	PaymentID      string    `json:"payment_id"`
	SubscriptionID string    `json:"subscription_id"`
	CheckoutURL    string    `json:"checkout_url"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type SubmitEvidenceRequest struct {
	Text string `json:"text" binding:"required,max=20000"`
}

type ListDisputesRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type DisputeDTO struct {
	ID                  string     `json:"id"`
	StripeDisputeID     string     `json:"stripe_dispute_id"`
	StripeChargeID      string     `json:"stripe_charge_id"`
	PaymentID           *string    `json:"payment_id,omitempty"`
	AmountCents         int64      `json:"amount_cents"`
	Currency            string     `json:"currency"`
	Reason              string     `json:"reason"`
	Status              string     `json:"status"`
	EvidenceDueBy       *time.Time `json:"evidence_due_by,omitempty"`
	EvidenceText        string     `json:"evidence_text,omitempty"`
	EvidenceFiles       []string   `json:"evidence_files,omitempty"`
	EvidenceSubmittedAt *time.Time `json:"evidence_submitted_at,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type ListDisputesResponse struct {
	Disputes []*DisputeDTO `json:"disputes"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

func ToDisputeDTO(d *payment.Dispute) *DisputeDTO {
	return &DisputeDTO{
		ID:                  d.ID(),
		StripeDisputeID:     d.StripeDisputeID(),
		StripeChargeID:      d.StripeChargeID(),
		PaymentID:           d.PaymentID(),
		AmountCents:         d.Amount().AmountInCents(),
		Currency:            d.Amount().Currency(),
		Reason:              d.Reason(),
		Status:              d.Status().String(),
		EvidenceDueBy:       d.EvidenceDueBy(),
		EvidenceText:        d.EvidenceText(),
		EvidenceFiles:       d.EvidenceFiles(),
		EvidenceSubmittedAt: d.EvidenceSubmittedAt(),
		ClosedAt:            d.ClosedAt(),
		CreatedAt:           d.CreatedAt(),
		UpdatedAt:           d.UpdatedAt(),
	}
}
