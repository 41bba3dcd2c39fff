package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/subscription"
)

type CreatePlanRequest struct {
	Name              string `json:"name" binding:"required,max=100"`
	Description       string `json:"description" binding:"max=1000"`
	PriceCents        int64  `json:"price_cents" binding:"required,gt=0"`
	Currency          string `json:"currency" binding:"omitempty,len=3"`
	Interval          string `json:"interval" binding:"required,oneof=month year"`
	SessionsPerPeriod int    `json:"sessions_per_period" binding:"min=0"`
	StripePriceID     string `json:"stripe_price_id" binding:"required"`
}

// UpdatePlanRequest patches a plan. Nil fields are left unchanged.
type UpdatePlanRequest struct {
	Name              *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description       *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	PriceCents        *int64  `json:"price_cents,omitempty" binding:"omitempty,gt=0"`
	Currency          *string `json:"currency,omitempty" binding:"omitempty,len=3"`
	Interval          *string `json:"interval,omitempty" binding:"omitempty,oneof=month year"`
	SessionsPerPeriod *int    `json:"sessions_per_period,omitempty" binding:"omitempty,min=0"`
	StripePriceID     *string `json:"stripe_price_id,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

type PlanDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	PriceCents        int64     `json:"price_cents"`
	Currency          string    `json:"currency"`
	Interval          string    `json:"interval"`
	SessionsPerPeriod int       `json:"sessions_per_period"`
	StripePriceID     string    `json:"stripe_price_id,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SubscriptionDTO struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	Plan               *PlanDTO   `json:"plan,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CanBookSessions    bool       `json:"can_book_sessions"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToPlanDTO maps p. The Stripe price ID is only exposed to admins.
func ToPlanDTO(p *subscription.Plan, admin bool) *PlanDTO {
	out := &PlanDTO{
		ID:                p.ID(),
		Name:              p.Name(),
		Description:       p.Description(),
		PriceCents:        p.PriceCents(),
		Currency:          p.Currency(),
		Interval:          p.Interval().String(),
		SessionsPerPeriod: p.SessionsPerPeriod(),
		IsActive:          p.IsActive(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
	if admin {
		out.StripePriceID = p.StripePriceID()
	}
	return out
}

func ToSubscriptionDTO(s *subscription.Subscription, plan *subscription.Plan) *SubscriptionDTO {
	out := &SubscriptionDTO{
		ID:                 s.ID(),
		Status:             s.Status().String(),
		CurrentPeriodStart: s.CurrentPeriodStart(),
		CurrentPeriodEnd:   s.CurrentPeriodEnd(),
		CanBookSessions:    s.Status().CanBookSessions(),
		CancelledAt:        s.CancelledAt(),
		CancelReason:       s.CancelReason(),
		CreatedAt:          s.CreatedAt(),
	}
	if plan != nil {
		out.Plan = ToPlanDTO(plan, false)
	}
	return out
}
