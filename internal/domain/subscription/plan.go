package subscription

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// Plan is a purchasable subscription plan backed by a Stripe price.
type Plan struct {
	id                string
	name              string
	description       string
	priceCents        int64
	currency          string
	interval          vo.BillingInterval
	sessionsPerPeriod int
	stripePriceID     string
	isActive          bool
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// PlanInput holds the editable plan fields.
type PlanInput struct {
	Name              string
	Description       string
	PriceCents        int64
	Currency          string
	Interval          vo.BillingInterval
	SessionsPerPeriod int
	StripePriceID     string
}

// NewPlan creates an active plan
func NewPlan(in PlanInput) (*Plan, error) {
	p := &Plan{
		id:       id.New(),
		isActive: true,
		version:  1,
	}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	p.createdAt = now
	p.updatedAt = now
	return p, nil
}

// ReconstructPlan reconstructs a plan from persistence
func ReconstructPlan(
	planID, name, description string,
	priceCents int64,
	currency string,
	interval vo.BillingInterval,
	sessionsPerPeriod int,
	stripePriceID string,
	isActive bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid billing interval: %s", interval)
	}
	return &Plan{
		id:                planID,
		name:              name,
		description:       description,
		priceCents:        priceCents,
		currency:          currency,
		interval:          interval,
		sessionsPerPeriod: sessionsPerPeriod,
		stripePriceID:     stripePriceID,
		isActive:          isActive,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

// ID returns the plan ID
func (p *Plan) ID() string { return p.id }

// Name returns the display name
func (p *Plan) Name() string { return p.name }

func (p *Plan) Description() string { return p.description }

// PriceCents returns the price in the smallest currency unit
func (p *Plan) PriceCents() int64 { return p.priceCents }

func (p *Plan) Currency() string             { return p.currency }
func (p *Plan) Interval() vo.BillingInterval { return p.interval }
func (p *Plan) SessionsPerPeriod() int       { return p.sessionsPerPeriod }
func (p *Plan) StripePriceID() string        { return p.stripePriceID }
func (p *Plan) IsActive() bool               { return p.isActive }
func (p *Plan) Version() int                 { return p.version }
func (p *Plan) CreatedAt() time.Time         { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time         { return p.updatedAt }

// Update replaces the editable fields
func (p *Plan) Update(in PlanInput) error {
	if err := p.apply(in); err != nil {
		return err
	}
	p.touch()
	return nil
}

func (p *Plan) Activate() {
	if p.isActive {
		return
	}
	p.isActive = true
	p.touch()
}

func (p *Plan) Deactivate() {
	if !p.isActive {
		return
	}
	p.isActive = false
	p.touch()
}

func (p *Plan) apply(in PlanInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("plan name exceeds maximum length of 100 characters")
	}
	if in.PriceCents <= 0 {
		return ErrInvalidPrice
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code")
	}
	if !in.Interval.IsValid() {
		return fmt.Errorf("invalid billing interval: %s", in.Interval)
	}
	if in.SessionsPerPeriod < 0 {
		return fmt.Errorf("sessions per period cannot be negative")
	}
	if !strings.HasPrefix(in.StripePriceID, "price_") {
		return fmt.Errorf("stripe price ID must start with price_")
	}

	p.name = name
	p.description = strings.TrimSpace(in.Description)
	p.priceCents = in.PriceCents
	p.currency = currency
	p.interval = in.Interval
	p.sessionsPerPeriod = in.SessionsPerPeriod
	p.stripePriceID = in.StripePriceID
	return nil
}

func (p *Plan) touch() {
	p.updatedAt = biztime.NowUTC()
	p.version++
}
