// Package testutil provides in-memory billing repositories and a scriptable
// payment gateway for use case tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/domain/payment"
	"github.com/coachhub/coachhub/internal/domain/subscription"
)

type PlanRepository struct {
	mu    sync.Mutex
	items map[string]*subscription.Plan
}

func NewPlanRepository(plans ...*subscription.Plan) *PlanRepository {
	r := &PlanRepository{items: map[string]*subscription.Plan{}}
	for _, p := range plans {
		r.items[p.ID()] = p
	}
	return r
}

func (r *PlanRepository) Create(_ context.Context, p *subscription.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID()] = p
	return nil
}

func (r *PlanRepository) Update(ctx context.Context, p *subscription.Plan) error {
	return r.Create(ctx, p)
}

func (r *PlanRepository) GetByID(_ context.Context, id string) (*subscription.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *PlanRepository) List(_ context.Context, onlyActive bool) ([]*subscription.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Plan
	for _, p := range r.items {
		if onlyActive && !p.IsActive() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents() < out[j].PriceCents() })
	return out, nil
}

type SubscriptionRepository struct {
	mu    sync.Mutex
	items []*subscription.Subscription
}

func NewSubscriptionRepository(subs ...*subscription.Subscription) *SubscriptionRepository {
	return &SubscriptionRepository{items: subs}
}

func (r *SubscriptionRepository) Create(_ context.Context, s *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
	return nil
}

func (r *SubscriptionRepository) Update(_ context.Context, s *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID() == s.ID() {
			r.items[i] = s
			return nil
		}
	}
	return fmt.Errorf("subscription %s not found", s.ID())
}

func (r *SubscriptionRepository) GetByID(_ context.Context, id string) (*subscription.Subscription, error) {
	return r.find(func(s *subscription.Subscription) bool { return s.ID() == id }), nil
}

func (r *SubscriptionRepository) GetByStripeSubscriptionID(_ context.Context, stripeID string) (*subscription.Subscription, error) {
	return r.find(func(s *subscription.Subscription) bool { return s.StripeSubscriptionID() == stripeID }), nil
}

func (r *SubscriptionRepository) GetCurrentByUser(_ context.Context, userID string) (*subscription.Subscription, error) {
	return r.find(func(s *subscription.Subscription) bool { return s.UserID() == userID && s.IsCurrent() }), nil
}

func (r *SubscriptionRepository) GetLatestByUser(_ context.Context, userID string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID() == userID {
			return r.items[i], nil
		}
	}
	return nil, nil
}

func (r *SubscriptionRepository) All() []*subscription.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*subscription.Subscription(nil), r.items...)
}

func (r *SubscriptionRepository) find(keep func(*subscription.Subscription) bool) *subscription.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if keep(s) {
			return s
		}
	}
	return nil
}

type PaymentRepository struct {
	mu    sync.Mutex
	items []*payment.Payment
}

func NewPaymentRepository(payments ...*payment.Payment) *PaymentRepository {
	return &PaymentRepository{items: payments}
}

func (r *PaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, p)
	return nil
}

func (r *PaymentRepository) Update(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID() == p.ID() {
			r.items[i] = p
			return nil
		}
	}
	return fmt.Errorf("payment %s not found", p.ID())
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.ID() == id }), nil
}

func (r *PaymentRepository) GetByCheckoutSessionID(_ context.Context, sessionID string) (*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.StripeCheckoutSessionID() == sessionID }), nil
}

func (r *PaymentRepository) GetByPaymentIntentID(_ context.Context, intentID string) (*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.StripePaymentIntentID() == intentID }), nil
}

func (r *PaymentRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]*payment.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*payment.Payment
	for _, p := range r.items {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *PaymentRepository) All() []*payment.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*payment.Payment(nil), r.items...)
}

func (r *PaymentRepository) find(keep func(*payment.Payment) bool) *payment.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if keep(p) {
			return p
		}
	}
	return nil
}

type DisputeRepository struct {
	mu    sync.Mutex
	items []*payment.Dispute
}

func NewDisputeRepository(disputes ...*payment.Dispute) *DisputeRepository {
	return &DisputeRepository{items: disputes}
}

func (r *DisputeRepository) Create(_ context.Context, d *payment.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
	return nil
}

func (r *DisputeRepository) Update(_ context.Context, d *payment.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID() == d.ID() {
			r.items[i] = d
			return nil
		}
	}
	return fmt.Errorf("dispute %s not found", d.ID())
}

func (r *DisputeRepository) GetByID(_ context.Context, id string) (*payment.Dispute, error) {
	return r.find(func(d *payment.Dispute) bool { return d.ID() == id }), nil
}

func (r *DisputeRepository) GetByStripeID(_ context.Context, stripeID string) (*payment.Dispute, error) {
	return r.find(func(d *payment.Dispute) bool { return d.StripeDisputeID() == stripeID }), nil
}

func (r *DisputeRepository) List(_ context.Context, f payment.DisputeFilter) ([]*payment.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*payment.Dispute
	for _, d := range r.items {
		if f.Status != nil && d.Status() != *f.Status {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *DisputeRepository) All() []*payment.Dispute {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*payment.Dispute(nil), r.items...)
}

func (r *DisputeRepository) find(keep func(*payment.Dispute) bool) *payment.Dispute {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if keep(d) {
			return d
		}
	}
	return nil
}

// Gateway is a paymentgateway.Gateway whose behaviour is set per test.
// Unset funcs fail loudly.
type Gateway struct {
	CreateCheckoutFunc        func(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error)
	ParseWebhookFunc          func(payload []byte, signature string) (*paymentgateway.Event, error)
	SubmitDisputeEvidenceFunc func(ctx context.Context, disputeID string, evidence paymentgateway.DisputeEvidence) (*payment.DisputeSnapshot, error)
	UploadEvidenceFileFunc    func(ctx context.Context, filename string, r io.Reader) (string, error)
	CloseDisputeFunc          func(ctx context.Context, disputeID string) (*payment.DisputeSnapshot, error)
}

var _ paymentgateway.Gateway = (*Gateway)(nil)

func (g *Gateway) CreateCheckout(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error) {
	if g.CreateCheckoutFunc == nil {
		return nil, fmt.Errorf("unexpected CreateCheckout")
	}
	return g.CreateCheckoutFunc(ctx, req)
}

func (g *Gateway) ParseWebhook(payload []byte, signature string) (*paymentgateway.Event, error) {
	if g.ParseWebhookFunc == nil {
		return nil, fmt.Errorf("unexpected ParseWebhook")
	}
	return g.ParseWebhookFunc(payload, signature)
}

func (g *Gateway) SubmitDisputeEvidence(ctx context.Context, disputeID string, evidence paymentgateway.DisputeEvidence) (*payment.DisputeSnapshot, error) {
	if g.SubmitDisputeEvidenceFunc == nil {
		return nil, fmt.Errorf("unexpected SubmitDisputeEvidence")
	}
	return g.SubmitDisputeEvidenceFunc(ctx, disputeID, evidence)
}

func (g *Gateway) UploadEvidenceFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	if g.UploadEvidenceFileFunc == nil {
		return "", fmt.Errorf("unexpected UploadEvidenceFile")
	}
	return g.UploadEvidenceFileFunc(ctx, filename, r)
}

func (g *Gateway) CloseDispute(ctx context.Context, disputeID string) (*payment.DisputeSnapshot, error) {
	if g.CloseDisputeFunc == nil {
		return nil, fmt.Errorf("unexpected CloseDispute")
	}
	return g.CloseDisputeFunc(ctx, disputeID)
}
