// Package stripegateway adapts the Stripe API to the billing gateway port.
package stripegateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/domain/payment"
	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/config"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	metadataPaymentID      = "payment_id"
	metadataSubscriptionID = "subscription_id"
	metadataUserID         = "user_id"
)

var _ paymentgateway.Gateway = (*Gateway)(nil)

type Gateway struct {
	api           *client.API
	webhookSecret string
	logger        logger.Interface
}

func NewGateway(cfg config.StripeConfig, log logger.Interface) *Gateway {
	return newGateway(cfg, "", log)
}

// newGateway points both the API and uploads backends at baseURL when set.
func newGateway(cfg config.StripeConfig, baseURL string, log logger.Interface) *Gateway {
	var backends *stripe.Backends
	if baseURL != "" {
		bc := &stripe.BackendConfig{
			URL:               stripe.String(baseURL),
			HTTPClient:        &http.Client{Timeout: 20 * time.Second},
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     leveledLogger{log},
		}
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, bc),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, bc),
		}
	}
	return &Gateway{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		logger:        log,
	}
}

func (g *Gateway) CreateCheckout(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(req.PaymentID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				metadataSubscriptionID: req.SubscriptionID,
				metadataUserID:         req.UserID,
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if !req.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(req.ExpiresAt.Unix())
	}
	params.Context = ctx
	params.AddMetadata(metadataPaymentID, req.PaymentID)
	params.AddMetadata(metadataSubscriptionID, req.SubscriptionID)
	params.AddMetadata(metadataUserID, req.UserID)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Errorw("failed to create checkout session", "payment_id", req.PaymentID, "error", err)
		return nil, translateError("create checkout session", err)
	}
	return &paymentgateway.CheckoutSession{
		ID:        s.ID,
		URL:       s.URL,
		ExpiresAt: time.Unix(s.ExpiresAt, 0).UTC(),
	}, nil
}

func (g *Gateway) SubmitDisputeEvidence(ctx context.Context, disputeID string, evidence paymentgateway.DisputeEvidence) (*payment.DisputeSnapshot, error) {
	params := &stripe.DisputeParams{
		Evidence: &stripe.DisputeEvidenceParams{},
		Submit:   stripe.Bool(true),
	}
	if evidence.Text != "" {
		params.Evidence.UncategorizedText = stripe.String(evidence.Text)
	}
	if evidence.FileID != "" {
		params.Evidence.UncategorizedFile = stripe.String(evidence.FileID)
	}
	params.Context = ctx

	d, err := g.api.Disputes.Update(disputeID, params)
	if err != nil {
		g.logger.Errorw("failed to submit dispute evidence", "dispute_id", disputeID, "error", err)
		return nil, translateError("submit dispute evidence", err)
	}
	snap := disputeSnapshot(d)
	return &snap, nil
}

func (g *Gateway) UploadEvidenceFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	params := &stripe.FileParams{
		FileReader: r,
		Filename:   stripe.String(filename),
		Purpose:    stripe.String(string(stripe.FilePurposeDisputeEvidence)),
	}
	params.Context = ctx

	f, err := g.api.Files.New(params)
	if err != nil {
		g.logger.Errorw("failed to upload evidence file", "filename", filename, "error", err)
		return "", translateError("upload evidence file", err)
	}
	return f.ID, nil
}

func (g *Gateway) CloseDispute(ctx context.Context, disputeID string) (*payment.DisputeSnapshot, error) {
	params := &stripe.DisputeParams{}
	params.Context = ctx

	d, err := g.api.Disputes.Close(disputeID, params)
	if err != nil {
		g.logger.Errorw("failed to close dispute", "dispute_id", disputeID, "error", err)
		return nil, translateError("close dispute", err)
	}
	snap := disputeSnapshot(d)
	return &snap, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the object
// for the event types billing handles. Other types come back with only ID
// and Type set.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*paymentgateway.Event, error) {
	if g.webhookSecret == "" {
		return nil, apperrors.NewSignatureInvalidError("webhook secret not configured")
	}
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, apperrors.NewSignatureInvalidError(err.Error())
	}

	out := &paymentgateway.Event{
		ID:      evt.ID,
		Type:    paymentgateway.EventType(evt.Type),
		Payload: payload,
	}
	if evt.Data == nil {
		return out, nil
	}
	raw := evt.Data.Raw

	switch out.Type {
	case paymentgateway.EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.Checkout = checkoutCompleted(&s)
	case paymentgateway.EventInvoicePaymentFail:
		var inv stripe.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}
		if inv.Subscription != nil {
			out.StripeSubscriptionID = inv.Subscription.ID
		}
		out.FailureReason = fmt.Sprintf("invoice %s payment failed after %d attempts", inv.ID, inv.AttemptCount)
	case paymentgateway.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		out.StripeSubscriptionID = sub.ID
	case paymentgateway.EventDisputeCreated, paymentgateway.EventDisputeUpdated, paymentgateway.EventDisputeClosed:
		var d stripe.Dispute
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("failed to decode dispute: %w", err)
		}
		snap := disputeSnapshot(&d)
		out.Dispute = &snap
	}
	return out, nil
}

func checkoutCompleted(s *stripe.CheckoutSession) *paymentgateway.CheckoutCompleted {
	c := &paymentgateway.CheckoutCompleted{
		SessionID: s.ID,
		PaymentID: s.ClientReferenceID,
	}
	if c.PaymentID == "" {
		c.PaymentID = s.Metadata[metadataPaymentID]
	}
	if s.PaymentIntent != nil {
		c.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		c.StripeCustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		c.StripeSubscriptionID = s.Subscription.ID
		if s.Subscription.CurrentPeriodStart > 0 {
			c.PeriodStart = time.Unix(s.Subscription.CurrentPeriodStart, 0).UTC()
			c.PeriodEnd = time.Unix(s.Subscription.CurrentPeriodEnd, 0).UTC()
		}
	}
	return c
}

func disputeSnapshot(d *stripe.Dispute) payment.DisputeSnapshot {
	s := payment.DisputeSnapshot{
		StripeDisputeID: d.ID,
		Amount:          vo.NewMoney(d.Amount, string(d.Currency)),
		Reason:          string(d.Reason),
		Status:          vo.DisputeStatus(d.Status),
	}
	if d.Charge != nil {
		s.StripeChargeID = d.Charge.ID
	}
	if d.PaymentIntent != nil {
		s.PaymentIntentID = d.PaymentIntent.ID
	}
	if d.EvidenceDetails != nil && d.EvidenceDetails.DueBy > 0 {
		due := time.Unix(d.EvidenceDetails.DueBy, 0).UTC()
		s.EvidenceDueBy = &due
	}
	return s
}
