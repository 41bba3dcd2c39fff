package paymentgateway

import (
	"context"
	"io"
	"time"

	"github.com/coachhub/coachhub/internal/domain/payment"
)

// Gateway is the billing provider as seen by the billing use cases.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and decodes the event.
	ParseWebhook(payload []byte, signature string) (*Event, error)
	// SubmitDisputeEvidence sends the evidence and submits it for review.
	SubmitDisputeEvidence(ctx context.Context, disputeID string, evidence DisputeEvidence) (*payment.DisputeSnapshot, error)
	// UploadEvidenceFile stores a file for dispute evidence and returns its ID.
	UploadEvidenceFile(ctx context.Context, filename string, r io.Reader) (string, error)
	// CloseDispute concedes the dispute.
	CloseDispute(ctx context.Context, disputeID string) (*payment.DisputeSnapshot, error)
}

type CheckoutRequest struct {
	PaymentID      string
	SubscriptionID string
	UserID         string
	CustomerEmail  string
	PriceID        string
	SuccessURL     string
	CancelURL      string
	ExpiresAt      time.Time
}

type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

type DisputeEvidence struct {
	Text   string
	FileID string
}

// EventType names the webhook events billing reacts to.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout.session.completed"
	EventInvoicePaymentFail  EventType = "invoice.payment_failed"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
	EventDisputeCreated      EventType = "charge.dispute.created"
	EventDisputeUpdated      EventType = "charge.dispute.updated"
	EventDisputeClosed       EventType = "charge.dispute.closed"
)

// Event is a verified webhook event. Only the part matching Type is set.
type Event struct {
	ID      string
	Type    EventType
	Payload []byte

	Checkout             *CheckoutCompleted
	StripeSubscriptionID string
	FailureReason        string
	Dispute              *payment.DisputeSnapshot
}

type CheckoutCompleted struct {
	SessionID            string
	PaymentID            string
	PaymentIntentID      string
	StripeCustomerID     string
	StripeSubscriptionID string
	PeriodStart          time.Time
	PeriodEnd            time.Time
}
