package payment

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

const maxEvidenceLength = 20000

// Dispute mirrors a Stripe charge dispute. Stripe remains the source of truth.
type Dispute struct {
	id                  string
	stripeDisputeID     string
	stripeChargeID      string
	paymentIntentID     string
	paymentID           *string
	amount              vo.Money
	reason              string
	status              vo.DisputeStatus
	evidenceDueBy       *time.Time
	evidenceText        string
	evidenceFiles       []string
	evidenceSubmittedAt *time.Time
	closedAt            *time.Time
	version             int
	createdAt           time.Time
	updatedAt           time.Time
}

// DisputeSnapshot is Stripe's current view of a dispute.
type DisputeSnapshot struct {
	StripeDisputeID string
	StripeChargeID  string
	PaymentIntentID string
	Amount          vo.Money
	Reason          string
	Status          vo.DisputeStatus
	EvidenceDueBy   *time.Time
}

func NewDispute(s DisputeSnapshot, paymentID *string) (*Dispute, error) {
	if s.StripeDisputeID == "" {
		return nil, fmt.Errorf("stripe dispute ID is required")
	}
	if !s.Status.IsValid() {
		return nil, fmt.Errorf("invalid dispute status: %s", s.Status)
	}
	now := biztime.NowUTC()
	d := &Dispute{
		id:              id.New(),
		stripeDisputeID: s.StripeDisputeID,
		paymentID:       paymentID,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
	d.apply(s)
	return d, nil
}

func ReconstructDispute(
	disputeID string,
	s DisputeSnapshot,
	paymentID *string,
	evidenceText string,
	evidenceFiles []string,
	evidenceSubmittedAt, closedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Dispute, error) {
	if disputeID == "" {
		return nil, fmt.Errorf("dispute ID is required")
	}
	if evidenceFiles == nil {
		evidenceFiles = []string{}
	}
	return &Dispute{
		id:                  disputeID,
		stripeDisputeID:     s.StripeDisputeID,
		stripeChargeID:      s.StripeChargeID,
		paymentIntentID:     s.PaymentIntentID,
		paymentID:           paymentID,
		amount:              s.Amount,
		reason:              s.Reason,
		status:              s.Status,
		evidenceDueBy:       s.EvidenceDueBy,
		evidenceText:        evidenceText,
		evidenceFiles:       evidenceFiles,
		evidenceSubmittedAt: evidenceSubmittedAt,
		closedAt:            closedAt,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

// Sync applies a webhook snapshot and reports whether the status changed.
func (d *Dispute) Sync(s DisputeSnapshot) (bool, error) {
	if s.StripeDisputeID != d.stripeDisputeID {
		return false, fmt.Errorf("dispute ID mismatch")
	}
	if !s.Status.IsValid() {
		return false, fmt.Errorf("invalid dispute status: %s", s.Status)
	}
	statusChanged := s.Status != d.status
	d.apply(s)
	d.touch()
	return statusChanged, nil
}

// RecordEvidence stores the evidence text sent to Stripe.
func (d *Dispute) RecordEvidence(text string) error {
	if !d.status.AcceptsEvidence() {
		return fmt.Errorf("dispute with status %s does not accept evidence", d.status)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("evidence text is required")
	}
	if len([]rune(text)) > maxEvidenceLength {
		return fmt.Errorf("evidence exceeds maximum length of %d characters", maxEvidenceLength)
	}
	now := biztime.NowUTC()
	d.evidenceText = text
	d.evidenceSubmittedAt = &now
	d.touch()
	return nil
}

// AttachEvidenceFile records a Stripe file uploaded as evidence.
func (d *Dispute) AttachEvidenceFile(stripeFileID string) error {
	if !d.status.AcceptsEvidence() {
		return fmt.Errorf("dispute with status %s does not accept evidence", d.status)
	}
	if stripeFileID == "" {
		return fmt.Errorf("stripe file ID is required")
	}
	d.evidenceFiles = append(d.evidenceFiles, stripeFileID)
	d.touch()
	return nil
}

// CanAccept reports whether the dispute may still be conceded.
func (d *Dispute) CanAccept() bool {
	return !d.status.IsClosed()
}

func (d *Dispute) ID() string                      { return d.id }
func (d *Dispute) StripeDisputeID() string         { return d.stripeDisputeID }
func (d *Dispute) StripeChargeID() string          { return d.stripeChargeID }
func (d *Dispute) PaymentIntentID() string         { return d.paymentIntentID }
func (d *Dispute) PaymentID() *string              { return d.paymentID }
func (d *Dispute) Amount() vo.Money                { return d.amount }
func (d *Dispute) Reason() string                  { return d.reason }
func (d *Dispute) Status() vo.DisputeStatus        { return d.status }
func (d *Dispute) EvidenceDueBy() *time.Time       { return d.evidenceDueBy }
func (d *Dispute) EvidenceText() string            { return d.evidenceText }
func (d *Dispute) EvidenceSubmittedAt() *time.Time { return d.evidenceSubmittedAt }
func (d *Dispute) ClosedAt() *time.Time            { return d.closedAt }
func (d *Dispute) Version() int                    { return d.version }
func (d *Dispute) CreatedAt() time.Time            { return d.createdAt }
func (d *Dispute) UpdatedAt() time.Time            { return d.updatedAt }

func (d *Dispute) EvidenceFiles() []string {
	out := make([]string, len(d.evidenceFiles))
	copy(out, d.evidenceFiles)
	return out
}

func (d *Dispute) apply(s DisputeSnapshot) {
	if s.StripeChargeID != "" {
		d.stripeChargeID = s.StripeChargeID
	}
	if s.PaymentIntentID != "" {
		d.paymentIntentID = s.PaymentIntentID
	}
	if s.Amount.IsPositive() {
		d.amount = s.Amount
	}
	if s.Reason != "" {
		d.reason = s.Reason
	}
	if s.EvidenceDueBy != nil {
		d.evidenceDueBy = s.EvidenceDueBy
	}
	d.status = s.Status
	if s.Status.IsClosed() && d.closedAt == nil {
		now := biztime.NowUTC()
		d.closedAt = &now
	}
}

func (d *Dispute) touch() {
	d.updatedAt = biztime.NowUTC()
	d.version++
}
