package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

type ProposalKind string

const (
	ProposalKindReschedule ProposalKind = "reschedule"
	ProposalKindCancel     ProposalKind = "cancel"
)

func (k ProposalKind) IsValid() bool {
	return k == ProposalKindReschedule || k == ProposalKindCancel
}

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusDeclined  ProposalStatus = "declined"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
	ProposalStatusExpired   ProposalStatus = "expired"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusDeclined,
		ProposalStatusWithdrawn, ProposalStatusExpired:
		return true
	}
	return false
}

const maxReasonLength = 1000

// Proposal is a request by one booking participant to reschedule or cancel,
// awaiting a response from the other.
type Proposal struct {
	id            string
	bookingID     string
	proposedBy    string
	kind          ProposalKind
	proposedStart *time.Time
	proposedEnd   *time.Time
	reason        string
	status        ProposalStatus
	expiresAt     time.Time
	respondedBy   string
	respondedAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewRescheduleProposal creates a pending proposal to move b to [start, end).
// It expires after ttl or at the booking start, whichever is earlier.
func NewRescheduleProposal(b *Booking, proposedBy string, start, end time.Time, reason string, ttl time.Duration) (*Proposal, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("proposed start and end are required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("proposed end must be after proposed start")
	}
	now := biztime.NowUTC()
	if !start.After(now) {
		return nil, fmt.Errorf("proposed start must be in the future")
	}
	if start.Equal(b.StartTime()) && end.Equal(b.EndTime()) {
		return nil, fmt.Errorf("proposed time is the same as the current booking time")
	}
	s, e := start.UTC(), end.UTC()
	return newProposal(b, proposedBy, ProposalKindReschedule, &s, &e, reason, ttl, now)
}

// NewCancelProposal creates a pending proposal to cancel b.
func NewCancelProposal(b *Booking, proposedBy, reason string, ttl time.Duration) (*Proposal, error) {
	return newProposal(b, proposedBy, ProposalKindCancel, nil, nil, reason, ttl, biztime.NowUTC())
}

func newProposal(b *Booking, proposedBy string, kind ProposalKind, start, end *time.Time, reason string, ttl time.Duration, now time.Time) (*Proposal, error) {
	if b == nil {
		return nil, fmt.Errorf("booking is required")
	}
	if !b.IsParticipant(proposedBy) {
		return nil, ErrNotParticipant
	}
	if b.Status() != StatusAccepted && b.Status() != StatusPending {
		return nil, ErrBookingNotActive
	}
	if b.HasStarted(now) {
		return nil, ErrBookingStarted
	}
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > maxReasonLength {
		return nil, fmt.Errorf("reason exceeds maximum length of %d characters", maxReasonLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("proposal ttl must be positive")
	}

	expiresAt := now.Add(ttl)
	if b.StartTime().Before(expiresAt) {
		expiresAt = b.StartTime()
	}

	return &Proposal{
		id:            id.New(),
		bookingID:     b.ID(),
		proposedBy:    proposedBy,
		kind:          kind,
		proposedStart: start,
		proposedEnd:   end,
		reason:        reason,
		status:        ProposalStatusPending,
		expiresAt:     expiresAt,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructProposal rebuilds a proposal from persistence.
func ReconstructProposal(
	proposalID, bookingID, proposedBy string,
	kind ProposalKind,
	proposedStart, proposedEnd *time.Time,
	reason string,
	status ProposalStatus,
	expiresAt time.Time,
	respondedBy string,
	respondedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Proposal, error) {
	if proposalID == "" {
		return nil, fmt.Errorf("proposal ID is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid proposal kind: %s", kind)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid proposal status: %s", status)
	}
	return &Proposal{
		id:            proposalID,
		bookingID:     bookingID,
		proposedBy:    proposedBy,
		kind:          kind,
		proposedStart: proposedStart,
		proposedEnd:   proposedEnd,
		reason:        reason,
		status:        status,
		expiresAt:     expiresAt,
		respondedBy:   respondedBy,
		respondedAt:   respondedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (p *Proposal) ID() string                { return p.id }
func (p *Proposal) BookingID() string         { return p.bookingID }
func (p *Proposal) ProposedBy() string        { return p.proposedBy }
func (p *Proposal) Kind() ProposalKind        { return p.kind }
func (p *Proposal) ProposedStart() *time.Time { return p.proposedStart }
func (p *Proposal) ProposedEnd() *time.Time   { return p.proposedEnd }
func (p *Proposal) Reason() string            { return p.reason }
func (p *Proposal) Status() ProposalStatus    { return p.status }
func (p *Proposal) ExpiresAt() time.Time      { return p.expiresAt }
func (p *Proposal) RespondedBy() string       { return p.respondedBy }
func (p *Proposal) RespondedAt() *time.Time   { return p.respondedAt }
func (p *Proposal) CreatedAt() time.Time      { return p.createdAt }
func (p *Proposal) UpdatedAt() time.Time      { return p.updatedAt }

func (p *Proposal) IsPending() bool {
	return p.status == ProposalStatusPending
}

func (p *Proposal) IsExpired(now time.Time) bool {
	return !now.Before(p.expiresAt)
}

// Accept records the counterparty's acceptance.
func (p *Proposal) Accept(b *Booking, userID string) error {
	if err := p.checkResponder(b, userID); err != nil {
		return err
	}
	p.respond(ProposalStatusAccepted, userID)
	return nil
}

// Decline records the counterparty's refusal.
func (p *Proposal) Decline(b *Booking, userID string) error {
	if err := p.checkResponder(b, userID); err != nil {
		return err
	}
	p.respond(ProposalStatusDeclined, userID)
	return nil
}

// Withdraw lets the proposer take the proposal back.
func (p *Proposal) Withdraw(userID string) error {
	if !p.IsPending() {
		return ErrProposalNotPending
	}
	if userID != p.proposedBy {
		return ErrNotProposer
	}
	p.respond(ProposalStatusWithdrawn, userID)
	return nil
}

// Supersede withdraws the proposal on behalf of the system, for example when
// the booking is cancelled directly.
func (p *Proposal) Supersede() {
	if !p.IsPending() {
		return
	}
	p.respond(ProposalStatusWithdrawn, "")
}

// Expire marks a pending proposal expired once its deadline passed.
func (p *Proposal) Expire(now time.Time) bool {
	if !p.IsPending() || !p.IsExpired(now) {
		return false
	}
	p.status = ProposalStatusExpired
	p.updatedAt = now
	return true
}

func (p *Proposal) checkResponder(b *Booking, userID string) error {
	if !p.IsPending() {
		return ErrProposalNotPending
	}
	if p.IsExpired(biztime.NowUTC()) {
		return ErrProposalExpired
	}
	if b == nil || b.ID() != p.bookingID {
		return fmt.Errorf("booking does not match proposal")
	}
	if userID == p.proposedBy || b.CounterpartyOf(p.proposedBy) != userID {
		return ErrNotCounterparty
	}
	return nil
}

func (p *Proposal) respond(status ProposalStatus, userID string) {
	now := biztime.NowUTC()
	p.status = status
	p.respondedBy = userID
	p.respondedAt = &now
	p.updatedAt = now
}
