package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrNotParticipant          = errors.New("user is not a participant of this booking")
	ErrBookingNotActive        = errors.New("booking is no longer active")
	ErrBookingStarted          = errors.New("booking has already started")
	ErrProposalPending         = errors.New("booking already has a pending proposal")
	ErrProposalNotPending      = errors.New("proposal is no longer pending")
	ErrProposalExpired         = errors.New("proposal has expired")
	ErrNotCounterparty         = errors.New("only the other participant can respond to a proposal")
	ErrNotProposer             = errors.New("only the proposer can withdraw a proposal")
)

func ErrInvalidTransition(from, to Status) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
