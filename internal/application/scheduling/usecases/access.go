package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/errors"
)

// providerAccess resolves a coach's provider client and a valid access token.
type providerAccess struct {
	integrations integration.Repository
	clients      provider.Registry
	tokens       TokenSource
}

func (a providerAccess) forCoach(ctx context.Context, coachID string, p integration.Provider) (provider.Client, string, error) {
	i, err := a.integrations.GetByUserAndProvider(ctx, coachID, p)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load integration: %w", err)
	}
	if i == nil {
		return nil, "", errors.NewConflictError(fmt.Sprintf("coach has no %s connection", p))
	}
	if !i.IsActive() {
		return nil, "", errors.NewReauthRequiredError(p.String())
	}
	client, err := a.clients.Get(p)
	if err != nil {
		return nil, "", err
	}
	token, err := a.tokens.AccessToken(ctx, i)
	if err != nil {
		return nil, "", err
	}
	return client, token, nil
}

// loadParticipantBooking returns the booking when userID takes part in it.
// Admins may act on any booking.
func loadParticipantBooking(ctx context.Context, repo booking.Repository, bookingID, userID string, isAdmin bool) (*booking.Booking, error) {
	b, err := repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return nil, errors.NewNotFoundError("booking not found", bookingID)
	}
	if !isAdmin && !b.IsParticipant(userID) {
		// Outsiders get the same answer as for a missing booking.
		return nil, errors.NewNotFoundError("booking not found", bookingID)
	}
	return b, nil
}

// upstreamError wraps a provider failure for the HTTP layer, passing
// application errors through.
func upstreamError(op string, p integration.Provider, err error) error {
	if errors.GetAppError(err) != nil || errors.IsAuthError(err) {
		return err
	}
	return errors.NewUpstreamError(fmt.Sprintf("failed to %s on %s", op, p), err.Error())
}

// translateBookingError maps booking and proposal rule violations to
// application errors.
func translateBookingError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, booking.ErrNotParticipant):
		return errors.NewNotFoundError("booking not found")
	case stderrors.Is(err, booking.ErrNotCounterparty), stderrors.Is(err, booking.ErrNotProposer):
		return errors.NewForbiddenError(err.Error())
	case stderrors.Is(err, booking.ErrBookingNotActive),
		stderrors.Is(err, booking.ErrBookingStarted),
		stderrors.Is(err, booking.ErrProposalPending),
		stderrors.Is(err, booking.ErrProposalNotPending),
		stderrors.Is(err, booking.ErrProposalExpired),
		stderrors.Is(err, booking.ErrInvalidStatusTransition):
		return errors.NewConflictError(err.Error())
	default:
		return errors.NewValidationError(err.Error())
	}
}

func badPayload(err error) error {
	return errors.NewBadRequestError("malformed webhook payload", err.Error())
}
