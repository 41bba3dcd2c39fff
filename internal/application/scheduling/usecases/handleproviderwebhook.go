package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/webhookinbox"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/infrastructure/calcom"
	"github.com/coachhub/coachhub/internal/infrastructure/calendly"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// WebhookResult is returned to the delivering provider.
type WebhookResult struct {
	Duplicate bool `json:"duplicate"`
	Ignored   bool `json:"ignored"`
}

type HandleCalcomWebhookUseCase struct {
	integrationRepo integration.Repository
	inbox           *webhookinbox.Inbox
	reconciler      *Reconciler
	secret          string
	logger          logger.Interface
}

func NewHandleCalcomWebhookUseCase(
	integrationRepo integration.Repository,
	inbox *webhookinbox.Inbox,
	reconciler *Reconciler,
	secret string,
	logger logger.Interface,
) *HandleCalcomWebhookUseCase {
	return &HandleCalcomWebhookUseCase{
		integrationRepo: integrationRepo,
		inbox:           inbox,
		reconciler:      reconciler,
		secret:          secret,
		logger:          logger,
	}
}

func (uc *HandleCalcomWebhookUseCase) Execute(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if err := calcom.VerifySignature(body, signature, uc.secret); err != nil {
		uc.logger.Warnw("rejected calcom webhook", "error", err)
		return nil, err
	}
	ev, err := calcom.ParseWebhook(body)
	if err != nil {
		return nil, badPayload(err)
	}

	uc.logger.Infow("executing calcom webhook use case", "trigger", ev.TriggerEvent, "uid", ev.Booking.UID)

	res, err := uc.inbox.Process(ctx, webhook.SourceCalcom, "", ev.TriggerEvent, body, func(ctx context.Context) (bool, error) {
		switch ev.TriggerEvent {
		case calcom.TriggerBookingCreated, calcom.TriggerBookingRescheduled,
			calcom.TriggerBookingCancelled, calcom.TriggerBookingRejected, calcom.TriggerMeetingEnded:
		default:
			return true, nil
		}
		if ev.Booking.UID == "" || ev.OrganizerID == "" {
			return true, nil
		}
		i, err := uc.integrationRepo.GetByExternalUserID(ctx, integration.ProviderCalcom, ev.OrganizerID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve organizer: %w", err)
		}
		if i == nil {
			uc.logger.Warnw("calcom webhook for unknown organizer", "organizer_id", ev.OrganizerID)
			return true, nil
		}
		outcome, err := uc.reconciler.Apply(ctx, i.UserID(), integration.ProviderCalcom, ev.Booking)
		if err != nil {
			return false, err
		}
		return outcome == OutcomeSkipped, nil
	})
	if err != nil {
		return nil, err
	}
	return &WebhookResult{Duplicate: res.Duplicate, Ignored: res.Ignored}, nil
}

type HandleCalendlyWebhookUseCase struct {
	integrationRepo integration.Repository
	inbox           *webhookinbox.Inbox
	reconciler      *Reconciler
	signingKey      string
	now             func() time.Time
	logger          logger.Interface
}

func NewHandleCalendlyWebhookUseCase(
	integrationRepo integration.Repository,
	inbox *webhookinbox.Inbox,
	reconciler *Reconciler,
	signingKey string,
	logger logger.Interface,
) *HandleCalendlyWebhookUseCase {
	return &HandleCalendlyWebhookUseCase{
		integrationRepo: integrationRepo,
		inbox:           inbox,
		reconciler:      reconciler,
		signingKey:      signingKey,
		now:             biztime.NowUTC,
		logger:          logger,
	}
}

func (uc *HandleCalendlyWebhookUseCase) Execute(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if err := calendly.VerifySignature(body, signature, uc.signingKey, uc.now()); err != nil {
		uc.logger.Warnw("rejected calendly webhook", "error", err)
		return nil, err
	}
	ev, err := calendly.ParseWebhook(body)
	if err != nil {
		return nil, badPayload(err)
	}

	uc.logger.Infow("executing calendly webhook use case", "event", ev.Event, "uid", ev.Booking.UID)

	// Calendly sends no delivery id; one invitee has one delivery per event.
	externalID := ""
	if ev.InviteeURI != "" {
		externalID = ev.Event + ":" + ev.InviteeURI
	}
	res, err := uc.inbox.Process(ctx, webhook.SourceCalendly, externalID, ev.Event, body, func(ctx context.Context) (bool, error) {
		if ev.Event != calendly.EventInviteeCreated && ev.Event != calendly.EventInviteeCanceled {
			return true, nil
		}
		if ev.Booking.UID == "" {
			return true, nil
		}
		for _, owner := range ev.OwnerURIs {
			i, err := uc.integrationRepo.GetByExternalUserID(ctx, integration.ProviderCalendly, owner)
			if err != nil {
				return false, fmt.Errorf("failed to resolve event owner: %w", err)
			}
			if i == nil {
				continue
			}
			outcome, err := uc.reconciler.Apply(ctx, i.UserID(), integration.ProviderCalendly, ev.Booking)
			if err != nil {
				return false, err
			}
			return outcome == OutcomeSkipped, nil
		}
		uc.logger.Warnw("calendly webhook for unknown owner", "owners", ev.OwnerURIs)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &WebhookResult{Duplicate: res.Duplicate, Ignored: res.Ignored}, nil
}
