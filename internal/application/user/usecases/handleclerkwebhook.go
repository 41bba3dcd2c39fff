package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coachhub/coachhub/internal/application/webhookinbox"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	vo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	ClerkEventUserCreated = "user.created"
	ClerkEventUserUpdated = "user.updated"
	ClerkEventUserDeleted = "user.deleted"

	clerkDeliveryIDHeader = "svix-id"
)

// WebhookVerifier checks the signature headers of a webhook delivery.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

type clerkEvent struct {
	Type string        `json:"type"`
	Data clerkUserData `json:"data"`
}

type clerkUserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	PrimaryEmailID string `json:"primary_email_address_id"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d clerkUserData) primaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailID {
			return e.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

// HandleClerkWebhookUseCase mirrors Clerk user lifecycle events locally.
type HandleClerkWebhookUseCase struct {
	userRepo   domainUser.Repository
	verifier   WebhookVerifier
	inbox      *webhookinbox.Inbox
	identities IdentityPurger
	logger     logger.Interface
}

func NewHandleClerkWebhookUseCase(
	userRepo domainUser.Repository,
	verifier WebhookVerifier,
	inbox *webhookinbox.Inbox,
	identities IdentityPurger,
	logger logger.Interface,
) *HandleClerkWebhookUseCase {
	return &HandleClerkWebhookUseCase{
		userRepo:   userRepo,
		verifier:   verifier,
		inbox:      inbox,
		identities: identities,
		logger:     logger,
	}
}

func (uc *HandleClerkWebhookUseCase) Execute(ctx context.Context, body []byte, headers http.Header) (duplicate bool, err error) {
	if err := uc.verifier.Verify(body, headers); err != nil {
		uc.logger.Warnw("rejected clerk webhook", "error", err)
		return false, err
	}
	var ev clerkEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Type == "" {
		return false, errors.NewBadRequestError("malformed webhook payload")
	}

	uc.logger.Infow("executing clerk webhook use case", "type", ev.Type, "clerk_user_id", ev.Data.ID)

	res, err := uc.inbox.Process(ctx, webhook.SourceClerk, headers.Get(clerkDeliveryIDHeader), ev.Type, body, func(ctx context.Context) (bool, error) {
		if ev.Data.ID == "" {
			return true, nil
		}
		switch ev.Type {
		case ClerkEventUserCreated, ClerkEventUserUpdated:
			return uc.upsert(ctx, ev.Data)
		case ClerkEventUserDeleted:
			return uc.delete(ctx, ev.Data.ID)
		default:
			return true, nil
		}
	})
	if err != nil {
		return false, err
	}
	return res.Duplicate, nil
}

func (uc *HandleClerkWebhookUseCase) upsert(ctx context.Context, data clerkUserData) (bool, error) {
	email, err := vo.NewEmail(data.primaryEmail())
	if err != nil {
		uc.logger.Warnw("clerk user without usable email", "clerk_user_id", data.ID, "error", err)
		return true, nil
	}

	u, err := uc.userRepo.GetByClerkID(ctx, data.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		u, err = domainUser.NewUser(data.ID, email, data.FirstName, data.LastName)
		if err != nil {
			uc.logger.Warnw("cannot create user from clerk event", "clerk_user_id", data.ID, "error", err)
			return true, nil
		}
		if data.ImageURL != "" {
			avatar := data.ImageURL
			if err := u.UpdateProfile(nil, nil, nil, &avatar); err != nil {
				return false, err
			}
		}
		if err := uc.userRepo.Create(ctx, u); err != nil {
			if errors.IsDuplicateError(err) {
				uc.logger.Warnw("email already belongs to another account", "clerk_user_id", data.ID)
				return true, nil
			}
			return false, fmt.Errorf("failed to create user: %w", err)
		}
		uc.logger.Infow("user created from clerk", "user_id", u.ID(), "clerk_user_id", data.ID)
		return false, nil
	}

	if err := u.SyncFromClerk(email, data.FirstName, data.LastName, data.ImageURL); err != nil {
		uc.logger.Warnw("cannot apply clerk update", "clerk_user_id", data.ID, "error", err)
		return true, nil
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	uc.identities.Purge(data.ID)
	return false, nil
}

func (uc *HandleClerkWebhookUseCase) delete(ctx context.Context, clerkUserID string) (bool, error) {
	u, err := uc.userRepo.GetByClerkID(ctx, clerkUserID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return true, nil
	}
	u.SoftDelete()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	uc.identities.Purge(clerkUserID)
	uc.logger.Infow("user soft-deleted from clerk", "user_id", u.ID())
	return false, nil
}
