package auth

import (
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

// ClerkWebhookVerifier checks the svix signature headers Clerk attaches to
// its webhook deliveries.
type ClerkWebhookVerifier struct {
	wh *svix.Webhook
}

func NewClerkWebhookVerifier(secret string) (*ClerkWebhookVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to init clerk webhook verifier: %w", err)
	}
	return &ClerkWebhookVerifier{wh: wh}, nil
}

func (v *ClerkWebhookVerifier) Verify(payload []byte, headers http.Header) error {
	if err := v.wh.Verify(payload, headers); err != nil {
		return apperrors.NewSignatureInvalidError(err.Error())
	}
	return nil
}
