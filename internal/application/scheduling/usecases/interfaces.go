package usecases

import (
	"context"

	"github.com/coachhub/coachhub/internal/domain/integration"
)

// TokenSource returns a valid provider access token for an integration.
type TokenSource interface {
	AccessToken(ctx context.Context, i *integration.Integration) (string, error)
}
