package integration

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, integration *Integration) error
	Update(ctx context.Context, integration *Integration) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Integration, error)
	GetByUserAndProvider(ctx context.Context, userID string, provider Provider) (*Integration, error)
	GetByExternalUserID(ctx context.Context, provider Provider, externalUserID string) (*Integration, error)
	ListByUser(ctx context.Context, userID string) ([]*Integration, error)
	// ListActive returns active integrations, optionally restricted to one provider.
	ListActive(ctx context.Context, provider *Provider) ([]*Integration, error)
	// ListExpiringBefore returns active integrations whose access token expires before t.
	ListExpiringBefore(ctx context.Context, t time.Time) ([]*Integration, error)
}
