package coach

import (
	"context"

	"github.com/coachhub/coachhub/internal/domain/integration"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context, filter ListFilter) ([]*Profile, int64, error)
}

// ListFilter drives the public coach directory.
type ListFilter struct {
	Page          int
	PageSize      int
	Specialty     string
	MinRateCents  *int64
	MaxRateCents  *int64
	Provider      *integration.Provider
	OnlyAccepting bool
	SortBy        string
	SortOrder     string
}
