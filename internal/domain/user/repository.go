package user

import (
	"context"

	"github.com/coachhub/coachhub/internal/shared/authorization"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*User, error)
	GetByClerkID(ctx context.Context, clerkUserID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

// ListFilter drives the admin user listing.
type ListFilter struct {
	Page      int
	PageSize  int
	Role      *authorization.UserRole
	Search    string // matches email or name
	SortBy    string
	SortOrder string
}
