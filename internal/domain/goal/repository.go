package goal

import "context"

type ListFilter struct {
	Page     int
	PageSize int
	MenteeID string
	CoachID  string
	Status   *Status
}

type Repository interface {
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Goal, error)
	// List returns goals where the mentee or the coach matches; empty fields
	// are ignored and at least one must be set.
	List(ctx context.Context, filter ListFilter) ([]*Goal, int64, error)
}
