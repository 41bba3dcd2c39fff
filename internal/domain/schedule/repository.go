package schedule

import "context"

type Repository interface {
	Create(ctx context.Context, schedule *Schedule) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	ListByCoach(ctx context.Context, coachID string) ([]*Schedule, error)
	// SetDefault flags scheduleID as the coach's default and clears the flag on
	// every other schedule of that coach in a single transaction.
	SetDefault(ctx context.Context, coachID, scheduleID string) error
}
