package webhook

import "context"

type Repository interface {
	// Record stores e unless an event with the same source and dedup key
	// exists, in which case the existing event is returned with created false.
	Record(ctx context.Context, e *Event) (existing *Event, created bool, err error)
	Update(ctx context.Context, e *Event) error
}
