package session

import (
	"context"
	"time"
)

type ListFilter struct {
	Page          int
	PageSize      int
	ParticipantID string
	Status        *Status
	SortOrder     string
}

type Repository interface {
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Session, error)
	List(ctx context.Context, filter ListFilter) ([]*Session, int64, error)
	// ListEndedBefore returns scheduled or in-progress sessions whose end is before t.
	ListEndedBefore(ctx context.Context, t time.Time, limit int) ([]*Session, error)
}
