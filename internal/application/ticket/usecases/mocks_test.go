package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/coachhub/coachhub/internal/domain/ticket"
)

// mockTicketRepository keeps tickets in memory. Set a Func field to
// override one method.
type mockTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*ticket.Ticket

	CreateFunc func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc func(ctx context.Context, t *ticket.Ticket) error
	ListFunc   func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
}

func newMockTicketRepository(items ...*ticket.Ticket) *mockTicketRepository {
	m := &mockTicketRepository{tickets: map[string]*ticket.Ticket{}}
	for _, t := range items {
		m.tickets[t.ID()] = t
	}
	return m
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[t.ID()]; !ok {
		return fmt.Errorf("ticket %s not found", t.ID())
	}
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) GetByID(_ context.Context, ticketID string) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets[ticketID], nil
}

func (m *mockTicketRepository) GetByNumber(_ context.Context, number string) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.Number() == number {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Ticket
	for _, t := range m.tickets {
		if filter.CreatorID != nil && t.CreatorID() != *filter.CreatorID {
			continue
		}
		if filter.Status != nil && t.Status() != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type mockCommentRepository struct {
	mu       sync.Mutex
	comments []*ticket.Comment

	CreateFunc func(ctx context.Context, c *ticket.Comment) error
}

func (m *mockCommentRepository) Create(ctx context.Context, c *ticket.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, c)
	return nil
}

func (m *mockCommentRepository) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]*ticket.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Comment
	for _, c := range m.comments {
		if c.TicketID() != ticketID || (c.IsInternal() && !includeInternal) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context) (string, error)
	seq          int
}

func (m *mockNumberGenerator) Generate(ctx context.Context) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	m.seq++
	return fmt.Sprintf("TKT-20260301-%04d", m.seq), nil
}
