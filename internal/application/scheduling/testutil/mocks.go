// Package testutil provides in-memory fakes for the scheduling use cases.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/schedule"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/domain/webhook"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

// versions tracks the last persisted version of each entity so Update can
// reject stale writes like the SQL repositories do.
type versions map[string]int

func (v versions) check(id string, next int) error {
	if stored, ok := v[id]; ok && next <= stored {
		return apperrors.NewConflictError("stale write", id)
	}
	v[id] = next
	return nil
}

// MockIntegrationRepository is an in-memory integration.Repository.
type MockIntegrationRepository struct {
	mu       sync.RWMutex
	items    map[string]*integration.Integration
	versions versions

	UpdateErr error
	Updates   int
}

func NewMockIntegrationRepository(items ...*integration.Integration) *MockIntegrationRepository {
	r := &MockIntegrationRepository{items: map[string]*integration.Integration{}, versions: versions{}}
	for _, i := range items {
		r.items[i.ID()] = i
		r.versions[i.ID()] = i.Version()
	}
	return r
}

func (r *MockIntegrationRepository) Create(_ context.Context, i *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.UserID() == i.UserID() && existing.Provider() == i.Provider() {
			return apperrors.NewConflictError("integration exists")
		}
	}
	r.items[i.ID()] = i
	r.versions[i.ID()] = i.Version()
	return nil
}

func (r *MockIntegrationRepository) Update(_ context.Context, i *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	if err := r.versions.check(i.ID(), i.Version()); err != nil {
		return err
	}
	r.items[i.ID()] = i
	r.Updates++
	return nil
}

func (r *MockIntegrationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MockIntegrationRepository) GetByID(_ context.Context, id string) (*integration.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockIntegrationRepository) GetByUserAndProvider(_ context.Context, userID string, p integration.Provider) (*integration.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.items {
		if i.UserID() == userID && i.Provider() == p {
			return i, nil
		}
	}
	return nil, nil
}

func (r *MockIntegrationRepository) GetByExternalUserID(_ context.Context, p integration.Provider, externalUserID string) (*integration.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.items {
		if i.Provider() == p && i.ExternalUserID() == externalUserID {
			return i, nil
		}
	}
	return nil, nil
}

func (r *MockIntegrationRepository) ListByUser(_ context.Context, userID string) ([]*integration.Integration, error) {
	return r.filter(func(i *integration.Integration) bool { return i.UserID() == userID }), nil
}

func (r *MockIntegrationRepository) ListActive(_ context.Context, p *integration.Provider) ([]*integration.Integration, error) {
	return r.filter(func(i *integration.Integration) bool {
		return i.IsActive() && (p == nil || i.Provider() == *p)
	}), nil
}

func (r *MockIntegrationRepository) ListExpiringBefore(_ context.Context, t time.Time) ([]*integration.Integration, error) {
	return r.filter(func(i *integration.Integration) bool {
		return i.IsActive() && i.AccessExpiresAt().Before(t)
	}), nil
}

func (r *MockIntegrationRepository) filter(keep func(*integration.Integration) bool) []*integration.Integration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*integration.Integration
	for _, i := range r.items {
		if keep(i) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID() < out[b].ID() })
	return out
}

// MockBookingRepository is an in-memory booking.Repository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	items    map[string]*booking.Booking
	versions versions
}

func NewMockBookingRepository(items ...*booking.Booking) *MockBookingRepository {
	r := &MockBookingRepository{items: map[string]*booking.Booking{}, versions: versions{}}
	for _, b := range items {
		r.items[b.ID()] = b
		r.versions[b.ID()] = b.Version()
	}
	return r
}

func (r *MockBookingRepository) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.UID() == b.UID() {
			return apperrors.NewConflictError("booking uid exists", b.UID())
		}
	}
	r.items[b.ID()] = b
	r.versions[b.ID()] = b.Version()
	return nil
}

func (r *MockBookingRepository) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.versions.check(b.ID(), b.Version()); err != nil {
		return err
	}
	r.items[b.ID()] = b
	return nil
}

func (r *MockBookingRepository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockBookingRepository) GetByUID(_ context.Context, uid string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.UID() == uid {
			return b, nil
		}
	}
	return nil, nil
}

func (r *MockBookingRepository) GetByProviderBookingID(_ context.Context, p integration.Provider, providerBookingID string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.Provider() == p && b.ProviderBookingID() == providerBookingID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *MockBookingRepository) List(_ context.Context, f booking.ListFilter) ([]*booking.Booking, int64, error) {
	out := r.all(func(b *booking.Booking) bool {
		if f.CoachID != "" && b.CoachID() != f.CoachID {
			return false
		}
		if f.MenteeID != "" && b.MenteeID() != f.MenteeID {
			return false
		}
		if f.ParticipantID != "" && !b.IsParticipant(f.ParticipantID) {
			return false
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				match = match || b.Status() == s
			}
			if !match {
				return false
			}
		}
		return f.UpcomingAfter == nil || b.StartTime().After(*f.UpcomingAfter)
	})
	return out, int64(len(out)), nil
}

func (r *MockBookingRepository) ListInWindow(_ context.Context, coachID string, p integration.Provider, from, to time.Time) ([]*booking.Booking, error) {
	return r.all(func(b *booking.Booking) bool {
		return b.CoachID() == coachID && b.Provider() == p &&
			!b.StartTime().Before(from) && b.StartTime().Before(to)
	}), nil
}

func (r *MockBookingRepository) ListEndedBefore(_ context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	out := r.all(func(b *booking.Booking) bool {
		return b.Status() == booking.StatusAccepted && b.EndTime().Before(t)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every stored booking ordered by start time.
func (r *MockBookingRepository) All() []*booking.Booking {
	return r.all(func(*booking.Booking) bool { return true })
}

func (r *MockBookingRepository) all(keep func(*booking.Booking) bool) []*booking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartTime().Before(out[b].StartTime()) })
	return out
}

// MockProposalRepository is an in-memory booking.ProposalRepository.
type MockProposalRepository struct {
	mu    sync.RWMutex
	items map[string]*booking.Proposal
	// stored status at last write; Update only succeeds from pending.
	stored map[string]booking.ProposalStatus
}

func NewMockProposalRepository() *MockProposalRepository {
	return &MockProposalRepository{
		items:  map[string]*booking.Proposal{},
		stored: map[string]booking.ProposalStatus{},
	}
}

func (r *MockProposalRepository) Create(_ context.Context, p *booking.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if existing.BookingID() == p.BookingID() && r.stored[id] == booking.ProposalStatusPending {
			return apperrors.NewConflictError("booking already has a pending proposal")
		}
	}
	r.items[p.ID()] = p
	r.stored[p.ID()] = p.Status()
	return nil
}

func (r *MockProposalRepository) Update(_ context.Context, p *booking.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored[p.ID()] != booking.ProposalStatusPending {
		return apperrors.NewConflictError("proposal is no longer pending")
	}
	r.items[p.ID()] = p
	r.stored[p.ID()] = p.Status()
	return nil
}

func (r *MockProposalRepository) GetByID(_ context.Context, id string) (*booking.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockProposalRepository) GetPendingByBooking(_ context.Context, bookingID string) (*booking.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.items {
		if p.BookingID() == bookingID && r.stored[id] == booking.ProposalStatusPending {
			return p, nil
		}
	}
	return nil, nil
}

func (r *MockProposalRepository) ListByBooking(_ context.Context, bookingID string) ([]*booking.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Proposal
	for _, p := range r.items {
		if p.BookingID() == bookingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt().Before(out[b].CreatedAt()) })
	return out, nil
}

func (r *MockProposalRepository) ListExpired(_ context.Context, now time.Time, limit int) ([]*booking.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Proposal
	for id, p := range r.items {
		if r.stored[id] == booking.ProposalStatusPending && !p.ExpiresAt().After(now) {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockSessionRepository is an in-memory session.Repository.
type MockSessionRepository struct {
	mu       sync.RWMutex
	items    map[string]*session.Session
	versions versions
}

func NewMockSessionRepository(items ...*session.Session) *MockSessionRepository {
	r := &MockSessionRepository{items: map[string]*session.Session{}, versions: versions{}}
	for _, s := range items {
		r.items[s.ID()] = s
		r.versions[s.ID()] = s.Version()
	}
	return r
}

func (r *MockSessionRepository) Create(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID()] = s
	r.versions[s.ID()] = s.Version()
	return nil
}

func (r *MockSessionRepository) Update(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.versions.check(s.ID(), s.Version()); err != nil {
		return err
	}
	r.items[s.ID()] = s
	return nil
}

func (r *MockSessionRepository) GetByID(_ context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockSessionRepository) GetByBookingID(_ context.Context, bookingID string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.BookingID() == bookingID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *MockSessionRepository) List(_ context.Context, f session.ListFilter) ([]*session.Session, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*session.Session
	for _, s := range r.items {
		if f.ParticipantID != "" && !s.IsParticipant(f.ParticipantID) {
			continue
		}
		if f.Status != nil && s.Status() != *f.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ScheduledStart().Before(out[b].ScheduledStart()) })
	return out, int64(len(out)), nil
}

func (r *MockSessionRepository) ListEndedBefore(_ context.Context, t time.Time, limit int) ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*session.Session
	for _, s := range r.items {
		active := s.Status() == session.StatusScheduled || s.Status() == session.StatusInProgress
		if active && s.ScheduledEnd().Before(t) {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockScheduleRepository is an in-memory schedule.Repository.
type MockScheduleRepository struct {
	mu    sync.RWMutex
	items map[string]*schedule.Schedule
}

func NewMockScheduleRepository(items ...*schedule.Schedule) *MockScheduleRepository {
	r := &MockScheduleRepository{items: map[string]*schedule.Schedule{}}
	for _, s := range items {
		r.items[s.ID()] = s
	}
	return r
}

func (r *MockScheduleRepository) Create(_ context.Context, s *schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID()] = s
	return nil
}

func (r *MockScheduleRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MockScheduleRepository) GetByID(_ context.Context, id string) (*schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockScheduleRepository) ListByCoach(_ context.Context, coachID string) ([]*schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*schedule.Schedule
	for _, s := range r.items {
		if s.CoachID() == coachID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].IsDefault() != out[b].IsDefault() {
			return out[a].IsDefault()
		}
		return out[a].CreatedAt().Before(out[b].CreatedAt())
	})
	return out, nil
}

func (r *MockScheduleRepository) SetDefault(_ context.Context, coachID, scheduleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.items[scheduleID]
	if !ok || target.CoachID() != coachID {
		return apperrors.NewNotFoundError("schedule not found")
	}
	for id, s := range r.items {
		if s.CoachID() != coachID {
			continue
		}
		isDefault := id == scheduleID
		r.items[id] = schedule.ReconstructSchedule(s.ID(), s.CoachID(), s.CalcomScheduleID(), s.Name(), s.Timezone(), s.Availability(), isDefault, s.CreatedAt(), s.UpdatedAt())
	}
	return nil
}

// MockUserRepository is an in-memory user.Repository.
type MockUserRepository struct {
	mu    sync.RWMutex
	items map[string]*user.User
}

func NewMockUserRepository(users ...*user.User) *MockUserRepository {
	r := &MockUserRepository{items: map[string]*user.User{}}
	for _, u := range users {
		r.items[u.ID()] = u
	}
	return r
}

func (r *MockUserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID()] = u
	return nil
}

func (r *MockUserRepository) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID()] = u
	return nil
}

func (r *MockUserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id], nil
}

func (r *MockUserRepository) GetByIDs(_ context.Context, ids []string) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*user.User
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MockUserRepository) GetByClerkID(_ context.Context, clerkUserID string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.ClerkUserID() == clerkUserID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email() != nil && strings.EqualFold(u.Email().String(), email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *MockUserRepository) List(_ context.Context, _ user.ListFilter) ([]*user.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*user.User
	for _, u := range r.items {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

// MockWebhookRepository is an in-memory webhook.Repository.
type MockWebhookRepository struct {
	mu    sync.Mutex
	items map[string]*webhook.Event
}

func NewMockWebhookRepository() *MockWebhookRepository {
	return &MockWebhookRepository{items: map[string]*webhook.Event{}}
}

func (r *MockWebhookRepository) Record(_ context.Context, e *webhook.Event) (*webhook.Event, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(e.Source()) + "|" + e.DedupKey()
	if existing, ok := r.items[key]; ok {
		return existing, false, nil
	}
	r.items[key] = e
	return e, true, nil
}

func (r *MockWebhookRepository) Update(_ context.Context, e *webhook.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[string(e.Source())+"|"+e.DedupKey()] = e
	return nil
}

// MockRefreshLock is an in-memory refresh debounce lock.
type MockRefreshLock struct {
	mu       sync.Mutex
	held     map[string]bool
	Err      error
	Released int
}

func NewMockRefreshLock() *MockRefreshLock {
	return &MockRefreshLock{held: map[string]bool{}}
}

func (l *MockRefreshLock) TryAcquire(_ context.Context, id string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return false, l.Err
	}
	if l.held[id] {
		return false, nil
	}
	l.held[id] = true
	return true, nil
}

func (l *MockRefreshLock) Release(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
	l.Released++
	return nil
}

// Hold marks id as locked by another instance.
func (l *MockRefreshLock) Hold(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[id] = true
}

// NoopTx runs fn directly.
type NoopTx struct{}

func (NoopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockEventPublisher records published events through testify's mock.
type MockEventPublisher struct {
	mock.Mock
	mu        sync.Mutex
	Published []events.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	p := &MockEventPublisher{}
	p.On("Publish", mock.Anything).Return(nil).Maybe()
	return p
}

func (p *MockEventPublisher) Publish(event events.DomainEvent) error {
	p.mu.Lock()
	p.Published = append(p.Published, event)
	p.mu.Unlock()
	return p.Called(event).Error(0)
}

func (p *MockEventPublisher) PublishAll(evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := p.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

// EventTypes lists the types of published events in order.
func (p *MockEventPublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Published))
	for _, e := range p.Published {
		out = append(out, e.GetEventType())
	}
	return out
}

// MockProviderClient is a testify mock for provider.Client.
type MockProviderClient struct {
	mock.Mock
	Kind integration.Provider
}

var _ provider.Client = (*MockProviderClient)(nil)

func (c *MockProviderClient) Provider() integration.Provider { return c.Kind }

func (c *MockProviderClient) RefreshTokens(ctx context.Context, i *integration.Integration) (integration.Tokens, error) {
	args := c.Called(ctx, i)
	return args.Get(0).(integration.Tokens), args.Error(1)
}

func (c *MockProviderClient) ListBookings(ctx context.Context, accessToken string, i *integration.Integration, window provider.Window) ([]provider.RemoteBooking, error) {
	args := c.Called(ctx, accessToken, i, window)
	out, _ := args.Get(0).([]provider.RemoteBooking)
	return out, args.Error(1)
}

func (c *MockProviderClient) CancelBooking(ctx context.Context, accessToken string, b *booking.Booking, reason string) error {
	return c.Called(ctx, accessToken, b, reason).Error(0)
}

func (c *MockProviderClient) RescheduleBooking(ctx context.Context, accessToken string, b *booking.Booking, start time.Time, reason string) (*provider.RemoteBooking, error) {
	args := c.Called(ctx, accessToken, b, start, reason)
	out, _ := args.Get(0).(*provider.RemoteBooking)
	return out, args.Error(1)
}

// MockCalcomClient adds the Cal.com platform operations.
type MockCalcomClient struct {
	MockProviderClient
}

var _ provider.CalcomClient = (*MockCalcomClient)(nil)

func NewMockCalcomClient() *MockCalcomClient {
	return &MockCalcomClient{MockProviderClient{Kind: integration.ProviderCalcom}}
}

func NewMockCalendlyClient() *MockProviderClient {
	return &MockProviderClient{Kind: integration.ProviderCalendly}
}

func (c *MockCalcomClient) ForceRefresh(ctx context.Context, i *integration.Integration) (integration.Tokens, error) {
	args := c.Called(ctx, i)
	return args.Get(0).(integration.Tokens), args.Error(1)
}

func (c *MockCalcomClient) CreateManagedUser(ctx context.Context, email, name, timeZone string) (*provider.ManagedUser, error) {
	args := c.Called(ctx, email, name, timeZone)
	out, _ := args.Get(0).(*provider.ManagedUser)
	return out, args.Error(1)
}

func (c *MockCalcomClient) CreateBooking(ctx context.Context, accessToken string, req provider.CreateBookingRequest) (*provider.RemoteBooking, error) {
	args := c.Called(ctx, accessToken, req)
	out, _ := args.Get(0).(*provider.RemoteBooking)
	return out, args.Error(1)
}

func (c *MockCalcomClient) CreateSchedule(ctx context.Context, accessToken string, in provider.ScheduleInput) (int64, error) {
	args := c.Called(ctx, accessToken, in)
	return args.Get(0).(int64), args.Error(1)
}

func (c *MockCalcomClient) SetDefaultSchedule(ctx context.Context, accessToken string, scheduleID int64) error {
	return c.Called(ctx, accessToken, scheduleID).Error(0)
}

func (c *MockCalcomClient) DeleteSchedule(ctx context.Context, accessToken string, scheduleID int64) error {
	return c.Called(ctx, accessToken, scheduleID).Error(0)
}

// MockCalendlyClient adds the Calendly OAuth operations.
type MockCalendlyClient struct {
	MockProviderClient
}

var _ provider.CalendlyClient = (*MockCalendlyClient)(nil)

func NewMockCalendlyOAuthClient() *MockCalendlyClient {
	return &MockCalendlyClient{MockProviderClient{Kind: integration.ProviderCalendly}}
}

func (c *MockCalendlyClient) AuthCodeURL(state, codeChallenge string) string {
	return "https://auth.calendly.test/oauth/authorize?state=" + state + "&code_challenge=" + codeChallenge
}

func (c *MockCalendlyClient) Exchange(ctx context.Context, code, codeVerifier string) (*provider.OAuthGrant, error) {
	args := c.Called(ctx, code, codeVerifier)
	out, _ := args.Get(0).(*provider.OAuthGrant)
	return out, args.Error(1)
}

// MockCoachProfileRepository is an in-memory coach.ProfileRepository.
type MockCoachProfileRepository struct {
	mu    sync.RWMutex
	items map[string]*coach.Profile
}

func NewMockCoachProfileRepository(items ...*coach.Profile) *MockCoachProfileRepository {
	r := &MockCoachProfileRepository{items: map[string]*coach.Profile{}}
	for _, p := range items {
		r.items[p.UserID()] = p
	}
	return r
}

func (r *MockCoachProfileRepository) Upsert(_ context.Context, p *coach.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.UserID()] = p
	return nil
}

func (r *MockCoachProfileRepository) GetByUserID(_ context.Context, userID string) (*coach.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[userID], nil
}

func (r *MockCoachProfileRepository) List(_ context.Context, f coach.ListFilter) ([]*coach.Profile, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*coach.Profile, 0, len(r.items))
	for _, p := range r.items {
		if f.OnlyAccepting && !p.AcceptingClients() {
			continue
		}
		if f.Provider != nil && p.Provider() != *f.Provider {
			continue
		}
		if f.Specialty != "" {
			match := false
			for _, s := range p.Specialties() {
				match = match || strings.EqualFold(s, f.Specialty)
			}
			if !match {
				continue
			}
		}
		if f.MinRateCents != nil && p.HourlyRateCents() < *f.MinRateCents {
			continue
		}
		if f.MaxRateCents != nil && p.HourlyRateCents() > *f.MaxRateCents {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID() < out[j].UserID() })
	return out, int64(len(out)), nil
}
