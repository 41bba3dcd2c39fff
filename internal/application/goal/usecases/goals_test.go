package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/goal/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/goal"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	vo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type memGoalRepo struct {
	mu    sync.Mutex
	items map[string]*goal.Goal
}

func newMemGoalRepo() *memGoalRepo { return &memGoalRepo{items: map[string]*goal.Goal{}} }

func (r *memGoalRepo) Create(_ context.Context, g *goal.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.ID()] = g
	return nil
}

func (r *memGoalRepo) Update(ctx context.Context, g *goal.Goal) error { return r.Create(ctx, g) }

func (r *memGoalRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memGoalRepo) GetByID(_ context.Context, id string) (*goal.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *memGoalRepo) List(_ context.Context, f goal.ListFilter) ([]*goal.Goal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*goal.Goal
	for _, g := range r.items {
		if (f.MenteeID != "" && g.IsOwnedBy(f.MenteeID)) || (f.CoachID != "" && g.IsCoachedBy(f.CoachID)) {
			if f.Status == nil || g.Status() == *f.Status {
				out = append(out, g)
			}
		}
	}
	return out, int64(len(out)), nil
}

func newGoalUser(t *testing.T, clerkID, email string, role authorization.UserRole) *domainUser.User {
	t.Helper()
	addr, err := vo.NewEmail(email)
	require.NoError(t, err)
	u, err := domainUser.NewUser(clerkID, addr, "Test", "User")
	require.NoError(t, err)
	if role != authorization.RoleMentee {
		require.NoError(t, u.ChangeRole(role))
	}
	return u
}

func TestGoalUseCases_Lifecycle(t *testing.T) {
	mentee := newGoalUser(t, "c_m", "m@example.com", authorization.RoleMentee)
	coach := newGoalUser(t, "c_c", "c@example.com", authorization.RoleCoach)
	other := newGoalUser(t, "c_o", "o@example.com", authorization.RoleMentee)
	uc := NewGoalUseCases(newMemGoalRepo(), testutil.NewMockUserRepository(mentee, coach, other), logger.NewNopLogger())
	ctx := context.Background()

	coachID := coach.ID()
	created, err := uc.Create(ctx, mentee.ID(), dto.CreateGoalRequest{Title: "Run a 10k", CoachID: &coachID})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)

	// The coach sees and can move the goal forward.
	list, err := uc.List(ctx, coach.ID(), "", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	got, err := uc.UpdateProgress(ctx, created.ID, coach.ID(), 100)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	_, err = uc.Update(ctx, created.ID, coach.ID(), dto.UpdateGoalRequest{Title: "Run a marathon"})
	assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.GetAppError(err).Type)

	_, err = uc.Get(ctx, created.ID, other.ID())
	assert.True(t, apperrors.IsNotFoundError(err))

	archived, err := uc.Update(ctx, created.ID, mentee.ID(), dto.UpdateGoalRequest{Title: "Run a 10k", Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, "archived", archived.Status)

	_, err = uc.UpdateProgress(ctx, created.ID, mentee.ID(), 20)
	assert.True(t, apperrors.IsValidationError(err))

	assert.Error(t, uc.Delete(ctx, created.ID, coach.ID()))
	require.NoError(t, uc.Delete(ctx, created.ID, mentee.ID()))
	_, err = uc.Get(ctx, created.ID, mentee.ID())
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGoalUseCases_CoachMustBeCoach(t *testing.T) {
	mentee := newGoalUser(t, "c_m", "m@example.com", authorization.RoleMentee)
	other := newGoalUser(t, "c_o", "o@example.com", authorization.RoleMentee)
	uc := NewGoalUseCases(newMemGoalRepo(), testutil.NewMockUserRepository(mentee, other), logger.NewNopLogger())

	otherID := other.ID()
	_, err := uc.Create(context.Background(), mentee.ID(), dto.CreateGoalRequest{Title: "Read more", CoachID: &otherID})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Create(context.Background(), mentee.ID(), dto.CreateGoalRequest{Title: "  "})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.List(context.Background(), mentee.ID(), "paused", 1, 10)
	assert.True(t, apperrors.IsValidationError(err))
}
