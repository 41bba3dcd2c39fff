package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	vo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/richtext"
)

func newListingCache(t *testing.T) *cache.CoachListingCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCoachListingCache(client, time.Minute)
}

func newCoachUser(t *testing.T, clerkID, email string, role authorization.UserRole) *domainUser.User {
	t.Helper()
	addr, err := vo.NewEmail(email)
	require.NoError(t, err)
	u, err := domainUser.NewUser(clerkID, addr, "Sam", "Rivera")
	require.NoError(t, err)
	if role != authorization.RoleMentee {
		require.NoError(t, u.ChangeRole(role))
	}
	return u
}

func calcomProfile() dto.UpsertProfileRequest {
	eventType := int64(12)
	return dto.UpsertProfileRequest{
		Headline:          "Leadership coach",
		BioMarkdown:       "I help **new managers**.<script>alert(1)</script>",
		Specialties:       []string{"  leadership ", "Career growth", "LEADERSHIP"},
		HourlyRateCents:   12000,
		YearsExperience:   8,
		AcceptingClients:  true,
		Provider:          "calcom",
		CalcomEventTypeID: &eventType,
	}
}

func TestUpsertProfileUseCase(t *testing.T) {
	c := newCoachUser(t, "clerk_c", "coach@example.com", authorization.RoleCoach)
	m := newCoachUser(t, "clerk_m", "mentee@example.com", authorization.RoleMentee)
	users := testutil.NewMockUserRepository(c, m)
	profiles := testutil.NewMockCoachProfileRepository()
	uc := NewUpsertProfileUseCase(users, profiles, richtext.NewRenderer(), newListingCache(t), logger.NewNopLogger())

	got, err := uc.Execute(context.Background(), c.ID(), calcomProfile())
	require.NoError(t, err)
	assert.Equal(t, []string{"Career Growth", "Leadership"}, got.Specialties)
	assert.Contains(t, got.BioHTML, "<strong>new managers</strong>")
	assert.NotContains(t, got.BioHTML, "<script>")
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.Bookable)

	_, err = uc.Execute(context.Background(), m.ID(), calcomProfile())
	assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.GetAppError(err).Type)

	bad := calcomProfile()
	bad.CalcomEventTypeID = nil
	_, err = uc.Execute(context.Background(), c.ID(), bad)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestListCoachesUseCase_CachesUntilProfileChanges(t *testing.T) {
	c := newCoachUser(t, "clerk_c", "coach@example.com", authorization.RoleCoach)
	users := testutil.NewMockUserRepository(c)
	profiles := testutil.NewMockCoachProfileRepository()
	listing := newListingCache(t)

	upsert := NewUpsertProfileUseCase(users, profiles, richtext.NewRenderer(), listing, logger.NewNopLogger())
	list := NewListCoachesUseCase(users, profiles, listing, logger.NewNopLogger())
	ctx := context.Background()

	_, err := upsert.Execute(ctx, c.ID(), calcomProfile())
	require.NoError(t, err)

	resp, err := list.Execute(ctx, dto.ListCoachesRequest{Specialty: "leadership"})
	require.NoError(t, err)
	require.Len(t, resp.Coaches, 1)
	assert.Equal(t, "Sam Rivera", resp.Coaches[0].DisplayName)

	// A write behind the use case is invisible until the cache is invalidated.
	p, _ := profiles.GetByUserID(ctx, c.ID())
	req := calcomProfile()
	req.Headline = "Executive coach"
	require.NoError(t, p.Update(coach.ProfileInput{
		Headline:          req.Headline,
		AcceptingClients:  true,
		Specialties:       req.Specialties,
		Provider:          integration.ProviderCalcom,
		CalcomEventTypeID: req.CalcomEventTypeID,
	}))
	cached, err := list.Execute(ctx, dto.ListCoachesRequest{Specialty: "leadership"})
	require.NoError(t, err)
	assert.Equal(t, "Leadership coach", cached.Coaches[0].Headline)

	_, err = upsert.Execute(ctx, c.ID(), req)
	require.NoError(t, err)
	fresh, err := list.Execute(ctx, dto.ListCoachesRequest{Specialty: "leadership"})
	require.NoError(t, err)
	assert.Equal(t, "Executive coach", fresh.Coaches[0].Headline)
}

func TestListCoachesUseCase_Validation(t *testing.T) {
	list := NewListCoachesUseCase(testutil.NewMockUserRepository(), testutil.NewMockCoachProfileRepository(), newListingCache(t), logger.NewNopLogger())
	lo, hi := int64(500), int64(100)
	_, err := list.Execute(context.Background(), dto.ListCoachesRequest{MinRateCents: &lo, MaxRateCents: &hi})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetCoachUseCase(t *testing.T) {
	c := newCoachUser(t, "clerk_c", "coach@example.com", authorization.RoleCoach)
	m := newCoachUser(t, "clerk_m", "mentee@example.com", authorization.RoleMentee)
	users := testutil.NewMockUserRepository(c, m)
	profiles := testutil.NewMockCoachProfileRepository()
	_, err := NewUpsertProfileUseCase(users, profiles, richtext.NewRenderer(), newListingCache(t), logger.NewNopLogger()).
		Execute(context.Background(), c.ID(), calcomProfile())
	require.NoError(t, err)

	uc := NewGetCoachUseCase(users, profiles, logger.NewNopLogger())
	got, err := uc.Execute(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.UserID)

	_, err = uc.Execute(context.Background(), m.ID())
	assert.True(t, apperrors.IsNotFoundError(err))
}
