package coach

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type mockListCoachesUC struct {
	got dto.ListCoachesRequest
}

func (m *mockListCoachesUC) Execute(_ context.Context, req dto.ListCoachesRequest) (*dto.ListCoachesResponse, error) {
	m.got = req
	return &dto.ListCoachesResponse{Coaches: []*dto.CoachDTO{}, Page: 1, PageSize: 20}, nil
}

type mockGetCoachUC struct {
	err error
}

func (m *mockGetCoachUC) Execute(_ context.Context, coachID string) (*dto.CoachDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CoachDTO{UserID: coachID, BioHTML: "<p>hi</p>"}, nil
}

type mockUpsertUC struct {
	userID string
}

func (m *mockUpsertUC) Execute(_ context.Context, userID string, req dto.UpsertProfileRequest) (*dto.CoachDTO, error) {
	m.userID = userID
	return &dto.CoachDTO{UserID: userID, Headline: req.Headline}, nil
}

func TestHandler_ListCoaches_Filters(t *testing.T) {
	uc := &mockListCoachesUC{}
	h := NewHandler(uc, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/coaches", nil)
	testutil.SetQueryParams(c, map[string]string{"specialty": "leadership", "min_rate": "5000", "provider": "calcom"})
	h.ListCoaches(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leadership", uc.got.Specialty)
	require.NotNil(t, uc.got.MinRateCents)
	assert.EqualValues(t, 5000, *uc.got.MinRateCents)
	assert.Nil(t, uc.got.MaxRateCents)
}

func TestHandler_ListCoaches_BadProvider(t *testing.T) {
	h := NewHandler(&mockListCoachesUC{}, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/coaches", nil)
	testutil.SetQueryParams(c, map[string]string{"provider": "zoom"})
	h.ListCoaches(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetCoach(t *testing.T) {
	coachID := id.New()

	c, w := testutil.NewTestContext(http.MethodGet, "/coaches/"+coachID, nil)
	testutil.SetURLParam(c, "id", coachID)
	NewHandler(nil, &mockGetCoachUC{}, nil, logger.NewNopLogger()).GetCoach(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/coaches/"+coachID, nil)
	testutil.SetURLParam(c, "id", coachID)
	NewHandler(nil, &mockGetCoachUC{err: errors.NewNotFoundError("coach not found")}, nil, logger.NewNopLogger()).GetCoach(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_UpsertMyProfile(t *testing.T) {
	uc := &mockUpsertUC{}
	h := NewHandler(nil, nil, uc, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/coaches/me/profile", dto.UpsertProfileRequest{
		Headline:        "Engineering leadership coach",
		BioMarkdown:     "**Ten years** leading teams",
		HourlyRateCents: 15000,
	})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)
	h.UpsertMyProfile(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "coach-1", uc.userID)

	c, w = testutil.NewTestContext(http.MethodPut, "/coaches/me/profile", map[string]any{"hourly_rate_cents": 100})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)
	h.UpsertMyProfile(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
