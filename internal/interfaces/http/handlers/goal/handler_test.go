package goal

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/goal/dto"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type mockGoals struct {
	progress int
	status   string
	err      error
}

func (m *mockGoals) Create(_ context.Context, menteeID string, req dto.CreateGoalRequest) (*dto.GoalDTO, error) {
	return &dto.GoalDTO{ID: id.New(), MenteeID: menteeID, Title: req.Title}, m.err
}

func (m *mockGoals) List(_ context.Context, _, status string, page, pageSize int) (*dto.ListGoalsResponse, error) {
	m.status = status
	return &dto.ListGoalsResponse{Goals: []*dto.GoalDTO{}, Page: 1, PageSize: 20}, m.err
}

func (m *mockGoals) Get(_ context.Context, goalID, _ string) (*dto.GoalDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GoalDTO{ID: goalID}, nil
}

func (m *mockGoals) Update(_ context.Context, goalID, _ string, _ dto.UpdateGoalRequest) (*dto.GoalDTO, error) {
	return &dto.GoalDTO{ID: goalID}, m.err
}

func (m *mockGoals) UpdateProgress(_ context.Context, goalID, _ string, progress int) (*dto.GoalDTO, error) {
	m.progress = progress
	return &dto.GoalDTO{ID: goalID, Progress: progress}, m.err
}

func (m *mockGoals) Delete(_ context.Context, _, _ string) error {
	return m.err
}

func TestHandler_Create(t *testing.T) {
	goals := &mockGoals{}
	h := NewHandler(goals, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/goals", dto.CreateGoalRequest{Title: "Run a marathon"})
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/goals", map[string]string{"description": "no title"})
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateProgress(t *testing.T) {
	goalID := id.New()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		want       int
	}{
		{"zero is allowed", map[string]int{"progress": 0}, http.StatusOK, 0},
		{"seventy", map[string]int{"progress": 70}, http.StatusOK, 70},
		{"over a hundred", map[string]int{"progress": 101}, http.StatusBadRequest, 0},
		{"missing", map[string]int{}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals := &mockGoals{progress: -1}
			h := NewHandler(goals, logger.NewNopLogger())

			c, w := testutil.NewTestContext(http.MethodPatch, "/goals/"+goalID+"/progress", tt.body)
			testutil.SetURLParam(c, "id", goalID)
			testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
			h.UpdateProgress(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.want, goals.progress)
			}
		})
	}
}

func TestHandler_GetOthersGoal(t *testing.T) {
	goalID := id.New()
	h := NewHandler(&mockGoals{err: errors.NewNotFoundError("goal not found")}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/goals/"+goalID, nil)
	testutil.SetURLParam(c, "id", goalID)
	testutil.SetAuthContext(c, "mentee-2", authorization.RoleMentee)
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListFiltersStatus(t *testing.T) {
	goals := &mockGoals{}
	h := NewHandler(goals, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/goals", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "completed"})
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", goals.status)
}
