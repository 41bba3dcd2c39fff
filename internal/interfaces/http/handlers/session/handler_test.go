package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/application/session/usecases"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type mockGetSessionUC struct {
	isAdmin bool
}

func (m *mockGetSessionUC) Execute(_ context.Context, sessionID, _ string, isAdmin bool) (*dto.SessionDTO, error) {
	m.isAdmin = isAdmin
	return &dto.SessionDTO{ID: sessionID}, nil
}

type mockListSessionsUC struct {
	got usecases.ListSessionsQuery
}

func (m *mockListSessionsUC) Execute(_ context.Context, q usecases.ListSessionsQuery) (*usecases.ListSessionsResult, error) {
	m.got = q
	return &usecases.ListSessionsResult{Sessions: []*dto.SessionDTO{}, Page: 1, PageSize: 20}, nil
}

type mockFeedbackUC struct {
	got usecases.SubmitFeedbackCommand
	err error
}

func (m *mockFeedbackUC) Execute(_ context.Context, cmd usecases.SubmitFeedbackCommand) (*dto.SessionDTO, error) {
	m.got = cmd
	if m.err != nil {
		return nil, m.err
	}
	rating := cmd.Rating
	return &dto.SessionDTO{ID: cmd.SessionID, Rating: &rating}, nil
}

type mockVideoUC struct {
	err error
}

func (m *mockVideoUC) Execute(_ context.Context, _, _ string) (*dto.VideoTokenDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.VideoTokenDTO{}, nil
}

func newTestHandler() *Handler {
	return NewHandler(nil, nil, nil, nil, nil, logger.NewNopLogger())
}

func TestHandler_List(t *testing.T) {
	uc := &mockListSessionsUC{}
	h := newTestHandler()
	h.listUC = uc

	c, w := testutil.NewTestContext(http.MethodGet, "/sessions", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "completed", "order": "asc"})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", uc.got.Status)
	assert.Equal(t, "asc", uc.got.SortOrder)
	assert.False(t, uc.got.IsAdmin)

	c, w = testutil.NewTestContext(http.MethodGet, "/sessions", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "postponed"})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetAsAdmin(t *testing.T) {
	sessionID := id.New()
	uc := &mockGetSessionUC{}
	h := newTestHandler()
	h.getUC = uc

	c, w := testutil.NewTestContext(http.MethodGet, "/sessions/"+sessionID, nil)
	testutil.SetURLParam(c, "id", sessionID)
	testutil.SetAuthContext(c, "admin-1", authorization.RoleAdmin)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.isAdmin)
}

func TestHandler_SubmitFeedback(t *testing.T) {
	sessionID := id.New()

	tests := []struct {
		name       string
		body       any
		ucErr      error
		wantStatus int
	}{
		{"valid", dto.SubmitFeedbackRequest{Rating: 5, Feedback: "Great"}, nil, http.StatusOK},
		{"rating out of range", dto.SubmitFeedbackRequest{Rating: 6}, nil, http.StatusBadRequest},
		{"missing rating", map[string]string{"feedback": "ok"}, nil, http.StatusBadRequest},
		{"already rated", dto.SubmitFeedbackRequest{Rating: 4}, errors.NewConflictError("feedback already submitted"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockFeedbackUC{err: tt.ucErr}
			h := newTestHandler()
			h.feedbackUC = uc

			c, w := testutil.NewTestContext(http.MethodPost, "/sessions/"+sessionID+"/feedback", tt.body)
			testutil.SetURLParam(c, "id", sessionID)
			testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
			h.SubmitFeedback(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_IssueVideoToken_TooEarly(t *testing.T) {
	sessionID := id.New()
	h := newTestHandler()
	h.videoUC = &mockVideoUC{err: errors.NewValidationError("the session room opens 10m0s before the start")}

	c, w := testutil.NewTestContext(http.MethodPost, "/sessions/"+sessionID+"/video-token", nil)
	testutil.SetURLParam(c, "id", sessionID)
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.IssueVideoToken(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
