package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	"github.com/coachhub/coachhub/internal/application/user/usecases"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type mockGetUserUC struct {
	result *dto.UserResponse
	err    error
}

func (m *mockGetUserUC) Execute(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.result, m.err
}

type mockUpdateProfileUC struct {
	got dto.UpdateProfileRequest
}

func (m *mockUpdateProfileUC) Execute(_ context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	m.got = req
	return &dto.UserResponse{ID: userID}, nil
}

type mockListUsersUC struct{}

func (mockListUsersUC) Execute(_ context.Context, req dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	return &dto.ListUsersResponse{Users: []*dto.UserResponse{{ID: id.New()}}, Total: 41, Page: 1, PageSize: 20}, nil
}

type mockChangeRoleUC struct {
	got usecases.ChangeRoleCommand
	err error
}

func (m *mockChangeRoleUC) Execute(_ context.Context, cmd usecases.ChangeRoleCommand) (*dto.UserResponse, error) {
	m.got = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UserResponse{ID: cmd.UserID, Role: cmd.Role}, nil
}

func TestHandler_GetMe(t *testing.T) {
	h := NewHandler(&mockGetUserUC{result: &dto.UserResponse{ID: "u1", Role: "mentee"}}, nil, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/users/me", nil)
	h.GetMe(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/users/me", nil)
	testutil.SetAuthContext(c, "u1", authorization.RoleMentee)
	h.GetMe(c)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserResponse
	require.NoError(t, testutil.DecodeData(w, &me))
	assert.Equal(t, "u1", me.ID)
}

func TestHandler_UpdateMe(t *testing.T) {
	uc := &mockUpdateProfileUC{}
	h := NewHandler(nil, uc, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/users/me", map[string]string{"timezone": "Asia/Tokyo"})
	testutil.SetAuthContext(c, "u1", authorization.RoleMentee)
	h.UpdateMe(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got.Timezone)
	assert.Equal(t, "Asia/Tokyo", *uc.got.Timezone)
	assert.Nil(t, uc.got.FirstName)

	c, w = testutil.NewTestContext(http.MethodPatch, "/users/me", map[string]string{"avatar_url": "not a url"})
	testutil.SetAuthContext(c, "u1", authorization.RoleMentee)
	h.UpdateMe(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListUsers(t *testing.T) {
	h := NewHandler(nil, nil, mockListUsersUC{}, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/users", nil)
	testutil.SetAuthContext(c, "admin", authorization.RoleAdmin)
	h.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)
	var list testutil.ListData
	require.NoError(t, testutil.DecodeData(w, &list))
	assert.EqualValues(t, 41, list.Total)
	assert.Equal(t, 3, list.TotalPages)
}

func TestHandler_ChangeRole(t *testing.T) {
	target := id.New()

	tests := []struct {
		name       string
		body       any
		ucErr      error
		wantStatus int
	}{
		{"promote to coach", dto.ChangeRoleRequest{Role: "coach"}, nil, http.StatusOK},
		{"unknown role", dto.ChangeRoleRequest{Role: "owner"}, nil, http.StatusBadRequest},
		{"self demotion", dto.ChangeRoleRequest{Role: "mentee"}, errors.NewForbiddenError("admins cannot change their own role"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockChangeRoleUC{err: tt.ucErr}
			h := NewHandler(nil, nil, nil, uc, logger.NewNopLogger())

			c, w := testutil.NewTestContext(http.MethodPatch, "/admin/users/"+target+"/role", tt.body)
			testutil.SetURLParam(c, "id", target)
			testutil.SetAuthContext(c, "admin-1", authorization.RoleAdmin)
			h.ChangeRole(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusBadRequest {
				assert.Equal(t, "admin-1", uc.got.ActorID)
				assert.Equal(t, target, uc.got.UserID)
			}
		})
	}
}
