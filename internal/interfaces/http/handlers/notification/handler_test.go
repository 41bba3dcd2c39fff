package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/notification/dto"
	"github.com/coachhub/coachhub/internal/infrastructure/realtime"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/constants"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type mockListUC struct {
	got dto.ListNotificationsRequest
}

func (m *mockListUC) Execute(_ context.Context, _ string, req dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error) {
	m.got = req
	return &dto.ListNotificationsResponse{UnreadCount: 3, Page: 1, PageSize: 20}, nil
}

type mockMarkReadUC struct{ err error }

func (m *mockMarkReadUC) Execute(_ context.Context, _, notificationID string) (*dto.NotificationDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.NotificationDTO{ID: notificationID, IsRead: true}, nil
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	uc := &mockListUC{}
	h := NewNotificationHandler(uc, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications", nil)
	testutil.SetQueryParams(c, map[string]string{"unread": "true"})
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.ListNotifications(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.got.UnreadOnly)

	var resp dto.ListNotificationsResponse
	require.NoError(t, testutil.DecodeData(w, &resp))
	assert.EqualValues(t, 3, resp.UnreadCount)
}

func TestNotificationHandler_MarkRead_OtherUsersNotification(t *testing.T) {
	notificationID := id.New()
	h := NewNotificationHandler(nil, &mockMarkReadUC{err: errors.NewNotFoundError("notification not found")}, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications/"+notificationID+"/read", nil)
	testutil.SetURLParam(c, "id", notificationID)
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)
	h.MarkRead(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebSocketHandler_Connect(t *testing.T) {
	hub := realtime.NewHub(logger.NewNopLogger())
	t.Cleanup(hub.Close)
	h := NewWebSocketHandler(hub, nil, logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/ws/notifications", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, "mentee-1")
		c.Next()
	}, h.Connect)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/notifications", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsConnected("mentee-1") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.SendToUser("mentee-1", []byte(`{"type":"notification"}`)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"notification"}`, string(frame))
}

func TestWebSocketHandler_RejectsForeignOrigin(t *testing.T) {
	hub := realtime.NewHub(logger.NewNopLogger())
	t.Cleanup(hub.Close)
	h := NewWebSocketHandler(hub, []string{"https://app.coachhub.io"}, logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/ws/notifications", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, "mentee-1")
		c.Next()
	}, h.Connect)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/notifications", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
