package calcom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CalcomConfig{
		BaseURL:        srv.URL,
		ClientID:       "client-1",
		SecretKey:      "secret-1",
		APIVersion:     "2024-08-13",
		RequestsPerSec: 100,
	}, logger.NewNopLogger())
}

func newIntegration(t *testing.T) *integration.Integration {
	t.Helper()
	i, err := integration.NewIntegration("coach-1", integration.ProviderCalcom, "42", "", integration.Tokens{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		AccessExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return i
}

func TestClient_RefreshTokens(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/oauth/client-1/refresh", r.URL.Path)
		assert.Equal(t, "secret-1", r.Header.Get("x-cal-secret-key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh", body["refreshToken"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"accessToken":          "new-access",
				"refreshToken":         "new-refresh",
				"accessTokenExpiresAt": expires.UnixMilli(),
			},
		})
	})

	tokens, err := c.RefreshTokens(context.Background(), newIntegration(t))
	require.NoError(t, err)
	assert.Equal(t, "new-access", tokens.AccessToken)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
	assert.True(t, expires.Equal(tokens.AccessExpiresAt))
	assert.Nil(t, tokens.RefreshExpiresAt)
}

func TestClient_RefreshTokens_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","error":{"code":"UnauthorizedException","message":"Invalid Refresh Token"}}`)
	})

	_, err := c.RefreshTokens(context.Background(), newIntegration(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrRefreshRejected)
	assert.Equal(t, http.StatusUnauthorized, provider.StatusCode(err))
	assert.False(t, provider.IsTransient(err))
}

func TestClient_RefreshTokens_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.RefreshTokens(context.Background(), newIntegration(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrRefreshRejected)
	assert.True(t, provider.IsTransient(err))
}

func TestClient_ForceRefresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/oauth-clients/client-1/users/42/force-refresh", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"success","data":{"accessToken":"a2","refreshToken":"r2","accessTokenExpiresAt":4102444800000,"refreshTokenExpiresAt":4102444800000}}`)
	})

	tokens, err := c.ForceRefresh(context.Background(), newIntegration(t))
	require.NoError(t, err)
	assert.Equal(t, "a2", tokens.AccessToken)
	require.NotNil(t, tokens.RefreshExpiresAt)
	assert.Equal(t, 2100, tokens.RefreshExpiresAt.Year())
}

func TestClient_CreateManagedUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/oauth-clients/client-1/users", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"success","data":{"user":{"id":77,"email":"coach@example.com"},"accessToken":"a","refreshToken":"r","accessTokenExpiresAt":4102444800000}}`)
	})

	mu, err := c.CreateManagedUser(context.Background(), "coach@example.com", "Coach", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "77", mu.ExternalUserID)
	assert.Equal(t, "a", mu.Tokens.AccessToken)
}

func TestClient_ListBookings_Pages(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v2/bookings", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-08-13", r.Header.Get("cal-api-version"))
		if r.URL.Query().Get("skip") == "0" {
			_, _ = io.WriteString(w, `{"status":"success","data":[{"id":1,"uid":"u1","title":"Intro","status":"accepted","start":"2025-01-02T10:00:00Z","end":"2025-01-02T11:00:00Z","eventTypeId":9,"attendees":[{"name":"Mia","email":"mia@example.com"}]}],"pagination":{"hasNextPage":true}}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success","data":[{"id":2,"uid":"u2","title":"Follow up","status":"cancelled","start":"2025-01-03T10:00:00Z","end":"2025-01-03T11:00:00Z","location":"https://zoom.us/j/1"}],"pagination":{"hasNextPage":false}}`)
	})

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	list, err := c.ListBookings(context.Background(), "access", newIntegration(t), provider.Window{From: from, To: from.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, list, 2)

	assert.Equal(t, "u1", list[0].UID)
	assert.Equal(t, "1", list[0].ProviderBookingID)
	assert.Equal(t, "9", list[0].EventTypeID)
	assert.Equal(t, booking.StatusAccepted, list[0].Status)
	assert.Equal(t, "mia@example.com", list[0].AttendeeEmail)

	assert.Equal(t, booking.StatusCancelled, list[1].Status)
	assert.Equal(t, "https://zoom.us/j/1", list[1].MeetingURL)
}

func TestClient_RescheduleBooking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bookings/old-uid/reschedule", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-02-01T09:00:00Z", body["start"])
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":5,"uid":"new-uid","title":"Intro","status":"accepted","start":"2025-02-01T09:00:00Z","end":"2025-02-01T10:00:00Z"}}`)
	})

	b, err := booking.NewBooking(booking.NewBookingParams{
		UID: "old-uid", Provider: integration.ProviderCalcom, CoachID: "coach-1",
		StartTime: time.Now().Add(time.Hour), EndTime: time.Now().Add(2 * time.Hour), Status: booking.StatusAccepted,
	})
	require.NoError(t, err)

	r, err := c.RescheduleBooking(context.Background(), "access", b, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), "conflict")
	require.NoError(t, err)
	assert.Equal(t, "new-uid", r.UID)
	assert.Equal(t, "old-uid", r.RescheduledFromUID)
}

func TestClient_CreateBooking_BadEventType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.CreateBooking(context.Background(), "access", provider.CreateBookingRequest{EventTypeID: "abc"})
	assert.Error(t, err)
}

func TestClient_Schedules(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, scheduleAPIVersion, r.Header.Get("cal-api-version"))
		switch r.Method {
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"status":"success","data":{"id":321}}`)
		case http.MethodPatch, http.MethodDelete:
			assert.Equal(t, "/v2/schedules/321", r.URL.Path)
			_, _ = io.WriteString(w, `{"status":"success"}`)
		}
	})

	ctx := context.Background()
	id, err := c.CreateSchedule(ctx, "access", provider.ScheduleInput{Name: "Weekdays", TimeZone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, int64(321), id)
	require.NoError(t, c.SetDefaultSchedule(ctx, "access", id))
	require.NoError(t, c.DeleteSchedule(ctx, "access", id))
}

func TestClient_ListBookings_BoundsByStart(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 3, 0)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, from.Format(time.RFC3339), q.Get("afterStart"))
		beforeEnd, err := time.Parse(time.RFC3339, q.Get("beforeEnd"))
		require.NoError(t, err)
		assert.True(t, beforeEnd.After(to))

		_, _ = io.WriteString(w, `{"status":"success","data":[`+
			`{"id":1,"uid":"straddle","status":"accepted","start":"2025-03-31T23:30:00Z","end":"2025-04-01T00:30:00Z"},`+
			`{"id":2,"uid":"later","status":"accepted","start":"2025-04-01T02:00:00Z","end":"2025-04-01T03:00:00Z"}`+
			`],"pagination":{"hasNextPage":false}}`)
	})

	list, err := c.ListBookings(context.Background(), "access", newIntegration(t), provider.Window{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "straddle", list[0].UID)
}
