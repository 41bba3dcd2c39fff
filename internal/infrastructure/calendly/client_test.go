package calendly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
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

const userURI = "https://api.calendly.com/users/USER1"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CalendlyConfig{
		BaseURL:        srv.URL,
		AuthURL:        srv.URL,
		ClientID:       "client-1",
		ClientSecret:   "secret-1",
		RedirectURL:    "http://localhost/callback",
		RequestsPerSec: 100,
	}, logger.NewNopLogger())
}

func newIntegration(t *testing.T) *integration.Integration {
	t.Helper()
	i, err := integration.NewIntegration("coach-1", integration.ProviderCalendly, userURI, "", integration.Tokens{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		AccessExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return i
}

func TestClient_AuthCodeURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	raw := c.AuthCodeURL("state-1", "challenge-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "challenge-1", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "client-1", q.Get("client_id"))
}

func TestClient_Exchange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		assert.Equal(t, "verifier-1", r.PostForm.Get("code_verifier"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    7200,
			"owner":         userURI,
			"organization":  "https://api.calendly.com/organizations/ORG1",
		})
	})

	grant, err := c.Exchange(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", grant.Tokens.AccessToken)
	assert.Equal(t, "refresh-1", grant.Tokens.RefreshToken)
	assert.Equal(t, userURI, grant.UserURI)
	assert.Equal(t, "https://api.calendly.com/organizations/ORG1", grant.OrganizationURI)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), grant.Tokens.AccessExpiresAt, time.Minute)
}

func TestClient_RefreshTokens(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
			"token_type":    "Bearer",
			"expires_in":    7200,
		})
	})

	tokens, err := c.RefreshTokens(context.Background(), newIntegration(t))
	require.NoError(t, err)
	assert.Equal(t, "access-2", tokens.AccessToken)
	assert.Equal(t, "refresh-2", tokens.RefreshToken)
}

func TestClient_RefreshTokens_InvalidGrant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "The refresh token is invalid",
		})
	})

	_, err := c.RefreshTokens(context.Background(), newIntegration(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrInvalidGrant)
	assert.Equal(t, http.StatusBadRequest, provider.StatusCode(err))
	assert.False(t, provider.IsTransient(err))
}

func TestClient_ListBookings(t *testing.T) {
	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	pages := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/scheduled_events":
			assert.Equal(t, userURI, r.URL.Query().Get("user"))
			pages++
			next := ""
			uuid := "EV2"
			status := "canceled"
			if r.URL.Query().Get("page_token") == "" {
				next = "tok-2"
				uuid = "EV1"
				status = "active"
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"collection": []map[string]any{{
					"uri":        "https://api.calendly.com/scheduled_events/" + uuid,
					"name":       "Intro call",
					"status":     status,
					"start_time": start,
					"end_time":   start.Add(30 * time.Minute),
					"event_type": "https://api.calendly.com/event_types/ET1",
					"location":   map[string]any{"join_url": "https://zoom.us/j/1"},
				}},
				"pagination": map[string]any{"next_page_token": next},
			})
		case "/scheduled_events/EV1/invitees", "/scheduled_events/EV2/invitees":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"collection": []map[string]any{{"email": "mentee@example.com", "name": "Mentee"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	got, err := c.ListBookings(context.Background(), "access", newIntegration(t), provider.Window{
		From: start.Add(-time.Hour),
		To:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, pages)

	assert.Equal(t, "EV1", got[0].UID)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/EV1", got[0].ProviderBookingID)
	assert.Equal(t, booking.StatusAccepted, got[0].Status)
	assert.Equal(t, "https://zoom.us/j/1", got[0].MeetingURL)
	assert.Equal(t, "mentee@example.com", got[0].AttendeeEmail)
	assert.Equal(t, booking.StatusCancelled, got[1].Status)
}

func TestClient_CancelBooking(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scheduled_events/EV1/cancellation", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "conflict", body["reason"])
		w.WriteHeader(http.StatusCreated)
	})

	b, err := booking.NewBooking(booking.NewBookingParams{
		UID:       "EV1",
		Provider:  integration.ProviderCalendly,
		CoachID:   "coach-1",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(25 * time.Hour),
		Status:    booking.StatusAccepted,
	})
	require.NoError(t, err)

	require.NoError(t, c.CancelBooking(context.Background(), "access", b, "conflict"))
	assert.True(t, called)
}

func TestClient_RescheduleUnsupported(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	_, err := c.RescheduleBooking(context.Background(), "access", nil, time.Now(), "")
	assert.ErrorIs(t, err, provider.ErrUnsupported)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"title": "Too Many Requests", "message": "slow down"})
	})

	_, err := c.ListBookings(context.Background(), "access", newIntegration(t), provider.Window{
		From: time.Now(),
		To:   time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.True(t, provider.IsTransient(err))
	assert.Equal(t, http.StatusTooManyRequests, provider.StatusCode(err))
}
