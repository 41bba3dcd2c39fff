package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/user"
	uservo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/auth"
	"github.com/coachhub/coachhub/internal/infrastructure/ratelimit"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/constants"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const devSecret = "test-secret-test-secret-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newUser(t *testing.T, clerkID string, role authorization.UserRole) *user.User {
	t.Helper()
	email, err := uservo.NewEmail(clerkID + "@example.com")
	require.NoError(t, err)
	u, err := user.NewUser(clerkID, email, "Test", "User")
	require.NoError(t, err)
	if role != authorization.RoleMentee {
		require.NoError(t, u.ChangeRole(role))
	}
	return u
}

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(constants.ContextKeyUserID),
		"role":    c.GetString(constants.ContextKeyUserRole),
	})
}

func TestRequireAuth(t *testing.T) {
	verifier := auth.NewHMACVerifier(devSecret)
	coach := newUser(t, "user_coach", authorization.RoleCoach)
	users := testutil.NewMockUserRepository(coach)
	identities := auth.NewIdentityCache()
	mw := NewAuthMiddleware(verifier, users, identities, logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/me", mw.RequireAuth(), echoIdentity)

	token, err := verifier.Sign("user_coach", "user_coach@example.com", time.Minute)
	require.NoError(t, err)
	stranger, err := verifier.Sign("user_unknown", "x@example.com", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
	}{
		{"missing token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"session cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
		}, http.StatusOK},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"unknown user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+stranger) }, http.StatusUnauthorized},
		{"query token ignored without upgrade", func(r *http.Request) { r.URL.RawQuery = "token=" + token }, http.StatusUnauthorized},
		{"query token on websocket upgrade", func(r *http.Request) {
			r.URL.RawQuery = "token=" + token
			r.Header.Set("Upgrade", "websocket")
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	cached, ok := identities.Get("user_coach")
	require.True(t, ok)
	assert.Equal(t, coach.ID(), cached.UserID)
	assert.Equal(t, authorization.RoleCoach, cached.Role)
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	verifier := auth.NewHMACVerifier(devSecret)
	gone := newUser(t, "user_gone", authorization.RoleMentee)
	gone.SoftDelete()
	mw := NewAuthMiddleware(verifier, testutil.NewMockUserRepository(gone), auth.NewIdentityCache(), logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/me", mw.RequireAuth(), echoIdentity)

	token, err := verifier.Sign("user_gone", "", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type failingResolver struct{}

func (failingResolver) GetByClerkID(context.Context, string) (*user.User, error) {
	return nil, errors.New("db down")
}

func TestRequireAuthResolverFailure(t *testing.T) {
	verifier := auth.NewHMACVerifier(devSecret)
	mw := NewAuthMiddleware(verifier, failingResolver{}, auth.NewIdentityCache(), logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/me", mw.RequireAuth(), echoIdentity)

	token, err := verifier.Sign("user_x", "", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type checkerFunc func(role, resource, action string) (bool, error)

func (f checkerFunc) Enforce(role, resource, action string) (bool, error) {
	return f(role, resource, action)
}

func TestRequirePermission(t *testing.T) {
	checker := checkerFunc(func(role, resource, action string) (bool, error) {
		switch role {
		case "admin":
			return true, nil
		case "broken":
			return false, errors.New("policy store unavailable")
		}
		return resource == "goal" && action == "read", nil
	})
	mw := NewPermissionMiddleware(checker, logger.NewNopLogger())

	tests := []struct {
		name       string
		userID     string
		role       string
		resource   string
		wantStatus int
	}{
		{"anonymous", "", "", "goal", http.StatusUnauthorized},
		{"mentee allowed", "u1", "mentee", "goal", http.StatusOK},
		{"mentee denied", "u1", "mentee", "dispute", http.StatusForbidden},
		{"admin allowed", "u2", "admin", "dispute", http.StatusOK},
		{"enforcer error", "u3", "broken", "goal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/x", func(c *gin.Context) {
				if tt.userID != "" {
					c.Set(constants.ContextKeyUserID, tt.userID)
					c.Set(constants.ContextKeyUserRole, tt.role)
				}
				c.Next()
			}, mw.RequirePermission(tt.resource, "read"), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(ratelimit.NewRedisRateLimiter(client), logger.NewNopLogger())
	engine := gin.New()
	engine.POST("/bookings", rl.Limit("booking", 2), func(c *gin.Context) { c.Status(http.StatusCreated) })
	engine.POST("/webhooks", rl.Limit("webhook", 5), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, do("/bookings"))
	assert.Equal(t, http.StatusCreated, do("/bookings"))
	assert.Equal(t, http.StatusTooManyRequests, do("/bookings"))
	assert.Equal(t, http.StatusOK, do("/webhooks"), "scopes are counted separately")

	mr.Close()
	assert.Equal(t, http.StatusCreated, do("/bookings"), "fails open when redis is down")
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://app.coachhub.io"}), SecurityHeaders(true))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.coachhub.io")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.coachhub.io", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
