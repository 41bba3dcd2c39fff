package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	redisPing := PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	dbUp := PingFunc(func(context.Context) error { return nil })

	t.Run("healthy", func(t *testing.T) {
		h := NewHandler(map[string]Pinger{"database": dbUp, "redis": redisPing}, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		h.HealthCheck(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"up"`)
	})

	t.Run("database down", func(t *testing.T) {
		dbDown := PingFunc(func(context.Context) error { return errors.New("connection refused") })
		h := NewHandler(map[string]Pinger{"database": dbDown, "redis": redisPing}, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		h.HealthCheck(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"down"`)
	})
}
