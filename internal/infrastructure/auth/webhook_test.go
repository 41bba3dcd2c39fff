package auth

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

const testWebhookSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signedHeaders(t *testing.T, payload []byte) http.Header {
	t.Helper()
	wh, err := svix.NewWebhook(testWebhookSecret)
	require.NoError(t, err)

	now := time.Now()
	sig, err := wh.Sign("msg_1", now, payload)
	require.NoError(t, err)

	h := http.Header{}
	h.Set("svix-id", "msg_1")
	h.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	h.Set("svix-signature", sig)
	return h
}

func TestClerkWebhookVerifier(t *testing.T) {
	v, err := NewClerkWebhookVerifier(testWebhookSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, v.Verify(payload, signedHeaders(t, payload)))
	})

	t.Run("tampered payload", func(t *testing.T) {
		headers := signedHeaders(t, payload)
		err := v.Verify([]byte(`{"type":"user.deleted"}`), headers)
		require.Error(t, err)
		assert.True(t, apperrors.IsAppError(err))
	})

	t.Run("missing headers", func(t *testing.T) {
		assert.Error(t, v.Verify(payload, http.Header{}))
	})
}
