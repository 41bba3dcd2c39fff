package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

func newRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func sessionClaims(sub, azp string, exp time.Time) SessionClaims {
	return SessionClaims{
		SessionID:       "sess_123",
		AuthorizedParty: azp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestClerkVerifier_Verify(t *testing.T) {
	key, pub := newRSAKey(t)
	v, err := NewClerkVerifier(pub, []string{"https://app.coachhub.io"})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token := signRS256(t, key, sessionClaims("user_abc", "https://app.coachhub.io", time.Now().Add(time.Minute)))
		id, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user_abc", id.ClerkUserID)
		assert.Equal(t, "sess_123", id.SessionID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signRS256(t, key, sessionClaims("user_abc", "", time.Now().Add(-time.Minute)))
		_, err := v.Verify(ctx, token)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeTokenExpired, apperrors.GetAppError(err).Type)
	})

	t.Run("foreign origin", func(t *testing.T) {
		token := signRS256(t, key, sessionClaims("user_abc", "https://evil.example", time.Now().Add(time.Minute)))
		_, err := v.Verify(ctx, token)
		assert.True(t, apperrors.IsAuthError(err))
	})

	t.Run("signed by another key", func(t *testing.T) {
		other, _ := newRSAKey(t)
		token := signRS256(t, other, sessionClaims("user_abc", "", time.Now().Add(time.Minute)))
		_, err := v.Verify(ctx, token)
		assert.True(t, apperrors.IsAuthError(err))
	})

	t.Run("hs256 downgrade is rejected", func(t *testing.T) {
		token, err := NewHMACVerifier("secret").Sign("user_abc", "", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.True(t, apperrors.IsAuthError(err))
	})
}

func TestNewClerkVerifier_BadPEM(t *testing.T) {
	_, err := NewClerkVerifier("not a key", nil)
	assert.Error(t, err)
}

func TestHMACVerifier_SignAndVerify(t *testing.T) {
	v := NewHMACVerifier("dev-secret")
	token, err := v.Sign("user_dev", "dev@example.com", time.Minute)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_dev", id.ClerkUserID)
	assert.Equal(t, "dev@example.com", id.Email)

	_, err = NewHMACVerifier("other").Verify(context.Background(), token)
	assert.True(t, apperrors.IsAuthError(err))

	_, err = v.Verify(context.Background(), "garbage")
	assert.True(t, apperrors.IsAuthError(err))
}
