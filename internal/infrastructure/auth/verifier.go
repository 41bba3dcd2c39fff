package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

// Identity is what a verified session token says about its bearer.
type Identity struct {
	ClerkUserID string
	SessionID   string
	Email       string
}

// Verifier checks a session token and returns the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// SessionClaims mirrors the claims Clerk puts into session tokens.
type SessionClaims struct {
	SessionID       string `json:"sid"`
	AuthorizedParty string `json:"azp,omitempty"`
	Email           string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

const clockLeeway = 5 * time.Second

// ClerkVerifier verifies RS256 session tokens against the instance's PEM
// public key without calling Clerk.
type ClerkVerifier struct {
	key               *rsa.PublicKey
	authorizedParties []string
}

func NewClerkVerifier(pemPublicKey string, authorizedParties []string) (*ClerkVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemPublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse clerk public key: %w", err)
	}
	return &ClerkVerifier{key: key, authorizedParties: authorizedParties}, nil
}

func (v *ClerkVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithLeeway(clockLeeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, translateJWTError(err)
	}
	return v.identity(claims)
}

func (v *ClerkVerifier) identity(claims *SessionClaims) (*Identity, error) {
	if claims.Subject == "" {
		return nil, apperrors.NewTokenInvalidError("missing subject")
	}
	if claims.AuthorizedParty != "" && len(v.authorizedParties) > 0 &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		return nil, apperrors.NewTokenInvalidError("unauthorized party")
	}
	return &Identity{
		ClerkUserID: claims.Subject,
		SessionID:   claims.SessionID,
		Email:       claims.Email,
	}, nil
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. It stands in
// for Clerk in local development and tests.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(clockLeeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, translateJWTError(err)
	}
	if claims.Subject == "" {
		return nil, apperrors.NewTokenInvalidError("missing subject")
	}
	return &Identity{ClerkUserID: claims.Subject, SessionID: claims.SessionID, Email: claims.Email}, nil
}

// Sign issues a development session token for clerkUserID.
func (v *HMACVerifier) Sign(clerkUserID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: "sess_dev",
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clerkUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.NewTokenExpiredError()
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.NewSignatureInvalidError()
	default:
		return apperrors.NewTokenInvalidError(err.Error())
	}
}
