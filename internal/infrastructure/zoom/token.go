// Package zoom issues Zoom Video SDK session tokens.
package zoom

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coachhub/coachhub/internal/shared/config"
)

const (
	RoleParticipant = 0
	RoleHost        = 1

	sdkVersion = 1
	// Zoom rejects tokens valid for less than 30 minutes or more than 48 hours.
	minLifetime = 30 * time.Minute
	maxLifetime = 48 * time.Hour
	maxTopicLen = 200
)

// Claims is the Video SDK JWT payload.
type Claims struct {
	AppKey       string `json:"app_key"`
	Topic        string `json:"tpc"`
	RoleType     int    `json:"role_type"`
	Version      int    `json:"version"`
	UserIdentity string `json:"user_identity,omitempty"`
	SessionKey   string `json:"session_key,omitempty"`
	jwt.RegisteredClaims
}

type TokenRequest struct {
	Topic        string
	Host         bool
	UserIdentity string
	SessionKey   string
	// NotAfter caps the token lifetime, normally the session end.
	NotAfter time.Time
}

type Token struct {
	Token     string
	Topic     string
	RoleType  int
	ExpiresAt time.Time
}

type Signer struct {
	sdkKey    string
	sdkSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewSigner(cfg config.ZoomConfig) (*Signer, error) {
	if cfg.SDKKey == "" || cfg.SDKSecret == "" {
		return nil, fmt.Errorf("zoom sdk key and secret are required")
	}
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Signer{
		sdkKey:    cfg.SDKKey,
		sdkSecret: []byte(cfg.SDKSecret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func (s *Signer) Sign(req TokenRequest) (*Token, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("session topic is required")
	}
	if len(req.Topic) > maxTopicLen {
		return nil, fmt.Errorf("session topic exceeds %d characters", maxTopicLen)
	}

	iat := s.now().Add(-30 * time.Second).Truncate(time.Second)
	exp := iat.Add(s.ttl)
	if !req.NotAfter.IsZero() && req.NotAfter.Before(exp) {
		exp = req.NotAfter
	}
	if exp.Sub(iat) < minLifetime {
		exp = iat.Add(minLifetime)
	}
	if exp.Sub(iat) > maxLifetime {
		exp = iat.Add(maxLifetime)
	}

	role := RoleParticipant
	if req.Host {
		role = RoleHost
	}
	claims := Claims{
		AppKey:       s.sdkKey,
		Topic:        req.Topic,
		RoleType:     role,
		Version:      sdkVersion,
		UserIdentity: req.UserIdentity,
		SessionKey:   req.SessionKey,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sdkSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign video token: %w", err)
	}
	return &Token{
		Token:     signed,
		Topic:     req.Topic,
		RoleType:  role,
		ExpiresAt: exp.Truncate(time.Second).UTC(),
	}, nil
}
