package integration

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// Provider identifies a third-party scheduling provider.
type Provider string

const (
	ProviderCalcom   Provider = "calcom"
	ProviderCalendly Provider = "calendly"
)

func (p Provider) IsValid() bool {
	return p == ProviderCalcom || p == ProviderCalendly
}

func (p Provider) String() string {
	return string(p)
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown provider: %s", s)
	}
	return p, nil
}

type Status string

const (
	StatusActive      Status = "active"
	StatusNeedsReauth Status = "needs_reauth"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusNeedsReauth
}

// Tokens is an OAuth credential pair as returned by a provider.
type Tokens struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt *time.Time
}

func (t Tokens) validate() error {
	if t.AccessToken == "" {
		return fmt.Errorf("access token is required")
	}
	if t.RefreshToken == "" {
		return fmt.Errorf("refresh token is required")
	}
	if t.AccessExpiresAt.IsZero() {
		return fmt.Errorf("access token expiry is required")
	}
	return nil
}

// Integration links a coach to a scheduling provider account. For Cal.com the
// external user is the platform managed user; for Calendly it is the user URI.
type Integration struct {
	id              string
	userID          string
	provider        Provider
	status          Status
	externalUserID  string
	organizationURI string
	tokens          Tokens
	lastRefreshedAt *time.Time
	lastSyncedAt    *time.Time
	lastError       string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewIntegration(userID string, provider Provider, externalUserID, organizationURI string, tokens Tokens) (*Integration, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if externalUserID == "" {
		return nil, fmt.Errorf("external user ID is required")
	}
	if err := tokens.validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Integration{
		id:              id.New(),
		userID:          userID,
		provider:        provider,
		status:          StatusActive,
		externalUserID:  externalUserID,
		organizationURI: organizationURI,
		tokens:          tokens,
		lastRefreshedAt: &now,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructIntegration(
	integrationID string,
	userID string,
	provider Provider,
	status Status,
	externalUserID string,
	organizationURI string,
	tokens Tokens,
	lastRefreshedAt *time.Time,
	lastSyncedAt *time.Time,
	lastError string,
	version int,
	createdAt, updatedAt time.Time,
) (*Integration, error) {
	if integrationID == "" {
		return nil, fmt.Errorf("integration ID is required")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	return &Integration{
		id:              integrationID,
		userID:          userID,
		provider:        provider,
		status:          status,
		externalUserID:  externalUserID,
		organizationURI: organizationURI,
		tokens:          tokens,
		lastRefreshedAt: lastRefreshedAt,
		lastSyncedAt:    lastSyncedAt,
		lastError:       lastError,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (i *Integration) ID() string                  { return i.id }
func (i *Integration) UserID() string              { return i.userID }
func (i *Integration) Provider() Provider          { return i.provider }
func (i *Integration) Status() Status              { return i.status }
func (i *Integration) ExternalUserID() string      { return i.externalUserID }
func (i *Integration) OrganizationURI() string     { return i.organizationURI }
func (i *Integration) Tokens() Tokens              { return i.tokens }
func (i *Integration) AccessToken() string         { return i.tokens.AccessToken }
func (i *Integration) RefreshToken() string        { return i.tokens.RefreshToken }
func (i *Integration) AccessExpiresAt() time.Time  { return i.tokens.AccessExpiresAt }
func (i *Integration) LastRefreshedAt() *time.Time { return i.lastRefreshedAt }
func (i *Integration) LastSyncedAt() *time.Time    { return i.lastSyncedAt }
func (i *Integration) LastError() string           { return i.lastError }
func (i *Integration) Version() int                { return i.version }
func (i *Integration) CreatedAt() time.Time        { return i.createdAt }
func (i *Integration) UpdatedAt() time.Time        { return i.updatedAt }

func (i *Integration) IsActive() bool {
	return i.status == StatusActive
}

// NeedsRefresh reports whether the access token expires within skew of now.
func (i *Integration) NeedsRefresh(now time.Time, skew time.Duration) bool {
	return !now.Add(skew).Before(i.tokens.AccessExpiresAt)
}

// RefreshTokenExpired reports whether the refresh token is known to be expired.
func (i *Integration) RefreshTokenExpired(now time.Time) bool {
	return i.tokens.RefreshExpiresAt != nil && !now.Before(*i.tokens.RefreshExpiresAt)
}

// ApplyTokens stores a freshly issued credential pair and reactivates the integration.
func (i *Integration) ApplyTokens(tokens Tokens) error {
	if err := tokens.validate(); err != nil {
		return err
	}
	now := biztime.NowUTC()
	i.tokens = tokens
	i.status = StatusActive
	i.lastRefreshedAt = &now
	i.lastError = ""
	i.touch(now)
	return nil
}

// Reconnect replaces the external account and tokens after a new OAuth grant.
func (i *Integration) Reconnect(externalUserID, organizationURI string, tokens Tokens) error {
	if externalUserID == "" {
		return fmt.Errorf("external user ID is required")
	}
	if err := i.ApplyTokens(tokens); err != nil {
		return err
	}
	i.externalUserID = externalUserID
	i.organizationURI = organizationURI
	return nil
}

// MarkNeedsReauth parks the integration until the coach reconnects it.
func (i *Integration) MarkNeedsReauth(reason string) {
	i.status = StatusNeedsReauth
	i.lastError = reason
	i.touch(biztime.NowUTC())
}

// RecordFailure keeps the last refresh or sync error without changing status.
func (i *Integration) RecordFailure(reason string) {
	i.lastError = reason
	i.touch(biztime.NowUTC())
}

func (i *Integration) MarkSynced(at time.Time) {
	at = at.UTC()
	i.lastSyncedAt = &at
	i.touch(biztime.NowUTC())
}

func (i *Integration) touch(now time.Time) {
	i.updatedAt = now
	i.version++
}
