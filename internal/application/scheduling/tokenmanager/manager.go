// Package tokenmanager keeps provider access tokens valid.
package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/config"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// RefreshLock debounces refreshes of one integration across instances.
type RefreshLock interface {
	TryAcquire(ctx context.Context, integrationID string, window time.Duration) (bool, error)
	Release(ctx context.Context, integrationID string) error
}

// Manager hands out valid access tokens. Refreshes are collapsed per
// integration in-process, debounced across instances, retried on transient
// failures and guarded by a breaker per provider.
type Manager struct {
	repo     integration.Repository
	clients  map[integration.Provider]provider.Client
	lock     RefreshLock
	cfg      config.TokenRefreshConfig
	group    singleflight.Group
	breakers map[integration.Provider]*gobreaker.CircuitBreaker[integration.Tokens]
	logger   logger.Interface

	now          func() time.Time
	pollInterval time.Duration
}

func NewManager(
	repo integration.Repository,
	clients []provider.Client,
	lock RefreshLock,
	cfg config.TokenRefreshConfig,
	log logger.Interface,
) *Manager {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = 30 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.RetryCap < cfg.RetryBase {
		cfg.RetryCap = cfg.RetryBase
	}
	m := &Manager{
		repo:         repo,
		clients:      make(map[integration.Provider]provider.Client, len(clients)),
		lock:         lock,
		cfg:          cfg,
		breakers:     make(map[integration.Provider]*gobreaker.CircuitBreaker[integration.Tokens], len(clients)),
		logger:       log,
		now:          biztime.NowUTC,
		pollInterval: 200 * time.Millisecond,
	}
	for _, c := range clients {
		m.clients[c.Provider()] = c
		m.breakers[c.Provider()] = m.newBreaker(c.Provider())
	}
	return m
}

func (m *Manager) newBreaker(p integration.Provider) *gobreaker.CircuitBreaker[integration.Tokens] {
	failures := m.cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker[integration.Tokens](gobreaker.Settings{
		Name:        "token-refresh-" + p.String(),
		MaxRequests: 1,
		Timeout:     m.cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Rejected grants are answers, not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || !provider.IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.logger.Warnw("token refresh breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// AccessToken returns a usable access token for i, refreshing it first when
// it expires within the configured skew.
func (m *Manager) AccessToken(ctx context.Context, i *integration.Integration) (string, error) {
	if !i.IsActive() {
		return "", apperrors.NewReauthRequiredError(i.Provider().String())
	}
	if !i.NeedsRefresh(m.now(), m.cfg.Skew) {
		return i.AccessToken(), nil
	}
	fresh, err := m.refreshShared(ctx, i.ID(), false)
	if err != nil {
		return "", err
	}
	return fresh.AccessToken(), nil
}

// Refresh refreshes the integration even when its token is still valid.
func (m *Manager) Refresh(ctx context.Context, integrationID string) (*integration.Integration, error) {
	return m.refreshShared(ctx, integrationID, true)
}

func (m *Manager) refreshShared(ctx context.Context, integrationID string, force bool) (*integration.Integration, error) {
	key := integrationID
	if force {
		key += ":force"
	}
	v, err, shared := m.group.Do(key, func() (any, error) {
		return m.refresh(ctx, integrationID, force)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.logger.Debugw("joined in-flight token refresh", "integration_id", integrationID)
	}
	return v.(*integration.Integration), nil
}

func (m *Manager) refresh(ctx context.Context, integrationID string, force bool) (*integration.Integration, error) {
	current, err := m.load(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	if !force && !current.NeedsRefresh(m.now(), m.cfg.Skew) {
		return current, nil
	}

	acquired, err := m.lock.TryAcquire(ctx, integrationID, m.cfg.DebounceWindow)
	if err != nil {
		// Redis trouble must not block token use; refresh without the lock.
		m.logger.Warnw("refresh lock unavailable", "integration_id", integrationID, "error", err)
		acquired = true
	}
	if !acquired {
		return m.awaitRemoteRefresh(ctx, integrationID)
	}

	client, ok := m.clients[current.Provider()]
	if !ok {
		m.releaseLock(ctx, integrationID)
		return nil, fmt.Errorf("no client registered for provider %s", current.Provider())
	}

	m.logger.Infow("refreshing provider tokens",
		"integration_id", integrationID,
		"provider", current.Provider(),
		"expires_at", current.AccessExpiresAt(),
	)

	tokens, err := m.call(ctx, current.Provider(), func() (integration.Tokens, error) {
		return client.RefreshTokens(ctx, current)
	})
	if err != nil && errors.Is(err, provider.ErrRefreshRejected) {
		if fr, ok := client.(provider.ForceRefresher); ok {
			m.logger.Warnw("refresh token rejected, forcing refresh", "integration_id", integrationID)
			tokens, err = m.call(ctx, current.Provider(), func() (integration.Tokens, error) {
				return fr.ForceRefresh(ctx, current)
			})
		}
	}
	if err != nil {
		m.releaseLock(ctx, integrationID)
		return nil, m.recordFailure(ctx, current, err)
	}

	if err := current.ApplyTokens(tokens); err != nil {
		m.releaseLock(ctx, integrationID)
		return nil, fmt.Errorf("provider returned unusable tokens: %w", err)
	}
	if err := m.repo.Update(ctx, current); err != nil {
		m.releaseLock(ctx, integrationID)
		m.logger.Errorw("failed to persist refreshed tokens", "integration_id", integrationID, "error", err)
		return nil, fmt.Errorf("failed to save refreshed tokens: %w", err)
	}

	m.logger.Infow("provider tokens refreshed",
		"integration_id", integrationID,
		"expires_at", current.AccessExpiresAt(),
	)
	return current, nil
}

// releaseLock frees the refresh lock after a failed refresh so other
// instances retry instead of waiting out the debounce window.
func (m *Manager) releaseLock(ctx context.Context, integrationID string) {
	if err := m.lock.Release(ctx, integrationID); err != nil {
		m.logger.Warnw("failed to release refresh lock", "integration_id", integrationID, "error", err)
	}
}

// call runs fn through the provider breaker with exponential backoff.
// Only transient failures are retried.
func (m *Manager) call(ctx context.Context, p integration.Provider, fn func() (integration.Tokens, error)) (integration.Tokens, error) {
	cb := m.breakers[p]
	b := &backoff.ExponentialBackOff{
		InitialInterval:     m.cfg.RetryBase,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         m.cfg.RetryCap,
	}

	op := func() (integration.Tokens, error) {
		tokens, err := cb.Execute(fn)
		if err == nil {
			return tokens, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return tokens, backoff.Permanent(apperrors.NewUpstreamError(
				fmt.Sprintf("%s token refresh temporarily unavailable", p), err.Error()))
		}
		if !provider.IsTransient(err) {
			return tokens, backoff.Permanent(err)
		}
		return tokens, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(m.cfg.MaxRetries)+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			m.logger.Warnw("token refresh attempt failed, retrying",
				"provider", p,
				"retry_in", next,
				"error", err,
			)
		}),
	)
}

func (m *Manager) recordFailure(ctx context.Context, i *integration.Integration, cause error) error {
	reauth := errors.Is(cause, provider.ErrInvalidGrant) || errors.Is(cause, provider.ErrRefreshRejected)
	if reauth {
		i.MarkNeedsReauth(cause.Error())
	} else {
		i.RecordFailure(cause.Error())
	}
	if err := m.repo.Update(ctx, i); err != nil {
		m.logger.Errorw("failed to record refresh failure", "integration_id", i.ID(), "error", err)
	}

	if reauth {
		m.logger.Warnw("integration needs reauthorization", "integration_id", i.ID(), "provider", i.Provider(), "error", cause)
		return apperrors.NewReauthRequiredError(i.Provider().String())
	}
	m.logger.Errorw("token refresh failed", "integration_id", i.ID(), "provider", i.Provider(), "error", cause)
	if apperrors.GetAppError(cause) != nil {
		return cause
	}
	return apperrors.NewUpstreamError(fmt.Sprintf("%s token refresh failed", i.Provider()), cause.Error())
}

// awaitRemoteRefresh waits for the instance holding the lock to store new
// tokens.
func (m *Manager) awaitRemoteRefresh(ctx context.Context, integrationID string) (*integration.Integration, error) {
	deadline := time.NewTimer(m.cfg.DebounceWindow)
	defer deadline.Stop()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, apperrors.NewUpstreamError("token refresh in progress, try again shortly")
		case <-ticker.C:
			i, err := m.load(ctx, integrationID)
			if err != nil {
				return nil, err
			}
			if !i.IsActive() {
				return nil, apperrors.NewReauthRequiredError(i.Provider().String())
			}
			if !i.NeedsRefresh(m.now(), m.cfg.Skew) {
				return i, nil
			}
		}
	}
}

func (m *Manager) load(ctx context.Context, integrationID string) (*integration.Integration, error) {
	i, err := m.repo.GetByID(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}
	if i == nil {
		return nil, apperrors.NewNotFoundError("integration not found", integrationID)
	}
	return i, nil
}
