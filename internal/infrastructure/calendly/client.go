// Package calendly implements the Calendly v2 API and OAuth flow.
package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/ratelimit"
	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	requestTimeout  = 15 * time.Second
	maxResponseSize = 1 << 20
	listPageSize    = 100
)

var _ provider.CalendlyClient = (*Client)(nil)

type Client struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
	limiter    *ratelimit.ProviderLimiter
	logger     logger.Interface
}

func NewClient(cfg config.CalendlyConfig, log logger.Interface) *Client {
	authURL := strings.TrimRight(cfg.AuthURL, "/")
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL + "/oauth/authorize",
				TokenURL:  authURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    ratelimit.NewProviderLimiter(cfg.RequestsPerSec),
		logger:     log,
	}
}

func (c *Client) Provider() integration.Provider {
	return integration.ProviderCalendly
}

// AuthCodeURL builds the consent URL for the S256 PKCE flow.
func (c *Client) AuthCodeURL(state, codeChallenge string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange redeems an authorization code. Calendly returns the user and
// organization URIs next to the tokens.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier string) (*provider.OAuthGrant, error) {
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, c.translateOAuthError("exchange code", err)
	}
	owner, _ := tok.Extra("owner").(string)
	org, _ := tok.Extra("organization").(string)
	if owner == "" {
		return nil, fmt.Errorf("calendly token response has no owner")
	}
	return &provider.OAuthGrant{
		Tokens:          tokensFrom(tok),
		UserURI:         owner,
		OrganizationURI: org,
	}, nil
}

// RefreshTokens redeems the refresh token. Calendly rotates refresh tokens,
// so the returned pair replaces both values.
func (c *Client) RefreshTokens(ctx context.Context, i *integration.Integration) (integration.Tokens, error) {
	if err := c.limiter.Wait(ctx, i.ID()); err != nil {
		return integration.Tokens{}, err
	}
	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{
		RefreshToken: i.RefreshToken(),
		Expiry:       time.Unix(1, 0),
	})
	tok, err := src.Token()
	if err != nil {
		return integration.Tokens{}, c.translateOAuthError("refresh tokens", err)
	}
	return tokensFrom(tok), nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func tokensFrom(tok *oauth2.Token) integration.Tokens {
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(2 * time.Hour)
	}
	return integration.Tokens{
		AccessToken:     tok.AccessToken,
		RefreshToken:    tok.RefreshToken,
		AccessExpiresAt: expiry.UTC(),
	}
}

// translateOAuthError maps oauth2 failures onto provider errors. invalid_grant
// means the coach revoked access or the refresh token was already used.
func (c *Client) translateOAuthError(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return fmt.Errorf("calendly %s: %w", op, err)
	}
	status := 0
	if rerr.Response != nil {
		status = rerr.Response.StatusCode
	}
	apiErr := &provider.Error{
		Provider:   integration.ProviderCalendly,
		Op:         op,
		StatusCode: status,
		Code:       rerr.ErrorCode,
		Message:    rerr.ErrorDescription,
	}
	c.logger.Warnw("calendly oauth request failed", "op", op, "status", status, "code", rerr.ErrorCode)
	if rerr.ErrorCode == "invalid_grant" {
		return fmt.Errorf("%w: %w", provider.ErrInvalidGrant, apiErr)
	}
	return apiErr
}

type apiError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, op, method, rawURL, accessToken, limiterKey string, body, out any) error {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendly %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read calendly %s response: %w", op, err)
	}

	if resp.StatusCode >= 300 {
		var e apiError
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warnw("calendly request failed", "op", op, "status", resp.StatusCode, "title", e.Title)
		return &provider.Error{
			Provider:   integration.ProviderCalendly,
			Op:         op,
			StatusCode: resp.StatusCode,
			Code:       e.Title,
			Message:    e.Message,
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode calendly %s response: %w", op, err)
		}
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
