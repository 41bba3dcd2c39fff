package calcom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
)

type tokenData struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresAt  int64  `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt int64  `json:"refreshTokenExpiresAt"`
}

// tokens converts the millisecond expiry timestamps Cal.com returns.
func (t tokenData) tokens() integration.Tokens {
	out := integration.Tokens{
		AccessToken:     t.AccessToken,
		RefreshToken:    t.RefreshToken,
		AccessExpiresAt: time.UnixMilli(t.AccessTokenExpiresAt).UTC(),
	}
	if t.RefreshTokenExpiresAt > 0 {
		exp := time.UnixMilli(t.RefreshTokenExpiresAt).UTC()
		out.RefreshExpiresAt = &exp
	}
	return out
}

type managedUserData struct {
	User struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	tokenData
}

func (c *Client) CreateManagedUser(ctx context.Context, email, name, timeZone string) (*provider.ManagedUser, error) {
	var data managedUserData
	_, err := c.do(ctx, request{
		op:       "create managed user",
		method:   http.MethodPost,
		path:     fmt.Sprintf("/v2/oauth-clients/%s/users", c.clientID),
		platform: true,
		body: map[string]any{
			"email":    email,
			"name":     name,
			"timeZone": timeZone,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.User.ID == 0 {
		return nil, fmt.Errorf("calcom create managed user: response has no user id")
	}
	return &provider.ManagedUser{
		ExternalUserID: strconv.FormatInt(data.User.ID, 10),
		Tokens:         data.tokenData.tokens(),
	}, nil
}

// RefreshTokens redeems the managed user's refresh token. A 400 or 401 means
// the refresh token itself was refused and is reported as ErrRefreshRejected.
func (c *Client) RefreshTokens(ctx context.Context, i *integration.Integration) (integration.Tokens, error) {
	var data tokenData
	_, err := c.do(ctx, request{
		op:         "refresh tokens",
		method:     http.MethodPost,
		path:       fmt.Sprintf("/v2/oauth/%s/refresh", c.clientID),
		platform:   true,
		limiterKey: i.ID(),
		body:       map[string]string{"refreshToken": i.RefreshToken()},
	}, &data)
	if err != nil {
		var apiErr *provider.Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return integration.Tokens{}, fmt.Errorf("%w: %w", provider.ErrRefreshRejected, err)
		}
		return integration.Tokens{}, err
	}
	return data.tokens(), nil
}

// ForceRefresh mints a new token pair for the managed user using the
// platform credentials only.
func (c *Client) ForceRefresh(ctx context.Context, i *integration.Integration) (integration.Tokens, error) {
	var data tokenData
	_, err := c.do(ctx, request{
		op:         "force refresh",
		method:     http.MethodPost,
		path:       fmt.Sprintf("/v2/oauth-clients/%s/users/%s/force-refresh", c.clientID, i.ExternalUserID()),
		platform:   true,
		limiterKey: i.ID(),
	}, &data)
	if err != nil {
		return integration.Tokens{}, err
	}
	return data.tokens(), nil
}
