package usecases

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func issuedTokens(prefix string) integration.Tokens {
	return integration.Tokens{
		AccessToken:     prefix + "-access",
		RefreshToken:    prefix + "-refresh",
		AccessExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestConnectCalcom_CreatesManagedUser(t *testing.T) {
	f := newFixture(t)
	uc := NewConnectCalcomUseCase(f.users, f.integrations, f.calcom, logger.NewNopLogger())
	f.calcom.On("CreateManagedUser", mock.Anything, "coach@example.com", mock.Anything, mock.Anything).
		Return(&provider.ManagedUser{ExternalUserID: "501", Tokens: issuedTokens("cal")}, nil).Once()

	out, err := uc.Execute(context.Background(), ConnectCalcomCommand{UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.True(t, out.Connected)
	assert.Equal(t, "501", out.ExternalUserID)

	stored, err := f.integrations.GetByUserAndProvider(context.Background(), f.coach.ID(), integration.ProviderCalcom)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "cal-access", stored.AccessToken())

	_, err = uc.Execute(context.Background(), ConnectCalcomCommand{UserID: f.coach.ID()})
	assert.True(t, apperrors.IsConflictError(err), "an active connection is not replaced")
	f.calcom.AssertExpectations(t)
}

func TestConnectCalcom_ReconnectForcesRefresh(t *testing.T) {
	f := newFixture(t)
	i := newIntegration(t, f.coach.ID(), integration.ProviderCalcom)
	i.MarkNeedsReauth("refresh token rejected")
	require.NoError(t, f.integrations.Create(context.Background(), i))

	uc := NewConnectCalcomUseCase(f.users, f.integrations, f.calcom, logger.NewNopLogger())
	f.calcom.On("ForceRefresh", mock.Anything, i).Return(issuedTokens("forced"), nil).Once()

	_, err := uc.Execute(context.Background(), ConnectCalcomCommand{UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.True(t, i.IsActive())
	assert.Equal(t, "forced-access", i.AccessToken())
	f.calcom.AssertNotCalled(t, "CreateManagedUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConnectCalcom_MenteeForbidden(t *testing.T) {
	f := newFixture(t)
	uc := NewConnectCalcomUseCase(f.users, f.integrations, f.calcom, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), ConnectCalcomCommand{UserID: f.mentee.ID()})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
}

func TestConnectCalcom_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	uc := NewConnectCalcomUseCase(f.users, f.integrations, f.calcom, logger.NewNopLogger())
	f.calcom.On("CreateManagedUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Execute(context.Background(), ConnectCalcomCommand{UserID: f.coach.ID()})
	assert.True(t, apperrors.IsUpstreamError(err))
	stored, _ := f.integrations.GetByUserAndProvider(context.Background(), f.coach.ID(), integration.ProviderCalcom)
	assert.Nil(t, stored)
}

type calendlyFixture struct {
	*fixture
	client *testutil.MockCalendlyClient
	states *cache.RedisStateStore
	start  *StartCalendlyConnectUseCase
	finish *CompleteCalendlyConnectUseCase
}

func newCalendlyFixture(t *testing.T) *calendlyFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixture(t)
	client := testutil.NewMockCalendlyOAuthClient()
	states := cache.NewRedisStateStore(rdb, "oauth:state:calendly:", 10*time.Minute)
	return &calendlyFixture{
		fixture: f,
		client:  client,
		states:  states,
		start:   NewStartCalendlyConnectUseCase(f.users, client, states, logger.NewNopLogger()),
		finish:  NewCompleteCalendlyConnectUseCase(f.integrations, client, states, logger.NewNopLogger()),
	}
}

func TestCalendlyConnect_CallbackStoresTokens(t *testing.T) {
	f := newCalendlyFixture(t)
	ctx := context.Background()

	started, err := f.start.Execute(ctx, f.coach.ID())
	require.NoError(t, err)
	require.NotEmpty(t, started.State)
	authURL, err := url.Parse(started.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, started.State, authURL.Query().Get("state"))

	f.client.On("Exchange", mock.Anything, "code-1", mock.MatchedBy(func(v string) bool { return v != "" })).
		Return(&provider.OAuthGrant{
			Tokens:          issuedTokens("cly"),
			UserURI:         "https://api.calendly.com/users/U1",
			OrganizationURI: "https://api.calendly.com/organizations/O1",
		}, nil).Once()

	out, err := f.finish.Execute(ctx, CompleteCalendlyConnectCommand{State: started.State, Code: "code-1"})
	require.NoError(t, err)
	assert.True(t, out.Connected)

	stored, err := f.integrations.GetByUserAndProvider(ctx, f.coach.ID(), integration.ProviderCalendly)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "cly-access", stored.AccessToken())
	assert.Equal(t, "https://api.calendly.com/organizations/O1", stored.OrganizationURI())

	// The state is single use.
	_, err = f.finish.Execute(ctx, CompleteCalendlyConnectCommand{State: started.State, Code: "code-1"})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
	f.client.AssertExpectations(t)
}

func TestCalendlyConnect_DeniedConsentConsumesState(t *testing.T) {
	f := newCalendlyFixture(t)
	ctx := context.Background()
	started, err := f.start.Execute(ctx, f.coach.ID())
	require.NoError(t, err)

	_, err = f.finish.Execute(ctx, CompleteCalendlyConnectCommand{State: started.State, Error: "access_denied"})
	require.Error(t, err)

	_, err = f.states.VerifyAndGet(ctx, started.State)
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
	f.client.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendlyConnect_AccountOwnedByAnotherCoach(t *testing.T) {
	f := newCalendlyFixture(t)
	ctx := context.Background()

	other := newIntegration(t, "other-coach", integration.ProviderCalendly)
	require.NoError(t, other.Reconnect("https://api.calendly.com/users/U1", "", issuedTokens("other")))
	require.NoError(t, f.integrations.Create(ctx, other))

	started, err := f.start.Execute(ctx, f.coach.ID())
	require.NoError(t, err)
	f.client.On("Exchange", mock.Anything, "code-1", mock.Anything).
		Return(&provider.OAuthGrant{Tokens: issuedTokens("cly"), UserURI: "https://api.calendly.com/users/U1"}, nil).Once()

	_, err = f.finish.Execute(ctx, CompleteCalendlyConnectCommand{State: started.State, Code: "code-1"})
	assert.True(t, apperrors.IsConflictError(err))
	stored, _ := f.integrations.GetByUserAndProvider(ctx, f.coach.ID(), integration.ProviderCalendly)
	assert.Nil(t, stored)
}

func TestCalendlyConnect_StartRequiresCoach(t *testing.T) {
	f := newCalendlyFixture(t)
	_, err := f.start.Execute(context.Background(), f.mentee.ID())
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeForbidden, appErr.Type)
}
