package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/payment/testutil"
	"github.com/coachhub/coachhub/internal/application/subscription/dto"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func TestPlanUseCases(t *testing.T) {
	repo := testutil.NewPlanRepository()
	uc := NewPlanUseCases(repo, logger.NewNopLogger())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreatePlanRequest{
		Name:              "Starter",
		PriceCents:        1900,
		Interval:          "month",
		SessionsPerPeriod: 2,
		StripePriceID:     "price_starter",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.True(t, created.IsActive)

	_, err = uc.Create(ctx, dto.CreatePlanRequest{Name: "Bad", PriceCents: 100, Interval: "week", StripePriceID: "price_x"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Create(ctx, dto.CreatePlanRequest{Name: "Bad", PriceCents: 100, Interval: "year", StripePriceID: "prod_x"})
	assert.True(t, apperrors.IsValidationError(err))

	price := int64(2900)
	inactive := false
	updated, err := uc.Update(ctx, created.ID, dto.UpdatePlanRequest{PriceCents: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(2900), updated.PriceCents)
	assert.Equal(t, "Starter", updated.Name)
	assert.False(t, updated.IsActive)

	public, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "price_starter", all[0].StripePriceID)

	_, err = uc.Update(ctx, "missing", dto.UpdatePlanRequest{})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetSubscriptionUseCase(t *testing.T) {
	plan, err := subscription.NewPlan(subscription.PlanInput{
		Name: "Growth", PriceCents: 4900, Interval: "month", StripePriceID: "price_growth",
	})
	require.NoError(t, err)

	lapsed, err := subscription.NewSubscription("user-1", plan.ID())
	require.NoError(t, err)
	require.NoError(t, lapsed.MarkAsExpired())

	subs := testutil.NewSubscriptionRepository(lapsed)
	uc := NewGetSubscriptionUseCase(subs, testutil.NewPlanRepository(plan), logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "expired", out.Status)
	assert.False(t, out.CanBookSessions)
	require.NotNil(t, out.Plan)
	assert.Empty(t, out.Plan.StripePriceID)

	active, err := subscription.NewSubscription("user-1", plan.ID())
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, active.Activate("cus_1", "sub_1", now, now.AddDate(0, 1, 0)))
	require.NoError(t, subs.Create(context.Background(), active))

	out, err = uc.Execute(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, active.ID(), out.ID)
	assert.True(t, out.CanBookSessions)

	_, err = uc.Execute(context.Background(), "user-2")
	assert.True(t, apperrors.IsNotFoundError(err))
}
