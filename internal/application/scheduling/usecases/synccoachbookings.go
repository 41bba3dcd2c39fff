package usecases

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// SyncResult counts what a sync pass did to the local mirrors.
type SyncResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Cancelled int `json:"cancelled"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

func (r *SyncResult) add(o Outcome) {
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeCancelled:
		r.Cancelled++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Unchanged++
	}
}

func (r *SyncResult) merge(o SyncResult) {
	r.Created += o.Created
	r.Updated += o.Updated
	r.Cancelled += o.Cancelled
	r.Unchanged += o.Unchanged
	r.Skipped += o.Skipped
}

type SyncCoachBookingsUseCase struct {
	integrationRepo integration.Repository
	bookingRepo     booking.Repository
	clients         provider.Registry
	tokens          TokenSource
	reconciler      *Reconciler
	lookback        time.Duration
	lookahead       time.Duration
	logger          logger.Interface
	now             func() time.Time
}

func NewSyncCoachBookingsUseCase(
	integrationRepo integration.Repository,
	bookingRepo booking.Repository,
	clients provider.Registry,
	tokens TokenSource,
	reconciler *Reconciler,
	lookback, lookahead time.Duration,
	logger logger.Interface,
) *SyncCoachBookingsUseCase {
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}
	if lookahead <= 0 {
		lookahead = 90 * 24 * time.Hour
	}
	return &SyncCoachBookingsUseCase{
		integrationRepo: integrationRepo,
		bookingRepo:     bookingRepo,
		clients:         clients,
		tokens:          tokens,
		reconciler:      reconciler,
		lookback:        lookback,
		lookahead:       lookahead,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

// Execute syncs every active integration of coachID.
func (uc *SyncCoachBookingsUseCase) Execute(ctx context.Context, coachID string) (*SyncResult, error) {
	integrations, err := uc.integrationRepo.ListByUser(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	result := &SyncResult{}
	synced := 0
	var firstErr error
	for _, i := range integrations {
		if !i.IsActive() {
			continue
		}
		r, err := uc.SyncIntegration(ctx, i)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.merge(*r)
		synced++
	}

	if synced == 0 && firstErr == nil {
		return nil, errors.NewNotFoundError("no connected calendar to sync")
	}
	if synced == 0 {
		return nil, firstErr
	}
	return result, nil
}

// SyncIntegration reconciles one integration's bookings in the sync window.
// Local mirrors inside the window that the provider no longer reports are
// cancelled.
func (uc *SyncCoachBookingsUseCase) SyncIntegration(ctx context.Context, i *integration.Integration) (*SyncResult, error) {
	client, err := uc.clients.Get(i.Provider())
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.AccessToken(ctx, i)
	if err != nil {
		uc.logger.Warnw("cannot sync without access token",
			"integration_id", i.ID(),
			"provider", i.Provider(),
			"error", err,
		)
		return nil, err
	}

	now := uc.now()
	window := provider.Window{From: now.Add(-uc.lookback), To: now.Add(uc.lookahead)}

	remote, err := client.ListBookings(ctx, token, i, window)
	if err != nil {
		uc.logger.Errorw("failed to list provider bookings",
			"integration_id", i.ID(),
			"provider", i.Provider(),
			"error", err,
		)
		return nil, errors.NewUpstreamError(fmt.Sprintf("failed to list %s bookings", i.Provider()), err.Error())
	}

	result := &SyncResult{}
	seen := make(map[string]struct{}, len(remote))
	for _, rb := range remote {
		seen[rb.UID] = struct{}{}
		outcome, err := uc.reconciler.Apply(ctx, i.UserID(), i.Provider(), rb)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile booking %s: %w", rb.UID, err)
		}
		result.add(outcome)
	}

	local, err := uc.bookingRepo.ListInWindow(ctx, i.UserID(), i.Provider(), window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list local bookings: %w", err)
	}
	for _, b := range local {
		if _, ok := seen[b.UID()]; ok || !b.Status().IsActive() {
			continue
		}
		if err := uc.reconciler.CancelMissing(ctx, b); err != nil {
			return nil, err
		}
		result.Cancelled++
	}

	i.MarkSynced(now)
	if err := uc.integrationRepo.Update(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to record sync: %w", err)
	}

	uc.logger.Infow("integration synced",
		"integration_id", i.ID(),
		"provider", i.Provider(),
		"created", result.Created,
		"updated", result.Updated,
		"cancelled", result.Cancelled,
	)
	return result, nil
}

type SyncAllBookingsUseCase struct {
	integrationRepo integration.Repository
	sync            *SyncCoachBookingsUseCase
	concurrency     int
	logger          logger.Interface
}

func NewSyncAllBookingsUseCase(
	integrationRepo integration.Repository,
	sync *SyncCoachBookingsUseCase,
	concurrency int,
	logger logger.Interface,
) *SyncAllBookingsUseCase {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &SyncAllBookingsUseCase{
		integrationRepo: integrationRepo,
		sync:            sync,
		concurrency:     concurrency,
		logger:          logger,
	}
}

// Execute syncs all active integrations with bounded concurrency. A failing
// integration is logged and does not stop the others.
func (uc *SyncAllBookingsUseCase) Execute(ctx context.Context) (*SyncResult, error) {
	integrations, err := uc.integrationRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list active integrations: %w", err)
	}

	var (
		created, updated, cancelled, unchanged, skipped atomic.Int64
		failed                                          atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, i := range integrations {
		g.Go(func() error {
			r, err := uc.sync.SyncIntegration(gctx, i)
			if err != nil {
				failed.Add(1)
				uc.logger.Warnw("integration sync failed",
					"integration_id", i.ID(),
					"user_id", i.UserID(),
					"error", err,
				)
				return nil
			}
			created.Add(int64(r.Created))
			updated.Add(int64(r.Updated))
			cancelled.Add(int64(r.Cancelled))
			unchanged.Add(int64(r.Unchanged))
			skipped.Add(int64(r.Skipped))
			return nil
		})
	}
	_ = g.Wait()

	result := &SyncResult{
		Created:   int(created.Load()),
		Updated:   int(updated.Load()),
		Cancelled: int(cancelled.Load()),
		Unchanged: int(unchanged.Load()),
		Skipped:   int(skipped.Load()),
	}
	uc.logger.Infow("booking sync completed",
		"integrations", len(integrations),
		"failed", failed.Load(),
		"created", result.Created,
		"cancelled", result.Cancelled,
	)
	return result, nil
}
