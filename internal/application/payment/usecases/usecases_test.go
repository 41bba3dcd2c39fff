package usecases

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/payment/dto"
	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/application/payment/testutil"
	schedulingtest "github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/application/webhookinbox"
	"github.com/coachhub/coachhub/internal/domain/payment"
	paymentVO "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	subscriptionVO "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	uservo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func newPlan(t *testing.T) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan(subscription.PlanInput{
		Name:              "Growth",
		PriceCents:        4900,
		Currency:          "usd",
		Interval:          subscriptionVO.IntervalMonth,
		SessionsPerPeriod: 4,
		StripePriceID:     "price_growth",
	})
	require.NoError(t, err)
	return p
}

func newMentee(t *testing.T) *domainUser.User {
	t.Helper()
	email, err := uservo.NewEmail("mia@example.com")
	require.NoError(t, err)
	u, err := domainUser.NewUser("clerk_mia", email, "Mia", "Wong")
	require.NoError(t, err)
	return u
}

type billingFixture struct {
	plan     *subscription.Plan
	user     *domainUser.User
	plans    *testutil.PlanRepository
	subs     *testutil.SubscriptionRepository
	payments *testutil.PaymentRepository
	disputes *testutil.DisputeRepository
	gateway  *testutil.Gateway
	pub      *schedulingtest.MockEventPublisher
}

func newBillingFixture(t *testing.T) *billingFixture {
	plan := newPlan(t)
	return &billingFixture{
		plan:     plan,
		user:     newMentee(t),
		plans:    testutil.NewPlanRepository(plan),
		subs:     testutil.NewSubscriptionRepository(),
		payments: testutil.NewPaymentRepository(),
		disputes: testutil.NewDisputeRepository(),
		gateway:  &testutil.Gateway{},
		pub:      schedulingtest.NewMockEventPublisher(),
	}
}

func (f *billingFixture) checkout() *CheckoutUseCase {
	users := schedulingtest.NewMockUserRepository(f.user)
	return NewCheckoutUseCase(f.plans, f.subs, f.payments, users, f.gateway,
		RedirectURLs{Success: "https://app.example.com/billing/success", Cancel: "https://app.example.com/billing"},
		logger.NewNopLogger())
}

func (f *billingFixture) webhook() *HandleStripeWebhookUseCase {
	inbox := webhookinbox.New(schedulingtest.NewMockWebhookRepository(), logger.NewNopLogger())
	return NewHandleStripeWebhookUseCase(f.gateway, inbox, f.payments, f.subs, f.plans, f.disputes,
		schedulingtest.NoopTx{}, f.pub, logger.NewNopLogger())
}

func (f *billingFixture) deliver(ev *paymentgateway.Event) {
	f.gateway.ParseWebhookFunc = func([]byte, string) (*paymentgateway.Event, error) { return ev, nil }
}

func TestCheckoutUseCase(t *testing.T) {
	f := newBillingFixture(t)
	var got paymentgateway.CheckoutRequest
	f.gateway.CreateCheckoutFunc = func(_ context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error) {
		got = req
		return &paymentgateway.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1", ExpiresAt: req.ExpiresAt}, nil
	}

	out, err := f.checkout().Execute(context.Background(), f.user.ID(), f.plan.ID())
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", out.CheckoutURL)
	assert.Equal(t, "price_growth", got.PriceID)
	assert.Equal(t, "mia@example.com", got.CustomerEmail)
	assert.Equal(t, out.PaymentID, got.PaymentID)

	payments := f.payments.All()
	require.Len(t, payments, 1)
	assert.Equal(t, paymentVO.PaymentStatusPending, payments[0].Status())
	assert.Equal(t, "cs_1", payments[0].StripeCheckoutSessionID())
	assert.Equal(t, int64(4900), payments[0].Amount().AmountInCents())

	subs := f.subs.All()
	require.Len(t, subs, 1)
	assert.Equal(t, subscriptionVO.StatusPendingPayment, subs[0].Status())

	_, err = f.checkout().Execute(context.Background(), f.user.ID(), f.plan.ID())
	require.NoError(t, err)
	assert.Len(t, f.subs.All(), 1, "an unpaid subscription for the same plan is reused")
}

func TestCheckoutUseCase_Rejections(t *testing.T) {
	t.Run("already subscribed", func(t *testing.T) {
		f := newBillingFixture(t)
		sub, err := subscription.NewSubscription(f.user.ID(), f.plan.ID())
		require.NoError(t, err)
		now := time.Now()
		require.NoError(t, sub.Activate("cus_1", "sub_1", now, now.AddDate(0, 1, 0)))
		f.subs = testutil.NewSubscriptionRepository(sub)

		_, err = f.checkout().Execute(context.Background(), f.user.ID(), f.plan.ID())
		assert.True(t, apperrors.IsConflictError(err))
	})

	t.Run("inactive plan", func(t *testing.T) {
		f := newBillingFixture(t)
		f.plan.Deactivate()
		_, err := f.checkout().Execute(context.Background(), f.user.ID(), f.plan.ID())
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("unknown plan", func(t *testing.T) {
		f := newBillingFixture(t)
		_, err := f.checkout().Execute(context.Background(), f.user.ID(), "nope")
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("stripe failure marks payment failed", func(t *testing.T) {
		f := newBillingFixture(t)
		f.gateway.CreateCheckoutFunc = func(context.Context, paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error) {
			return nil, apperrors.NewUpstreamError("stripe create checkout session failed")
		}
		_, err := f.checkout().Execute(context.Background(), f.user.ID(), f.plan.ID())
		assert.True(t, apperrors.IsUpstreamError(err))
		require.Len(t, f.payments.All(), 1)
		assert.Equal(t, paymentVO.PaymentStatusFailed, f.payments.All()[0].Status())
	})
}

func pendingCheckout(t *testing.T, f *billingFixture) (*subscription.Subscription, *payment.Payment) {
	t.Helper()
	sub, err := subscription.NewSubscription(f.user.ID(), f.plan.ID())
	require.NoError(t, err)
	p, err := payment.NewPayment(f.user.ID(), sub.ID(), f.plan.ID(), paymentVO.NewMoney(4900, "usd"))
	require.NoError(t, err)
	p.AttachCheckout("cs_1", "https://checkout.stripe.com/c/cs_1", time.Time{})
	require.NoError(t, f.subs.Create(context.Background(), sub))
	require.NoError(t, f.payments.Create(context.Background(), p))
	return sub, p
}

func TestStripeWebhook_CheckoutCompleted(t *testing.T) {
	f := newBillingFixture(t)
	sub, p := pendingCheckout(t, f)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	f.deliver(&paymentgateway.Event{
		ID:   "evt_1",
		Type: paymentgateway.EventCheckoutCompleted,
		Checkout: &paymentgateway.CheckoutCompleted{
			SessionID:            "cs_1",
			PaymentIntentID:      "pi_1",
			StripeCustomerID:     "cus_1",
			StripeSubscriptionID: "sub_1",
			PeriodStart:          start,
			PeriodEnd:            start.AddDate(0, 1, 0),
		},
	})
	uc := f.webhook()

	res, err := uc.Execute(context.Background(), []byte(`{"id":"evt_1"}`), "t=1,v1=sig")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)

	assert.Equal(t, paymentVO.PaymentStatusPaid, p.Status())
	assert.Equal(t, "pi_1", p.StripePaymentIntentID())
	assert.Equal(t, subscriptionVO.StatusActive, sub.Status())
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID())
	require.NotNil(t, sub.CurrentPeriodEnd())
	assert.Equal(t, start.AddDate(0, 1, 0), *sub.CurrentPeriodEnd())
	assert.Equal(t, []string{payment.EventTypePaymentSucceeded}, f.pub.EventTypes())

	res, err = uc.Execute(context.Background(), []byte(`{"id":"evt_1"}`), "t=1,v1=sig")
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Len(t, f.pub.EventTypes(), 1)
}

func TestStripeWebhook_CheckoutWithoutPeriodUsesPlanInterval(t *testing.T) {
	f := newBillingFixture(t)
	sub, _ := pendingCheckout(t, f)
	f.deliver(&paymentgateway.Event{
		ID:       "evt_2",
		Type:     paymentgateway.EventCheckoutCompleted,
		Checkout: &paymentgateway.CheckoutCompleted{SessionID: "cs_1", StripeSubscriptionID: "sub_1"},
	})
	uc := f.webhook()
	fixed := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	_, err := uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	require.NotNil(t, sub.CurrentPeriodEnd())
	assert.Equal(t, subscriptionVO.IntervalMonth.PeriodEnd(fixed), *sub.CurrentPeriodEnd())
}

func TestStripeWebhook_SubscriptionLifecycle(t *testing.T) {
	f := newBillingFixture(t)
	sub, err := subscription.NewSubscription(f.user.ID(), f.plan.ID())
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, sub.Activate("cus_1", "sub_1", now, now.AddDate(0, 1, 0)))
	f.subs = testutil.NewSubscriptionRepository(sub)
	uc := f.webhook()

	f.deliver(&paymentgateway.Event{ID: "evt_3", Type: paymentgateway.EventInvoicePaymentFail, StripeSubscriptionID: "sub_1"})
	_, err = uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, subscriptionVO.StatusPastDue, sub.Status())

	f.deliver(&paymentgateway.Event{ID: "evt_4", Type: paymentgateway.EventSubscriptionDeleted, StripeSubscriptionID: "sub_1"})
	_, err = uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, subscriptionVO.StatusCancelled, sub.Status())

	f.deliver(&paymentgateway.Event{ID: "evt_5", Type: paymentgateway.EventInvoicePaymentFail, StripeSubscriptionID: "sub_1"})
	res, err := uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.True(t, res.Ignored, "cancelled subscriptions do not go past due")

	f.deliver(&paymentgateway.Event{ID: "evt_6", Type: paymentgateway.EventSubscriptionDeleted, StripeSubscriptionID: "sub_unknown"})
	res, err = uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.True(t, res.Ignored)
}

func needsResponse(status paymentVO.DisputeStatus) *payment.DisputeSnapshot {
	due := time.Now().Add(7 * 24 * time.Hour).UTC()
	return &payment.DisputeSnapshot{
		StripeDisputeID: "dp_1",
		StripeChargeID:  "ch_1",
		PaymentIntentID: "pi_1",
		Amount:          paymentVO.NewMoney(4900, "usd"),
		Reason:          "fraudulent",
		Status:          status,
		EvidenceDueBy:   &due,
	}
}

func TestStripeWebhook_DisputeMirror(t *testing.T) {
	f := newBillingFixture(t)
	_, p := pendingCheckout(t, f)
	require.NoError(t, p.MarkAsPaid("pi_1"))
	uc := f.webhook()

	f.deliver(&paymentgateway.Event{ID: "evt_7", Type: paymentgateway.EventDisputeCreated, Dispute: needsResponse(paymentVO.DisputeStatusNeedsResponse)})
	_, err := uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)

	disputes := f.disputes.All()
	require.Len(t, disputes, 1)
	require.NotNil(t, disputes[0].PaymentID())
	assert.Equal(t, p.ID(), *disputes[0].PaymentID())
	assert.Equal(t, []string{payment.EventTypeDisputeOpened}, f.pub.EventTypes())

	f.deliver(&paymentgateway.Event{ID: "evt_8", Type: paymentgateway.EventDisputeClosed, Dispute: needsResponse(paymentVO.DisputeStatusWon)})
	_, err = uc.Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	require.Len(t, f.disputes.All(), 1)
	assert.Equal(t, paymentVO.DisputeStatusWon, f.disputes.All()[0].Status())
	assert.Len(t, f.pub.EventTypes(), 1)
}

func TestStripeWebhook_Rejections(t *testing.T) {
	f := newBillingFixture(t)
	f.gateway.ParseWebhookFunc = func([]byte, string) (*paymentgateway.Event, error) {
		return nil, apperrors.NewSignatureInvalidError("no signatures found")
	}
	_, err := f.webhook().Execute(context.Background(), []byte(`{}`), "bad")
	assert.True(t, apperrors.IsAuthError(err))

	f.deliver(&paymentgateway.Event{ID: "evt_9", Type: "customer.created"})
	res, err := f.webhook().Execute(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.True(t, res.Ignored)
}

func newDispute(t *testing.T, f *billingFixture) *payment.Dispute {
	t.Helper()
	d, err := payment.NewDispute(*needsResponse(paymentVO.DisputeStatusNeedsResponse), nil)
	require.NoError(t, err)
	require.NoError(t, f.disputes.Create(context.Background(), d))
	return d
}

func TestDisputeUseCases_SubmitEvidence(t *testing.T) {
	f := newBillingFixture(t)
	d := newDispute(t, f)
	var sent paymentgateway.DisputeEvidence
	f.gateway.SubmitDisputeEvidenceFunc = func(_ context.Context, id string, ev paymentgateway.DisputeEvidence) (*payment.DisputeSnapshot, error) {
		assert.Equal(t, "dp_1", id)
		sent = ev
		return needsResponse(paymentVO.DisputeStatusUnderReview), nil
	}
	uc := NewDisputeUseCases(f.disputes, f.gateway, logger.NewNopLogger())

	out, err := uc.SubmitEvidence(context.Background(), d.ID(), "Session took place on 2026-02-01, recording attached.")
	require.NoError(t, err)
	assert.Equal(t, "Session took place on 2026-02-01, recording attached.", sent.Text)
	assert.Equal(t, "under_review", out.Status)
	assert.NotNil(t, out.EvidenceSubmittedAt)

	_, err = uc.SubmitEvidence(context.Background(), d.ID(), "more")
	assert.True(t, apperrors.IsConflictError(err), "under review no longer accepts evidence")
}

func TestDisputeUseCases_UploadEvidenceFile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{"pdf", pdf, false},
		{"png", append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...), false},
		{"plain text", []byte("just some text pretending to be a receipt"), true},
		{"too large", append(append([]byte{}, pdf...), bytes.Repeat([]byte("a"), MaxEvidenceFileSize)...), true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t)
			d := newDispute(t, f)
			uploaded := false
			f.gateway.UploadEvidenceFileFunc = func(_ context.Context, filename string, r io.Reader) (string, error) {
				uploaded = true
				body, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, tt.content, body)
				return "file_1", nil
			}
			f.gateway.SubmitDisputeEvidenceFunc = func(_ context.Context, _ string, ev paymentgateway.DisputeEvidence) (*payment.DisputeSnapshot, error) {
				assert.Equal(t, "file_1", ev.FileID)
				return needsResponse(paymentVO.DisputeStatusNeedsResponse), nil
			}
			uc := NewDisputeUseCases(f.disputes, f.gateway, logger.NewNopLogger())

			out, err := uc.UploadEvidenceFile(context.Background(), d.ID(), "evidence.bin", bytes.NewReader(tt.content))
			if tt.wantErr {
				assert.True(t, apperrors.IsValidationError(err))
				assert.False(t, uploaded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"file_1"}, out.EvidenceFiles)
		})
	}
}

func TestDisputeUseCases_AcceptAndList(t *testing.T) {
	f := newBillingFixture(t)
	d := newDispute(t, f)
	f.gateway.CloseDisputeFunc = func(context.Context, string) (*payment.DisputeSnapshot, error) {
		return needsResponse(paymentVO.DisputeStatusLost), nil
	}
	uc := NewDisputeUseCases(f.disputes, f.gateway, logger.NewNopLogger())

	out, err := uc.Accept(context.Background(), d.ID())
	require.NoError(t, err)
	assert.Equal(t, "lost", out.Status)

	_, err = uc.Accept(context.Background(), d.ID())
	assert.True(t, apperrors.IsConflictError(err))

	list, err := uc.List(context.Background(), dto.ListDisputesRequest{Status: "lost"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	_, err = uc.List(context.Background(), dto.ListDisputesRequest{Status: strings.ToUpper("lost")})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Accept(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFoundError(err))
}
