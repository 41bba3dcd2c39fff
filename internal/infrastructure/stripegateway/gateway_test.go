package stripegateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/config"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const webhookSecret = "whsec_test"

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newGateway(config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
	}, srv.URL, logger.NewNopLogger())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGateway_CreateCheckout(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "price_1", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "pay-1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "sub-1", r.PostForm.Get("metadata[subscription_id]"))

		writeJSON(w, http.StatusOK, map[string]any{
			"id":         "cs_123",
			"object":     "checkout.session",
			"url":        "https://checkout.stripe.com/c/cs_123",
			"expires_at": expires.Unix(),
		})
	})

	s, err := g.CreateCheckout(context.Background(), paymentgateway.CheckoutRequest{
		PaymentID:      "pay-1",
		SubscriptionID: "sub-1",
		UserID:         "user-1",
		CustomerEmail:  "a@example.com",
		PriceID:        "price_1",
		SuccessURL:     "http://localhost/ok",
		CancelURL:      "http://localhost/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_123", s.URL)
	assert.True(t, s.ExpiresAt.Equal(expires))
}

func TestGateway_CreateCheckout_InvalidRequest(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "No such price"},
		})
	})

	_, err := g.CreateCheckout(context.Background(), paymentgateway.CheckoutRequest{PaymentID: "pay-1", PriceID: "bogus"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestGateway_SubmitDisputeEvidence(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/disputes/dp_1", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "true", r.PostForm.Get("submit"))
		assert.Equal(t, "session happened", r.PostForm.Get("evidence[uncategorized_text]"))
		assert.Equal(t, "file_1", r.PostForm.Get("evidence[uncategorized_file]"))

		writeJSON(w, http.StatusOK, map[string]any{
			"id":       "dp_1",
			"object":   "dispute",
			"amount":   4900,
			"currency": "usd",
			"status":   "under_review",
			"reason":   "fraudulent",
			"charge":   "ch_1",
		})
	})

	snap, err := g.SubmitDisputeEvidence(context.Background(), "dp_1", paymentgateway.DisputeEvidence{
		Text:   "session happened",
		FileID: "file_1",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.DisputeStatusUnderReview, snap.Status)
	assert.Equal(t, "ch_1", snap.StripeChargeID)
	assert.Equal(t, int64(4900), snap.Amount.AmountInCents())
}

func TestGateway_UploadEvidenceFile(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/files", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "dispute_evidence", r.FormValue("purpose"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "receipt.pdf", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.4", string(data))

		writeJSON(w, http.StatusOK, map[string]any{"id": "file_1", "object": "file"})
	})

	id, err := g.UploadEvidenceFile(context.Background(), "receipt.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "file_1", id)
}

func TestGateway_CloseDispute(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/disputes/dp_1/close", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "dp_1",
			"object": "dispute",
			"status": "lost",
		})
	})

	snap, err := g.CloseDispute(context.Background(), "dp_1")
	require.NoError(t, err)
	assert.Equal(t, vo.DisputeStatusLost, snap.Status)
}

func signedPayload(t *testing.T, body map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestGateway_ParseWebhook_Checkout(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})
	payload, sig := signedPayload(t, map[string]any{
		"id":     "evt_1",
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]any{"object": map[string]any{
			"id":                  "cs_123",
			"object":              "checkout.session",
			"client_reference_id": "pay-1",
			"customer":            "cus_1",
			"subscription":        "sub_1",
		}},
	})

	evt, err := g.ParseWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", evt.ID)
	require.NotNil(t, evt.Checkout)
	assert.Equal(t, "pay-1", evt.Checkout.PaymentID)
	assert.Equal(t, "cus_1", evt.Checkout.StripeCustomerID)
	assert.Equal(t, "sub_1", evt.Checkout.StripeSubscriptionID)
	assert.True(t, evt.Checkout.PeriodStart.IsZero())
}

func TestGateway_ParseWebhook_Dispute(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})
	due := time.Now().Add(7 * 24 * time.Hour).Unix()
	payload, sig := signedPayload(t, map[string]any{
		"id":     "evt_2",
		"object": "event",
		"type":   "charge.dispute.created",
		"data": map[string]any{"object": map[string]any{
			"id":               "dp_1",
			"object":           "dispute",
			"amount":           4900,
			"currency":         "usd",
			"status":           "needs_response",
			"reason":           "fraudulent",
			"charge":           "ch_1",
			"payment_intent":   "pi_1",
			"evidence_details": map[string]any{"due_by": due},
		}},
	})

	evt, err := g.ParseWebhook(payload, sig)
	require.NoError(t, err)
	require.NotNil(t, evt.Dispute)
	assert.Equal(t, vo.DisputeStatusNeedsResponse, evt.Dispute.Status)
	assert.Equal(t, "pi_1", evt.Dispute.PaymentIntentID)
	require.NotNil(t, evt.Dispute.EvidenceDueBy)
	assert.Equal(t, due, evt.Dispute.EvidenceDueBy.Unix())
}

func TestGateway_ParseWebhook_BadSignature(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})
	payload, _ := signedPayload(t, map[string]any{"id": "evt_1", "object": "event", "type": "ping"})

	_, err := g.ParseWebhook(payload, "t=1,v1=deadbeef")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthError(err))
}
