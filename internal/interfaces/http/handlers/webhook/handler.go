package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentusecases "github.com/coachhub/coachhub/internal/application/payment/usecases"
	schedulingusecases "github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/infrastructure/calcom"
	"github.com/coachhub/coachhub/internal/infrastructure/calendly"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

const (
	maxBodyBytes          = 1 << 20
	stripeSignatureHeader = "Stripe-Signature"
)

type ProviderWebhookExecutor interface {
	Execute(ctx context.Context, body []byte, signature string) (*schedulingusecases.WebhookResult, error)
}

type ClerkWebhookExecutor interface {
	Execute(ctx context.Context, body []byte, headers http.Header) (bool, error)
}

type StripeWebhookExecutor interface {
	Execute(ctx context.Context, body []byte, signature string) (paymentusecases.WebhookResult, error)
}

// Handler receives signed deliveries from Cal.com, Calendly, Clerk and
// Stripe. Verification happens in the use cases against the raw body.
type Handler struct {
	calcomUC   ProviderWebhookExecutor
	calendlyUC ProviderWebhookExecutor
	clerkUC    ClerkWebhookExecutor
	stripeUC   StripeWebhookExecutor
	logger     logger.Interface
}

func NewHandler(
	calcomUC ProviderWebhookExecutor,
	calendlyUC ProviderWebhookExecutor,
	clerkUC ClerkWebhookExecutor,
	stripeUC StripeWebhookExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		calcomUC:   calcomUC,
		calendlyUC: calendlyUC,
		clerkUC:    clerkUC,
		stripeUC:   stripeUC,
		logger:     logger,
	}
}

func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return nil, false
	}
	if len(body) > maxBodyBytes {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "payload too large")
		return nil, false
	}
	return body, true
}

func (h *Handler) ack(c *gin.Context, source string, duplicate, ignored bool) {
	if duplicate {
		h.logger.Debugw("duplicate webhook delivery acknowledged", "source", source)
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"received":  true,
		"duplicate": duplicate,
		"ignored":   ignored,
	})
}

// Calcom handles POST /webhooks/calcom
func (h *Handler) Calcom(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	result, err := h.calcomUC.Execute(c.Request.Context(), body, c.GetHeader(calcom.SignatureHeader))
	if err != nil {
		h.logger.Warnw("calcom webhook rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.ack(c, "calcom", result.Duplicate, result.Ignored)
}

// Calendly handles POST /webhooks/calendly
func (h *Handler) Calendly(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	result, err := h.calendlyUC.Execute(c.Request.Context(), body, c.GetHeader(calendly.SignatureHeader))
	if err != nil {
		h.logger.Warnw("calendly webhook rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.ack(c, "calendly", result.Duplicate, result.Ignored)
}

// Clerk handles POST /webhooks/clerk. Svix signs over several headers, so
// all of them are passed through.
func (h *Handler) Clerk(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	duplicate, err := h.clerkUC.Execute(c.Request.Context(), body, c.Request.Header)
	if err != nil {
		h.logger.Warnw("clerk webhook rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.ack(c, "clerk", duplicate, false)
}

// Stripe handles POST /webhooks/stripe
func (h *Handler) Stripe(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	result, err := h.stripeUC.Execute(c.Request.Context(), body, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		h.logger.Warnw("stripe webhook rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.ack(c, "stripe", result.Duplicate, result.Ignored)
}
