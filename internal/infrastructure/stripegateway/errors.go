package stripegateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

// translateError maps Stripe API errors onto application errors.
func translateError(op string, err error) error {
	var serr *stripe.Error
	if !errors.As(err, &serr) {
		return apperrors.NewUpstreamError(fmt.Sprintf("stripe %s failed", op), err.Error())
	}
	switch {
	case serr.HTTPStatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(fmt.Sprintf("stripe %s: resource not found", op), serr.Msg)
	case serr.HTTPStatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitedError("stripe rate limit reached", serr.Msg)
	case serr.Type == stripe.ErrorTypeInvalidRequest:
		return apperrors.NewBadRequestError(fmt.Sprintf("stripe %s rejected", op), serr.Msg)
	default:
		return apperrors.NewUpstreamError(fmt.Sprintf("stripe %s failed", op), serr.Msg)
	}
}
