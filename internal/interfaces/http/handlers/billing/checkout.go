package billing

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentdto "github.com/coachhub/coachhub/internal/application/payment/dto"
	subdto "github.com/coachhub/coachhub/internal/application/subscription/dto"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type CheckoutExecutor interface {
	Execute(ctx context.Context, userID, planID string) (*paymentdto.CheckoutResponse, error)
}

type GetSubscriptionExecutor interface {
	Execute(ctx context.Context, userID string) (*subdto.SubscriptionDTO, error)
}

type BillingHandler struct {
	checkoutUC        CheckoutExecutor
	getSubscriptionUC GetSubscriptionExecutor
	logger            logger.Interface
}

func NewBillingHandler(checkoutUC CheckoutExecutor, getSubscriptionUC GetSubscriptionExecutor, logger logger.Interface) *BillingHandler {
	return &BillingHandler{checkoutUC: checkoutUC, getSubscriptionUC: getSubscriptionUC, logger: logger}
}

// Checkout starts a Stripe Checkout session for a plan
// @Summary Start checkout
// @Description Creates a pending subscription and payment and returns the hosted checkout URL
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body paymentdto.CheckoutRequest true "Plan"
// @Success 201 {object} utils.APIResponse{data=paymentdto.CheckoutResponse}
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /billing/checkout [post]
func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req paymentdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.checkoutUC.Execute(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Checkout session created")
}

// GetSubscription handles GET /billing/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	result, err := h.getSubscriptionUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
