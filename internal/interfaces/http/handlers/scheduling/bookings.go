package scheduling

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type CreateBookingExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateBookingCommand) (*dto.BookingDTO, error)
}

type CancelBookingExecutor interface {
	Execute(ctx context.Context, cmd usecases.CancelBookingCommand) (*dto.BookingDTO, error)
}

type GetBookingExecutor interface {
	Execute(ctx context.Context, query usecases.GetBookingQuery) (*dto.BookingDTO, error)
}

type ListBookingsExecutor interface {
	Execute(ctx context.Context, query usecases.ListBookingsQuery) (*usecases.ListBookingsResult, error)
}

type CreateProposalExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateProposalCommand) (*dto.ProposalDTO, error)
}

// BookingHandler serves booking creation, listing and cancellation, and
// opening a proposal against a booking.
type BookingHandler struct {
	createUC         CreateBookingExecutor
	cancelUC         CancelBookingExecutor
	getUC            GetBookingExecutor
	listUC           ListBookingsExecutor
	createProposalUC CreateProposalExecutor
	logger           logger.Interface
}

func NewBookingHandler(
	createUC CreateBookingExecutor,
	cancelUC CancelBookingExecutor,
	getUC GetBookingExecutor,
	listUC ListBookingsExecutor,
	createProposalUC CreateProposalExecutor,
	logger logger.Interface,
) *BookingHandler {
	return &BookingHandler{
		createUC:         createUC,
		cancelUC:         cancelUC,
		getUC:            getUC,
		listUC:           listUC,
		createProposalUC: createProposalUC,
		logger:           logger,
	}
}

func currentActor(c *gin.Context) (string, bool, error) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return "", false, errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, utils.CurrentUserRole(c) == authorization.RoleAdmin.String(), nil
}

// Create books a session with a coach
// @Summary Create booking
// @Description Books the slot on the coach's calendar provider and mirrors it locally
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking details"
// @Success 201 {object} utils.APIResponse{data=dto.BookingDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create booking", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Booking created successfully")
}

// List handles GET /bookings
func (h *BookingHandler) List(c *gin.Context) {
	userID, isAdmin, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), req.ToQuery(userID, isAdmin))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Bookings, result.Total, result.Page, result.PageSize)
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userID, isAdmin, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	bookingID, err := utils.ParseIDParam(c, "id", "booking")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetBookingQuery{
		BookingID: bookingID,
		UserID:    userID,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Cancel cancels a confirmed booking
// @Summary Cancel booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} utils.APIResponse{data=dto.BookingDTO}
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, isAdmin, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	bookingID, err := utils.ParseIDParam(c, "id", "booking")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelBookingCommand{
		BookingID: bookingID,
		UserID:    userID,
		IsAdmin:   isAdmin,
		Reason:    req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking cancelled successfully", result)
}

// CreateProposal handles POST /bookings/:id/proposals
func (h *BookingHandler) CreateProposal(c *gin.Context) {
	userID, _, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	bookingID, err := utils.ParseIDParam(c, "id", "booking")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create proposal", "booking_id", bookingID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createProposalUC.Execute(c.Request.Context(), req.ToCommand(bookingID, userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Proposal created successfully")
}
