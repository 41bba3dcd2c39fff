package ticket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/application/ticket/usecases"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, ticketID string, actor usecases.Actor) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, q usecases.ListTicketsQuery) (*dto.ListTicketsResponse, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd usecases.AddCommentCommand) (*dto.CommentDTO, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketDTO, error)
}

type ChangePriorityExecutor interface {
	Execute(ctx context.Context, cmd usecases.ChangePriorityCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketDTO, error)
}

type TicketHandler struct {
	createTicketUC   CreateTicketExecutor
	getTicketUC      GetTicketExecutor
	listTicketsUC    ListTicketsExecutor
	addCommentUC     AddCommentExecutor
	changeStatusUC   ChangeStatusExecutor
	changePriorityUC ChangePriorityExecutor
	assignTicketUC   AssignTicketExecutor
	logger           logger.Interface
}

func NewTicketHandler(
	createTicketUC CreateTicketExecutor,
	getTicketUC GetTicketExecutor,
	listTicketsUC ListTicketsExecutor,
	addCommentUC AddCommentExecutor,
	changeStatusUC ChangeStatusExecutor,
	changePriorityUC ChangePriorityExecutor,
	assignTicketUC AssignTicketExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   createTicketUC,
		getTicketUC:      getTicketUC,
		listTicketsUC:    listTicketsUC,
		addCommentUC:     addCommentUC,
		changeStatusUC:   changeStatusUC,
		changePriorityUC: changePriorityUC,
		assignTicketUC:   assignTicketUC,
		logger:           logger,
	}
}

func actorFrom(c *gin.Context) (usecases.Actor, error) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return usecases.Actor{}, errors.NewUnauthorizedError("user not authenticated")
	}
	return usecases.Actor{
		UserID: userID,
		Role:   authorization.ParseUserRole(utils.CurrentUserRole(c)),
	}, nil
}

func (h *TicketHandler) ticketParam(c *gin.Context) (usecases.Actor, string, bool) {
	actor, err := actorFrom(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return usecases.Actor{}, "", false
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return usecases.Actor{}, "", false
	}
	return actor, ticketID, true
}

// CreateTicket handles POST /tickets
// @Summary Create a new ticket
// @Description Create a support ticket, optionally linked to one of the caller's bookings
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param ticket body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), usecases.CreateTicketCommand{
		Actor:               actor,
		CreateTicketRequest: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
// @Summary Get ticket by ID
// @Description Get a ticket with its comments. Internal notes are shown to admins only.
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ticketID, ok := h.ticketParam(c)
	if !ok {
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), ticketID, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /tickets
// @Summary List tickets
// @Description Get a paginated list of the caller's tickets. Admins see every ticket.
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Actor:              actor,
		ListTicketsRequest: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// AddComment handles POST /tickets/:id/comments
func (h *TicketHandler) AddComment(c *gin.Context) {
	actor, ticketID, ok := h.ticketParam(c)
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add comment", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		TicketID:          ticketID,
		Actor:             actor,
		AddCommentRequest: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Comment added successfully")
}

// ChangeStatus handles PATCH /tickets/:id/status
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	actor, ticketID, ok := h.ticketParam(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		TicketID: ticketID,
		Actor:    actor,
		Status:   req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated", result)
}

// ChangePriority handles PATCH /tickets/:id/priority
func (h *TicketHandler) ChangePriority(c *gin.Context) {
	actor, ticketID, ok := h.ticketParam(c)
	if !ok {
		return
	}

	var req dto.ChangePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changePriorityUC.Execute(c.Request.Context(), usecases.ChangePriorityCommand{
		TicketID: ticketID,
		Priority: req.Priority,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket priority updated", result)
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ticketID, ok := h.ticketParam(c)
	if !ok {
		return
	}

	var req dto.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		TicketID:   ticketID,
		AssigneeID: req.AssigneeID,
		Actor:      actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}
