package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

var ticketSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"priority":     true,
	"sla_due_time": true,
}

type ListTicketsQuery struct {
	Actor Actor
	dto.ListTicketsRequest
}

// ListTicketsUseCase lists the caller's own tickets. Admins see every ticket.
type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, q ListTicketsQuery) (*dto.ListTicketsResponse, error) {
	p := utils.ValidatePagination(q.Page, q.PageSize)
	filter := ticket.TicketFilter{
		Page:      p.Page,
		PageSize:  p.PageSize,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	if q.SortBy != "" {
		if !ticketSortFields[q.SortBy] {
			return nil, errors.NewValidationError("invalid sort field", q.SortBy)
		}
		filter.SortBy = q.SortBy
	}
	if q.Order == "asc" {
		filter.SortOrder = "asc"
	}
	if !q.Actor.Role.IsAdmin() {
		creator := q.Actor.UserID
		filter.CreatorID = &creator
	}

	if q.Status != "" {
		st, err := vo.NewTicketStatus(q.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Status = &st
	}
	if q.Priority != "" {
		pr, err := vo.NewPriority(q.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &pr
	}
	if q.Category != "" {
		c, err := vo.NewCategory(q.Category)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Category = &c
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "user_id", q.Actor.UserID, "error", err)
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	now := biztime.NowUTC()
	out := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, dto.ToTicketDTO(t, nil, false, now))
	}
	return &dto.ListTicketsResponse{Tickets: out, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}
