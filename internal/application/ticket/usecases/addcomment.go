package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type AddCommentCommand struct {
	TicketID string
	Actor    Actor
	dto.AddCommentRequest
}

type AddCommentUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	tx          Transactor
	logger      logger.Interface
}

func NewAddCommentUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	tx Transactor,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		ticketRepo:  ticketRepo,
		commentRepo: commentRepo,
		tx:          tx,
		logger:      logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing add comment use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	t, err := loadVisible(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}
	if cmd.IsInternal && !cmd.Actor.Role.IsAdmin() {
		return nil, errors.NewForbiddenError("only admins can add internal comments")
	}
	if t.Status().IsClosed() {
		return nil, errors.NewConflictError("ticket is closed", "reopen it first")
	}

	c, err := ticket.NewComment(t.ID(), cmd.Actor.UserID, cmd.Content, cmd.IsInternal)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.commentRepo.Create(txCtx, c); err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
		if err := t.RecordComment(c); err != nil {
			return err
		}
		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to add comment", "ticket_id", t.ID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("comment added", "comment_id", c.ID(), "ticket_id", t.ID(), "internal", c.IsInternal())
	out := dto.ToCommentDTO(c)
	return &out, nil
}
