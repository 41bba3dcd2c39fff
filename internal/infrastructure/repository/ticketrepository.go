package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/ticket"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// allowedTicketOrderByFields keeps user input out of ORDER BY.
var allowedTicketOrderByFields = map[string]bool{
	"number":     true,
	"title":      true,
	"status":     true,
	"priority":   true,
	"category":   true,
	"created_at": true,
	"updated_at": true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ToModel(t)).Error; err != nil {
		r.logger.Errorw("failed to create ticket", "number", t.Number(), "error", err)
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.TicketModel{}, model.ID, model.Version, map[string]any{
		"title":         model.Title,
		"description":   model.Description,
		"category":      model.Category,
		"priority":      model.Priority,
		"status":        model.Status,
		"assignee_id":   model.AssigneeID,
		"sla_due_time":  model.SLADueTime,
		"response_time": model.ResponseTime,
		"resolved_time": model.ResolvedTime,
		"closed_at":     model.ClosedAt,
		"updated_at":    model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update ticket", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if rows == 0 {
		return conflictError("ticket", model.ID)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *TicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("number = ?", number))
}

func (r *TicketRepository) getOne(query *gorm.DB) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Category != nil {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var list []*models.TicketModel
	if err := query.
		Scopes(
			db.OrderBy(allowedTicketOrderByFields, filter.SortBy, filter.SortOrder, "created_at DESC"),
			db.Paginate(filter.Page, filter.PageSize),
		).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list tickets", "error", err)
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(list))
	for _, m := range list {
		t, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, nil
}

type TicketCommentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketCommentRepository(db *gorm.DB) *TicketCommentRepository {
	return &TicketCommentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketCommentRepository) Create(ctx context.Context, c *ticket.Comment) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.CommentToModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

func (r *TicketCommentRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*ticket.Comment, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("ticket_id = ?", ticketID)
	if !includeInternal {
		query = query.Where("is_internal = ?", false)
	}

	var list []*models.TicketCommentModel
	if err := query.Order("created_at ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]*ticket.Comment, 0, len(list))
	for _, m := range list {
		c, err := r.mapper.CommentToEntity(m)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}
