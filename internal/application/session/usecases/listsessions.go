package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ListSessionsQuery struct {
	UserID    string
	IsAdmin   bool
	Status    string
	Page      int
	PageSize  int
	SortOrder string
}

type ListSessionsResult struct {
	Sessions []*dto.SessionDTO `json:"sessions"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type ListSessionsUseCase struct {
	sessionRepo session.Repository
	logger      logger.Interface
}

func NewListSessionsUseCase(sessionRepo session.Repository, logger logger.Interface) *ListSessionsUseCase {
	return &ListSessionsUseCase{sessionRepo: sessionRepo, logger: logger}
}

func (uc *ListSessionsUseCase) Execute(ctx context.Context, query ListSessionsQuery) (*ListSessionsResult, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := session.ListFilter{
		Page:      p.Page,
		PageSize:  p.PageSize,
		SortOrder: query.SortOrder,
	}
	if !query.IsAdmin {
		filter.ParticipantID = query.UserID
	}
	if query.Status != "" {
		st := session.Status(query.Status)
		if !st.IsValid() {
			return nil, errors.NewValidationError("invalid session status", query.Status)
		}
		filter.Status = &st
	}

	items, total, err := uc.sessionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list sessions", "user_id", query.UserID, "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]*dto.SessionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, dto.ToSessionDTO(s, query.UserID, query.IsAdmin))
	}
	return &ListSessionsResult{Sessions: out, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}
