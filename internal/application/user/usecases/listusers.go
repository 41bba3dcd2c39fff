package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type ListUsersUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo domainUser.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, request dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	p := utils.ValidatePagination(request.Page, request.PageSize)

	filter := domainUser.ListFilter{
		Page:      p.Page,
		PageSize:  p.PageSize,
		Search:    request.Search,
		SortOrder: request.Order,
	}
	if request.Role != "" {
		role := authorization.UserRole(request.Role)
		filter.Role = &role
	}

	users, total, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserResponse(u))
	}
	return &dto.ListUsersResponse{
		Users:    out,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
