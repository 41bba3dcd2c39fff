package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// ListCoachesUseCase serves the public coach directory through the listing cache.
type ListCoachesUseCase struct {
	userRepo    domainUser.Repository
	profileRepo coach.ProfileRepository
	cache       ListingCache
	logger      logger.Interface
}

func NewListCoachesUseCase(
	userRepo domainUser.Repository,
	profileRepo coach.ProfileRepository,
	cache ListingCache,
	logger logger.Interface,
) *ListCoachesUseCase {
	return &ListCoachesUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *ListCoachesUseCase) Execute(ctx context.Context, req dto.ListCoachesRequest) (*dto.ListCoachesResponse, error) {
	p := utils.ValidatePagination(req.Page, req.PageSize)
	req.Page, req.PageSize = p.Page, p.PageSize
	if req.MinRateCents != nil && req.MaxRateCents != nil && *req.MinRateCents > *req.MaxRateCents {
		return nil, errors.NewValidationError("min_rate cannot exceed max_rate")
	}

	cacheKey, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}
	if cached, err := uc.cache.Get(ctx, string(cacheKey)); err != nil {
		uc.logger.Warnw("coach listing cache read failed", "error", err)
	} else if cached != nil {
		var resp dto.ListCoachesResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	filter := coach.ListFilter{
		Page:          req.Page,
		PageSize:      req.PageSize,
		Specialty:     req.Specialty,
		MinRateCents:  req.MinRateCents,
		MaxRateCents:  req.MaxRateCents,
		OnlyAccepting: true,
		SortBy:        req.Sort,
		SortOrder:     req.Order,
	}
	if req.Provider != "" {
		prov, err := integration.ParseProvider(req.Provider)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Provider = &prov
	}

	profiles, total, err := uc.profileRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list coach profiles", "error", err)
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}

	ids := make([]string, 0, len(profiles))
	for _, prof := range profiles {
		ids = append(ids, prof.UserID())
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load coaches: %w", err)
	}
	byID := make(map[string]*domainUser.User, len(users))
	for _, u := range users {
		byID[u.ID()] = u
	}

	resp := &dto.ListCoachesResponse{
		Coaches:  make([]*dto.CoachDTO, 0, len(profiles)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	for _, prof := range profiles {
		resp.Coaches = append(resp.Coaches, dto.ToCoachDTO(prof, byID[prof.UserID()]))
	}

	if page, err := json.Marshal(resp); err == nil {
		if err := uc.cache.Set(ctx, string(cacheKey), page); err != nil {
			uc.logger.Warnw("coach listing cache write failed", "error", err)
		}
	}
	return resp, nil
}
