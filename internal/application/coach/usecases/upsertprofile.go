package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/richtext"
)

// UpsertProfileUseCase creates or replaces the caller's coach profile.
type UpsertProfileUseCase struct {
	userRepo    domainUser.Repository
	profileRepo coach.ProfileRepository
	renderer    richtext.Renderer
	cache       ListingCache
	logger      logger.Interface
}

func NewUpsertProfileUseCase(
	userRepo domainUser.Repository,
	profileRepo coach.ProfileRepository,
	renderer richtext.Renderer,
	cache ListingCache,
	logger logger.Interface,
) *UpsertProfileUseCase {
	return &UpsertProfileUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *UpsertProfileUseCase) Execute(ctx context.Context, userID string, req dto.UpsertProfileRequest) (*dto.CoachDTO, error) {
	uc.logger.Infow("executing upsert coach profile use case", "user_id", userID)

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}
	if !u.IsCoach() {
		return nil, errors.NewForbiddenError("only coaches have a profile")
	}

	bioHTML, err := uc.renderer.Render(req.BioMarkdown)
	if err != nil {
		return nil, errors.NewValidationError("invalid bio", err.Error())
	}

	in := coach.ProfileInput{
		Headline:              req.Headline,
		BioMarkdown:           req.BioMarkdown,
		BioHTML:               bioHTML,
		Specialties:           req.Specialties,
		HourlyRateCents:       req.HourlyRateCents,
		Currency:              req.Currency,
		YearsExperience:       req.YearsExperience,
		AcceptingClients:      req.AcceptingClients,
		Provider:              coach.ProviderNone,
		CalcomEventTypeID:     req.CalcomEventTypeID,
		CalendlySchedulingURL: req.CalendlySchedulingURL,
	}
	if req.Provider != "" {
		in.Provider = integration.Provider(req.Provider)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coach profile: %w", err)
	}
	if p == nil {
		p, err = coach.NewProfile(userID, in)
	} else {
		err = p.Update(in)
	}
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		uc.logger.Errorw("failed to save coach profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save coach profile: %w", err)
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warnw("failed to invalidate coach listing cache", "error", err)
	}

	uc.logger.Infow("coach profile saved", "user_id", userID, "bookable", p.IsBookable())
	return dto.ToCoachDTO(p, u), nil
}
