package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/constants"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

var allowedCoachOrderByFields = map[string]bool{
	"hourly_rate_cents": true,
	"years_experience":  true,
	"created_at":        true,
	"updated_at":        true,
}

type CoachProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CoachProfileMapper
	logger logger.Interface
}

func NewCoachProfileRepository(db *gorm.DB, logger logger.Interface) coach.ProfileRepository {
	return &CoachProfileRepositoryImpl{
		db:     db,
		mapper: mappers.NewCoachProfileMapper(),
		logger: logger,
	}
}

func (r *CoachProfileRepositoryImpl) Upsert(ctx context.Context, p *coach.Profile) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return fmt.Errorf("failed to map coach profile: %w", err)
	}

	err = db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"headline", "bio_markdown", "bio_html", "specialties", "hourly_rate_cents",
				"currency", "years_experience", "accepting_clients", "provider",
				"calcom_event_type_id", "calendly_scheduling_url", "updated_at",
			}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert coach profile", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to upsert coach profile: %w", err)
	}
	return nil
}

func (r *CoachProfileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*coach.Profile, error) {
	var model models.CoachProfileModel
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get coach profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get coach profile: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// List only returns profiles whose owner still holds the coach role.
func (r *CoachProfileRepositoryImpl) List(ctx context.Context, filter coach.ListFilter) ([]*coach.Profile, int64, error) {
	profiles := constants.TableCoachProfiles
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.CoachProfileModel{}).
		Joins(fmt.Sprintf("JOIN %s u ON u.id = %s.user_id AND u.deleted_at IS NULL AND u.role = ?", constants.TableUsers, profiles), "coach")

	if filter.OnlyAccepting {
		query = query.Where(profiles+".accepting_clients = ?", true)
	}
	if filter.Provider != nil {
		query = query.Where(profiles+".provider = ?", filter.Provider.String())
	}
	if filter.MinRateCents != nil {
		query = query.Where(profiles+".hourly_rate_cents >= ?", *filter.MinRateCents)
	}
	if filter.MaxRateCents != nil {
		query = query.Where(profiles+".hourly_rate_cents <= ?", *filter.MaxRateCents)
	}
	if s := strings.TrimSpace(filter.Specialty); s != "" {
		// specialties is a JSON array of title-cased strings
		query = query.Where("LOWER(CAST("+profiles+".specialties AS TEXT)) LIKE ?", "%\""+strings.ToLower(s)+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count coach profiles", "error", err)
		return nil, 0, fmt.Errorf("failed to count coach profiles: %w", err)
	}

	sortBy := filter.SortBy
	if allowedCoachOrderByFields[strings.ToLower(sortBy)] {
		sortBy = profiles + "." + strings.ToLower(sortBy)
	}
	allowed := make(map[string]bool, len(allowedCoachOrderByFields))
	for f := range allowedCoachOrderByFields {
		allowed[profiles+"."+f] = true
	}

	var list []*models.CoachProfileModel
	if err := query.
		Scopes(
			db.OrderBy(allowed, sortBy, filter.SortOrder, profiles+".updated_at DESC"),
			db.Paginate(filter.Page, filter.PageSize),
		).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list coach profiles", "error", err)
		return nil, 0, fmt.Errorf("failed to list coach profiles: %w", err)
	}

	out := make([]*coach.Profile, 0, len(list))
	for _, m := range list {
		p, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}
