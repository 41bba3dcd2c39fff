package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

var allowedUserOrderByFields = map[string]bool{
	"email":      true,
	"first_name": true,
	"last_name":  true,
	"role":       true,
	"created_at": true,
	"updated_at": true,
}

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "clerk_user_id", u.ClerkUserID(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Infow("user created", "id", model.ID, "role", model.Role)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db).Unscoped(), &models.UserModel{}, model.ID, model.Version, map[string]any{
		"email":      model.Email,
		"first_name": model.FirstName,
		"last_name":  model.LastName,
		"avatar_url": model.AvatarURL,
		"timezone":   model.Timezone,
		"role":       model.Role,
		"deleted_at": model.DeletedAt,
		"updated_at": model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update user", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return conflictError("user", model.ID)
	}
	return nil
}

// GetByID includes soft-deleted rows so callers can tell deleted from missing.
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) GetByClerkID(ctx context.Context, clerkUserID string) (*user.User, error) {
	return r.getOne(ctx, "clerk_user_id = ?", clerkUserID)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepositoryImpl) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Unscoped().Where(query, arg).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user", "query", query, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}
	var list []*models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to get users by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})

	if filter.Role != nil {
		query = query.Where("role = ?", filter.Role.String())
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("email LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count users", "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var list []*models.UserModel
	if err := query.
		Scopes(
			db.OrderBy(allowedUserOrderByFields, filter.SortBy, filter.SortOrder, "created_at DESC"),
			db.Paginate(filter.Page, filter.PageSize),
		).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
