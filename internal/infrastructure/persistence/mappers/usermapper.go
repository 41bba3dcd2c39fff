package mappers

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/user"
	vo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/authorization"
)

type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid stored email for user %s: %w", model.ID, err)
	}

	var deletedAt *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deletedAt = &t
	}

	return user.ReconstructUser(
		model.ID,
		model.ClerkUserID,
		email,
		model.FirstName,
		model.LastName,
		model.AvatarURL,
		model.Timezone,
		authorization.UserRole(model.Role),
		deletedAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}

	model := &models.UserModel{
		ID:          entity.ID(),
		ClerkUserID: entity.ClerkUserID(),
		Email:       entity.Email().String(),
		FirstName:   entity.FirstName(),
		LastName:    entity.LastName(),
		AvatarURL:   entity.AvatarURL(),
		Timezone:    entity.Timezone(),
		Role:        entity.Role().String(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
	if d := entity.DeletedAt(); d != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *d, Valid: true}
	}
	return model
}

func (m *UserMapperImpl) ToEntities(list []*models.UserModel) ([]*user.User, error) {
	out := make([]*user.User, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
