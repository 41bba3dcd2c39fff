package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// UserModel is the persistence shape of a Clerk-mirrored account.
type UserModel struct {
	ID          string `gorm:"primaryKey;size:26"`
	ClerkUserID string `gorm:"uniqueIndex:idx_users_clerk_user_id;not null;size:64"`
	Email       string `gorm:"uniqueIndex:idx_users_email;not null;size:255"`
	FirstName   string `gorm:"not null;size:100;default:''"`
	LastName    string `gorm:"not null;size:100;default:''"`
	AvatarURL   string `gorm:"not null;default:''"`
	Timezone    string `gorm:"not null;size:64;default:UTC"`
	Role        string `gorm:"not null;size:16;default:mentee;index:idx_users_role"`
	Version     int    `gorm:"not null;default:1"`
	DeletedAt   gorm.DeletedAt
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
