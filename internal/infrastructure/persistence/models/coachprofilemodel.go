package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

type CoachProfileModel struct {
	UserID                string         `gorm:"primaryKey;size:26"`
	Headline              string         `gorm:"not null;size:160"`
	BioMarkdown           string         `gorm:"not null;default:''"`
	BioHTML               string         `gorm:"column:bio_html;not null;default:''"`
	Specialties           datatypes.JSON `gorm:"not null"`
	HourlyRateCents       int64          `gorm:"not null;default:0;index:idx_coach_profiles_rate"`
	Currency              string         `gorm:"not null;size:3;default:USD"`
	YearsExperience       int            `gorm:"not null;default:0"`
	AcceptingClients      bool           `gorm:"not null;default:true"`
	Provider              string         `gorm:"not null;size:16;default:''"`
	CalcomEventTypeID     *int64
	CalendlySchedulingURL string `gorm:"column:calendly_scheduling_url;not null;default:''"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (CoachProfileModel) TableName() string {
	return constants.TableCoachProfiles
}
