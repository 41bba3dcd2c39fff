package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

type ScheduleModel struct {
	ID               string         `gorm:"primaryKey;size:26"`
	CoachID          string         `gorm:"not null;size:26;index:idx_schedules_coach"`
	CalcomScheduleID int64          `gorm:"not null"`
	Name             string         `gorm:"not null;size:100"`
	Timezone         string         `gorm:"not null;size:64"`
	Availability     datatypes.JSON `gorm:"not null"`
	IsDefault        bool           `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ScheduleModel) TableName() string {
	return constants.TableSchedules
}
