package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

type GoalModel struct {
	ID          string  `gorm:"primaryKey;size:26"`
	MenteeID    string  `gorm:"not null;size:26;index:idx_goals_mentee"`
	CoachID     *string `gorm:"size:26;index:idx_goals_coach"`
	Title       string  `gorm:"not null;size:200"`
	Description string  `gorm:"not null;default:''"`
	Status      string  `gorm:"not null;size:16"`
	Progress    int     `gorm:"not null;default:0"`
	TargetDate  *time.Time
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GoalModel) TableName() string {
	return constants.TableGoals
}
