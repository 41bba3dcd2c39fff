package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/goal"
)

type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	CoachID     *string    `json:"coach_id,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}

type UpdateGoalRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	CoachID     *string    `json:"coach_id,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Status      string     `json:"status,omitempty" binding:"omitempty,oneof=active completed archived"`
}

type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required,min=0,max=100"`
}

type GoalDTO struct {
	ID          string     `json:"id"`
	MenteeID    string     `json:"mentee_id"`
	CoachID     *string    `json:"coach_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListGoalsResponse struct {
	Goals    []*GoalDTO `json:"goals"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

func ToGoalDTO(g *goal.Goal) *GoalDTO {
	return &GoalDTO{
		ID:          g.ID(),
		MenteeID:    g.MenteeID(),
		CoachID:     g.CoachID(),
		Title:       g.Title(),
		Description: g.Description(),
		Status:      string(g.Status()),
		Progress:    g.Progress(),
		TargetDate:  g.TargetDate(),
		CreatedAt:   g.CreatedAt(),
		UpdatedAt:   g.UpdatedAt(),
	}
}
