package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/user"
)

type UpsertProfileRequest struct {
	Headline              string   `json:"headline" binding:"required,max=160"`
	BioMarkdown           string   `json:"bio" binding:"max=10000"`
	Specialties           []string `json:"specialties" binding:"max=10,dive,max=48"`
	HourlyRateCents       int64    `json:"hourly_rate_cents" binding:"gte=0"`
	Currency              string   `json:"currency" binding:"omitempty,len=3"`
	YearsExperience       int      `json:"years_experience" binding:"gte=0,lte=80"`
	AcceptingClients      bool     `json:"accepting_clients"`
	Provider              string   `json:"provider" binding:"omitempty,oneof=calcom calendly"`
	CalcomEventTypeID     *int64   `json:"calcom_event_type_id,omitempty"`
	CalendlySchedulingURL string   `json:"calendly_scheduling_url,omitempty" binding:"omitempty,url"`
}

type ListCoachesRequest struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Specialty    string `form:"specialty"`
	MinRateCents *int64 `form:"min_rate"`
	MaxRateCents *int64 `form:"max_rate"`
	Provider     string `form:"provider" binding:"omitempty,oneof=calcom calendly"`
	Sort         string `form:"sort" binding:"omitempty,oneof=rate experience newest"`
	Order        string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type CoachDTO struct {
	UserID                string    `json:"user_id"`
	DisplayName           string    `json:"display_name"`
	AvatarURL             string    `json:"avatar_url,omitempty"`
	Timezone              string    `json:"timezone,omitempty"`
	Headline              string    `json:"headline"`
	Bio                   string    `json:"bio"`
	BioHTML               string    `json:"bio_html"`
	Specialties           []string  `json:"specialties"`
	HourlyRateCents       int64     `json:"hourly_rate_cents"`
	Currency              string    `json:"currency"`
	YearsExperience       int       `json:"years_experience"`
	AcceptingClients      bool      `json:"accepting_clients"`
	Bookable              bool      `json:"bookable"`
	Provider              string    `json:"provider,omitempty"`
	CalendlySchedulingURL string    `json:"calendly_scheduling_url,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type ListCoachesResponse struct {
	Coaches  []*CoachDTO `json:"coaches"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ToCoachDTO joins a profile with its user. u may be nil.
func ToCoachDTO(p *coach.Profile, u *user.User) *CoachDTO {
	d := &CoachDTO{
		UserID:                p.UserID(),
		Headline:              p.Headline(),
		Bio:                   p.BioMarkdown(),
		BioHTML:               p.BioHTML(),
		Specialties:           p.Specialties(),
		HourlyRateCents:       p.HourlyRateCents(),
		Currency:              p.Currency(),
		YearsExperience:       p.YearsExperience(),
		AcceptingClients:      p.AcceptingClients(),
		Bookable:              p.IsBookable(),
		Provider:              string(p.Provider()),
		CalendlySchedulingURL: p.CalendlySchedulingURL(),
		UpdatedAt:             p.UpdatedAt(),
	}
	if u != nil {
		d.DisplayName = u.DisplayName()
		d.AvatarURL = u.AvatarURL()
		d.Timezone = u.Timezone()
	}
	return d
}
