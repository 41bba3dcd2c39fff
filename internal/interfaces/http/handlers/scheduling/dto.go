package scheduling

import (
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/domain/schedule"
)

type CreateBookingRequest struct {
	CoachID  string    `json:"coach_id" binding:"required,ulid"`
	Start    time.Time `json:"start" binding:"required"`
	TimeZone string    `json:"time_zone" binding:"omitempty,timezone"`
	Notes    string    `json:"notes" binding:"max=2000"`
}

func (r CreateBookingRequest) ToCommand(menteeID string) usecases.CreateBookingCommand {
	return usecases.CreateBookingCommand{
		MenteeID: menteeID,
		CoachID:  r.CoachID,
		Start:    r.Start,
		TimeZone: r.TimeZone,
		Notes:    r.Notes,
	}
}

type ListBookingsRequest struct {
	Status   string `form:"status"`
	Upcoming bool   `form:"upcoming"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func (r ListBookingsRequest) ToQuery(userID string, isAdmin bool) usecases.ListBookingsQuery {
	q := usecases.ListBookingsQuery{
		UserID:    userID,
		IsAdmin:   isAdmin,
		Upcoming:  r.Upcoming,
		Page:      r.Page,
		PageSize:  r.PageSize,
		SortOrder: r.Order,
	}
	for _, s := range strings.Split(r.Status, ",") {
		if s = strings.TrimSpace(s); s != "" {
			q.Statuses = append(q.Statuses, s)
		}
	}
	return q
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type CreateProposalRequest struct {
	Kind   string     `json:"kind" binding:"omitempty,oneof=reschedule cancel"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	Reason string     `json:"reason" binding:"max=500"`
}

func (r CreateProposalRequest) ToCommand(bookingID, userID string) usecases.CreateProposalCommand {
	return usecases.CreateProposalCommand{
		BookingID: bookingID,
		UserID:    userID,
		Kind:      r.Kind,
		Start:     r.Start,
		End:       r.End,
		Reason:    r.Reason,
	}
}

type AvailabilityRequest struct {
	Days      []string `json:"days" binding:"required,min=1,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string   `json:"start_time" binding:"required,len=5"`
	EndTime   string   `json:"end_time" binding:"required,len=5"`
}

type CreateScheduleRequest struct {
	Name         string                `json:"name" binding:"required,max=100"`
	TimeZone     string                `json:"time_zone" binding:"required,timezone"`
	IsDefault    bool                  `json:"is_default"`
	Availability []AvailabilityRequest `json:"availability" binding:"required,min=1,dive"`
}

func (r CreateScheduleRequest) ToCommand(coachID string) usecases.CreateScheduleCommand {
	rules := make([]schedule.AvailabilityRule, 0, len(r.Availability))
	for _, a := range r.Availability {
		rules = append(rules, schedule.AvailabilityRule{Days: a.Days, StartTime: a.StartTime, EndTime: a.EndTime})
	}
	return usecases.CreateScheduleCommand{
		CoachID:      coachID,
		Name:         r.Name,
		TimeZone:     r.TimeZone,
		IsDefault:    r.IsDefault,
		Availability: rules,
	}
}
