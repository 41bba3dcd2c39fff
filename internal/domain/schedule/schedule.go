package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

var validDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// AvailabilityRule is one weekly recurring window, in the schedule's timezone.
type AvailabilityRule struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

func (r AvailabilityRule) Validate() error {
	if len(r.Days) == 0 {
		return fmt.Errorf("availability rule needs at least one day")
	}
	for _, d := range r.Days {
		if !validDays[d] {
			return fmt.Errorf("invalid day: %s", d)
		}
	}
	start, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time: %s", r.StartTime)
	}
	end, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time: %s", r.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// Schedule mirrors a Cal.com availability schedule owned by a coach.
type Schedule struct {
	id               string
	coachID          string
	calcomScheduleID int64
	name             string
	timezone         string
	availability     []AvailabilityRule
	isDefault        bool
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSchedule(coachID string, calcomScheduleID int64, name, timezone string, availability []AvailabilityRule) (*Schedule, error) {
	if coachID == "" {
		return nil, fmt.Errorf("coach ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("name exceeds maximum length of 100 characters")
	}
	if !biztime.ValidTimezone(timezone) {
		return nil, fmt.Errorf("invalid timezone: %s", timezone)
	}
	for _, r := range availability {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if availability == nil {
		availability = []AvailabilityRule{}
	}

	now := biztime.NowUTC()
	return &Schedule{
		id:               id.New(),
		coachID:          coachID,
		calcomScheduleID: calcomScheduleID,
		name:             name,
		timezone:         timezone,
		availability:     availability,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructSchedule(
	scheduleID, coachID string,
	calcomScheduleID int64,
	name, timezone string,
	availability []AvailabilityRule,
	isDefault bool,
	createdAt, updatedAt time.Time,
) *Schedule {
	if availability == nil {
		availability = []AvailabilityRule{}
	}
	return &Schedule{
		id:               scheduleID,
		coachID:          coachID,
		calcomScheduleID: calcomScheduleID,
		name:             name,
		timezone:         timezone,
		availability:     availability,
		isDefault:        isDefault,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (s *Schedule) ID() string              { return s.id }
func (s *Schedule) CoachID() string         { return s.coachID }
func (s *Schedule) CalcomScheduleID() int64 { return s.calcomScheduleID }
func (s *Schedule) Name() string            { return s.name }
func (s *Schedule) Timezone() string        { return s.timezone }
func (s *Schedule) IsDefault() bool         { return s.isDefault }
func (s *Schedule) CreatedAt() time.Time    { return s.createdAt }
func (s *Schedule) UpdatedAt() time.Time    { return s.updatedAt }

func (s *Schedule) Availability() []AvailabilityRule {
	out := make([]AvailabilityRule, len(s.availability))
	copy(out, s.availability)
	return out
}

func (s *Schedule) MarkDefault() {
	s.isDefault = true
	s.updatedAt = biztime.NowUTC()
}

// CanDelete rejects removal of the default schedule.
func (s *Schedule) CanDelete() error {
	if s.isDefault {
		return fmt.Errorf("the default schedule cannot be deleted")
	}
	return nil
}

func (s *Schedule) IsOwnedBy(coachID string) bool {
	return s.coachID == coachID
}
