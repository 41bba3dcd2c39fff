package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// BookingModel is the local mirror of a provider booking.
type BookingModel struct {
	ID                 string    `gorm:"primaryKey;size:26"`
	UID                string    `gorm:"column:uid;uniqueIndex:idx_bookings_uid;not null;size:255"`
	Provider           string    `gorm:"not null;size:16;index:idx_bookings_provider_id,priority:1"`
	ProviderBookingID  string    `gorm:"not null;size:255;default:'';index:idx_bookings_provider_id,priority:2"`
	CoachID            string    `gorm:"not null;size:26;index:idx_bookings_coach_start,priority:1"`
	MenteeID           *string   `gorm:"size:26;index:idx_bookings_mentee_start,priority:1"`
	AttendeeEmail      string    `gorm:"not null;size:255;default:''"`
	AttendeeName       string    `gorm:"not null;size:255;default:''"`
	EventTypeID        string    `gorm:"not null;size:255;default:''"`
	Title              string    `gorm:"not null;size:255;default:''"`
	StartTime          time.Time `gorm:"not null;index:idx_bookings_coach_start,priority:2;index:idx_bookings_mentee_start,priority:2"`
	EndTime            time.Time `gorm:"not null;index:idx_bookings_status_end,priority:2"`
	Status             string    `gorm:"not null;size:16;index:idx_bookings_status_end,priority:1"`
	MeetingURL         string    `gorm:"column:meeting_url;not null;default:''"`
	CancellationReason string    `gorm:"not null;default:''"`
	CancelledBy        *string   `gorm:"size:26"`
	RescheduledFromUID string    `gorm:"column:rescheduled_from_uid;not null;size:255;default:''"`
	Metadata           datatypes.JSON
	Version            int `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (BookingModel) TableName() string {
	return constants.TableBookings
}

type BookingProposalModel struct {
	ID            string `gorm:"primaryKey;size:26"`
	BookingID     string `gorm:"not null;size:26;uniqueIndex:idx_booking_proposals_one_pending,where:status = 'pending'"`
	ProposedBy    string `gorm:"not null;size:26"`
	Kind          string `gorm:"not null;size:16"`
	ProposedStart *time.Time
	ProposedEnd   *time.Time
	Reason        string    `gorm:"not null;default:''"`
	Status        string    `gorm:"not null;size:16;index:idx_booking_proposals_expiry,priority:1"`
	ExpiresAt     time.Time `gorm:"not null;index:idx_booking_proposals_expiry,priority:2"`
	RespondedBy   *string   `gorm:"size:26"`
	RespondedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (BookingProposalModel) TableName() string {
	return constants.TableBookingProposals
}
