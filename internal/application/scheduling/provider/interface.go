// Package provider defines what the scheduling use cases need from Cal.com
// and Calendly. Implementations live in infrastructure/calcom and
// infrastructure/calendly.
package provider

import (
	"context"
	"time"

	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/schedule"
)

// RemoteBooking is a booking as the provider reports it.
type RemoteBooking struct {
	UID                string
	ProviderBookingID  string
	EventTypeID        string
	Title              string
	AttendeeEmail      string
	AttendeeName       string
	StartTime          time.Time
	EndTime            time.Time
	Status             booking.Status
	MeetingURL         string
	CancellationReason string
	RescheduledFromUID string
	Metadata           map[string]any
}

// Snapshot converts the remote view into the shape the booking aggregate
// reconciles against.
func (r RemoteBooking) Snapshot() booking.RemoteSnapshot {
	return booking.RemoteSnapshot{
		Title:              r.Title,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Status:             r.Status,
		MeetingURL:         r.MeetingURL,
		CancellationReason: r.CancellationReason,
	}
}

// Window bounds a booking listing by start time. Local mirrors are swept
// with the same bound, so a client must return every booking starting in it.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

type CreateBookingRequest struct {
	EventTypeID   string
	Start         time.Time
	AttendeeName  string
	AttendeeEmail string
	TimeZone      string
	Metadata      map[string]string
}

// Client is the per-provider surface used by token refresh, sync and the
// booking use cases.
type Client interface {
	Provider() integration.Provider
	// RefreshTokens redeems the integration's refresh token.
	RefreshTokens(ctx context.Context, i *integration.Integration) (integration.Tokens, error)
	ListBookings(ctx context.Context, accessToken string, i *integration.Integration, window Window) ([]RemoteBooking, error)
	CancelBooking(ctx context.Context, accessToken string, b *booking.Booking, reason string) error
	// RescheduleBooking moves b upstream and returns the replacement booking.
	RescheduleBooking(ctx context.Context, accessToken string, b *booking.Booking, start time.Time, reason string) (*RemoteBooking, error)
}

// ForceRefresher is implemented by providers that can mint new tokens for a
// managed user without a valid refresh token.
type ForceRefresher interface {
	ForceRefresh(ctx context.Context, i *integration.Integration) (integration.Tokens, error)
}

// ManagedUser is a Cal.com platform user created for a coach.
type ManagedUser struct {
	ExternalUserID string
	Tokens         integration.Tokens
}

// CalcomClient adds the Cal.com platform operations.
type CalcomClient interface {
	Client
	ForceRefresher
	CreateManagedUser(ctx context.Context, email, name, timeZone string) (*ManagedUser, error)
	CreateBooking(ctx context.Context, accessToken string, req CreateBookingRequest) (*RemoteBooking, error)
	CreateSchedule(ctx context.Context, accessToken string, s ScheduleInput) (int64, error)
	SetDefaultSchedule(ctx context.Context, accessToken string, scheduleID int64) error
	DeleteSchedule(ctx context.Context, accessToken string, scheduleID int64) error
}

type ScheduleInput struct {
	Name         string
	TimeZone     string
	IsDefault    bool
	Availability []schedule.AvailabilityRule
}

// OAuthGrant is the result of a completed Calendly authorization.
type OAuthGrant struct {
	Tokens          integration.Tokens
	UserURI         string
	OrganizationURI string
}

// CalendlyClient adds the OAuth authorization code flow.
type CalendlyClient interface {
	Client
	AuthCodeURL(state, codeChallenge string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*OAuthGrant, error)
}
