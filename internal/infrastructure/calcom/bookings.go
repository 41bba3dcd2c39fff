package calcom

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
)

const (
	listPageSize = 100
	// maxBookingSpan widens the end bound of a listing so bookings that start
	// inside the window but end after it are still returned.
	maxBookingSpan = 24 * time.Hour
)

type attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone,omitempty"`
}

type bookingData struct {
	ID                 int64          `json:"id"`
	UID                string         `json:"uid"`
	Title              string         `json:"title"`
	Status             string         `json:"status"`
	Start              time.Time      `json:"start"`
	End                time.Time      `json:"end"`
	EventTypeID        int64          `json:"eventTypeId"`
	MeetingURL         string         `json:"meetingUrl"`
	Location           string         `json:"location"`
	CancellationReason string         `json:"cancellationReason"`
	RescheduledFromUID string         `json:"rescheduledFromUid"`
	Attendees          []attendee     `json:"attendees"`
	Metadata           map[string]any `json:"metadata"`
}

func (b bookingData) remote() provider.RemoteBooking {
	r := provider.RemoteBooking{
		UID:                b.UID,
		ProviderBookingID:  strconv.FormatInt(b.ID, 10),
		Title:              b.Title,
		StartTime:          b.Start.UTC(),
		EndTime:            b.End.UTC(),
		Status:             MapStatus(b.Status),
		MeetingURL:         b.MeetingURL,
		CancellationReason: b.CancellationReason,
		RescheduledFromUID: b.RescheduledFromUID,
		Metadata:           b.Metadata,
	}
	if b.EventTypeID != 0 {
		r.EventTypeID = strconv.FormatInt(b.EventTypeID, 10)
	}
	if r.MeetingURL == "" && strings.HasPrefix(b.Location, "http") {
		r.MeetingURL = b.Location
	}
	if len(b.Attendees) > 0 {
		r.AttendeeEmail = b.Attendees[0].Email
		r.AttendeeName = b.Attendees[0].Name
	}
	return r
}

// MapStatus translates a Cal.com booking status. Unknown values map to
// pending so the mirror is never advanced on a guess.
func MapStatus(s string) booking.Status {
	switch strings.ToLower(s) {
	case "accepted":
		return booking.StatusAccepted
	case "cancelled", "canceled":
		return booking.StatusCancelled
	case "rejected":
		return booking.StatusRejected
	default:
		return booking.StatusPending
	}
}

func (c *Client) ListBookings(ctx context.Context, accessToken string, i *integration.Integration, window provider.Window) ([]provider.RemoteBooking, error) {
	var out []provider.RemoteBooking
	for skip := 0; ; skip += listPageSize {
		var page []bookingData
		env, err := c.do(ctx, request{
			op:          "list bookings",
			method:      http.MethodGet,
			path:        "/v2/bookings",
			accessToken: accessToken,
			limiterKey:  i.ID(),
			query: map[string]string{
				"afterStart": window.From.UTC().Format(time.RFC3339),
				"beforeEnd":  window.To.Add(maxBookingSpan).UTC().Format(time.RFC3339),
				"take":       strconv.Itoa(listPageSize),
				"skip":       strconv.Itoa(skip),
			},
		}, &page)
		if err != nil {
			return nil, err
		}
		for _, b := range page {
			if !window.Contains(b.Start) {
				continue
			}
			out = append(out, b.remote())
		}
		if env.Pagination == nil || !env.Pagination.HasNextPage || len(page) == 0 {
			return out, nil
		}
	}
}

func (c *Client) CreateBooking(ctx context.Context, accessToken string, req provider.CreateBookingRequest) (*provider.RemoteBooking, error) {
	eventTypeID, err := strconv.ParseInt(req.EventTypeID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cal.com event type id %q", req.EventTypeID)
	}
	var data bookingData
	_, err = c.do(ctx, request{
		op:          "create booking",
		method:      http.MethodPost,
		path:        "/v2/bookings",
		accessToken: accessToken,
		body: map[string]any{
			"start":       req.Start.UTC().Format(time.RFC3339),
			"eventTypeId": eventTypeID,
			"attendee": attendee{
				Name:     req.AttendeeName,
				Email:    req.AttendeeEmail,
				TimeZone: req.TimeZone,
			},
			"metadata": req.Metadata,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	r := data.remote()
	return &r, nil
}

func (c *Client) CancelBooking(ctx context.Context, accessToken string, b *booking.Booking, reason string) error {
	_, err := c.do(ctx, request{
		op:          "cancel booking",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/v2/bookings/%s/cancel", b.UID()),
		accessToken: accessToken,
		body:        map[string]string{"cancellationReason": reason},
	}, nil)
	return err
}

func (c *Client) RescheduleBooking(ctx context.Context, accessToken string, b *booking.Booking, start time.Time, reason string) (*provider.RemoteBooking, error) {
	var data bookingData
	_, err := c.do(ctx, request{
		op:          "reschedule booking",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/v2/bookings/%s/reschedule", b.UID()),
		accessToken: accessToken,
		body: map[string]string{
			"start":              start.UTC().Format(time.RFC3339),
			"reschedulingReason": reason,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	r := data.remote()
	if r.RescheduledFromUID == "" {
		r.RescheduledFromUID = b.UID()
	}
	return &r, nil
}
