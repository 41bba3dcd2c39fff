package calendly

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
)

type scheduledEvent struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	EventType string    `json:"event_type"`
	Location  struct {
		JoinURL  string `json:"join_url"`
		Location string `json:"location"`
	} `json:"location"`
	Cancellation *struct {
		Reason string `json:"reason"`
	} `json:"cancellation"`
}

type invitee struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type pagination struct {
	NextPageToken string `json:"next_page_token"`
}

// MapStatus translates a Calendly event status.
func MapStatus(s string) booking.Status {
	switch strings.ToLower(s) {
	case "active":
		return booking.StatusAccepted
	case "canceled", "cancelled":
		return booking.StatusCancelled
	default:
		return booking.StatusPending
	}
}

// EventUUID returns the trailing UUID of a scheduled event URI.
func EventUUID(uri string) string {
	return path.Base(strings.TrimRight(uri, "/"))
}

// InviteeEventUUID extracts the scheduled event UUID from an invitee URI of
// the form .../scheduled_events/{uuid}/invitees/{uuid}.
func InviteeEventUUID(inviteeURI string) string {
	parts := strings.Split(strings.TrimRight(inviteeURI, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "scheduled_events" {
			return parts[i+1]
		}
	}
	return ""
}

func (e scheduledEvent) remote() provider.RemoteBooking {
	r := provider.RemoteBooking{
		UID:               EventUUID(e.URI),
		ProviderBookingID: e.URI,
		EventTypeID:       e.EventType,
		Title:             e.Name,
		StartTime:         e.StartTime.UTC(),
		EndTime:           e.EndTime.UTC(),
		Status:            MapStatus(e.Status),
		MeetingURL:        e.Location.JoinURL,
	}
	if r.MeetingURL == "" && strings.HasPrefix(e.Location.Location, "http") {
		r.MeetingURL = e.Location.Location
	}
	if e.Cancellation != nil {
		r.CancellationReason = e.Cancellation.Reason
	}
	return r
}

func (c *Client) ListBookings(ctx context.Context, accessToken string, i *integration.Integration, window provider.Window) ([]provider.RemoteBooking, error) {
	query := url.Values{
		"user":           {i.ExternalUserID()},
		"min_start_time": {window.From.UTC().Format(time.RFC3339)},
		"max_start_time": {window.To.UTC().Format(time.RFC3339)},
		"count":          {strconv.Itoa(listPageSize)},
	}

	var out []provider.RemoteBooking
	for {
		var page struct {
			Collection []scheduledEvent `json:"collection"`
			Pagination pagination       `json:"pagination"`
		}
		if err := c.do(ctx, "list events", http.MethodGet, c.endpoint("/scheduled_events", query), accessToken, i.ID(), nil, &page); err != nil {
			return nil, err
		}
		for _, ev := range page.Collection {
			r := ev.remote()
			inv, err := c.firstInvitee(ctx, accessToken, i.ID(), ev.URI)
			if err != nil {
				return nil, err
			}
			if inv != nil {
				r.AttendeeEmail = inv.Email
				r.AttendeeName = inv.Name
			}
			out = append(out, r)
		}
		if page.Pagination.NextPageToken == "" {
			return out, nil
		}
		query.Set("page_token", page.Pagination.NextPageToken)
	}
}

func (c *Client) firstInvitee(ctx context.Context, accessToken, limiterKey, eventURI string) (*invitee, error) {
	var page struct {
		Collection []invitee `json:"collection"`
	}
	endpoint := c.endpoint("/scheduled_events/"+EventUUID(eventURI)+"/invitees", url.Values{"count": {"1"}})
	if err := c.do(ctx, "list invitees", http.MethodGet, endpoint, accessToken, limiterKey, nil, &page); err != nil {
		return nil, err
	}
	if len(page.Collection) == 0 {
		return nil, nil
	}
	return &page.Collection[0], nil
}

func (c *Client) CancelBooking(ctx context.Context, accessToken string, b *booking.Booking, reason string) error {
	endpoint := c.endpoint(fmt.Sprintf("/scheduled_events/%s/cancellation", b.UID()), nil)
	return c.do(ctx, "cancel event", http.MethodPost, endpoint, accessToken, b.CoachID(), map[string]string{"reason": reason}, nil)
}

// RescheduleBooking is not offered by the Calendly API; invitees reschedule
// through Calendly's own pages.
func (c *Client) RescheduleBooking(context.Context, string, *booking.Booking, time.Time, string) (*provider.RemoteBooking, error) {
	return nil, provider.ErrUnsupported
}
