package calcom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

const SignatureHeader = "X-Cal-Signature-256"

const (
	TriggerBookingCreated     = "BOOKING_CREATED"
	TriggerBookingRescheduled = "BOOKING_RESCHEDULED"
	TriggerBookingCancelled   = "BOOKING_CANCELLED"
	TriggerBookingRejected    = "BOOKING_REJECTED"
	TriggerMeetingEnded       = "MEETING_ENDED"
)

// VerifySignature checks the hex HMAC-SHA256 of body keyed with secret.
func VerifySignature(body []byte, signature, secret string) error {
	if secret == "" {
		return apperrors.NewSignatureInvalidError("webhook secret not configured")
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return apperrors.NewSignatureInvalidError("malformed signature")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return apperrors.NewSignatureInvalidError()
	}
	return nil
}

// Sign computes the signature header value for body. Used by tests and the
// local webhook replay tool.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is a decoded Cal.com webhook delivery.
type WebhookEvent struct {
	TriggerEvent string
	CreatedAt    time.Time
	// OrganizerID is the Cal.com user id of the coach.
	OrganizerID string
	Booking     provider.RemoteBooking
}

type webhookPayload struct {
	TriggerEvent string    `json:"triggerEvent"`
	CreatedAt    time.Time `json:"createdAt"`
	Payload      struct {
		UID                string    `json:"uid"`
		BookingID          int64     `json:"bookingId"`
		Title              string    `json:"title"`
		StartTime          time.Time `json:"startTime"`
		EndTime            time.Time `json:"endTime"`
		Status             string    `json:"status"`
		EventTypeID        int64     `json:"eventTypeId"`
		RescheduleUID      string    `json:"rescheduleUid"`
		CancellationReason string    `json:"cancellationReason"`
		Organizer          struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"organizer"`
		Attendees []attendee     `json:"attendees"`
		Metadata  map[string]any `json:"metadata"`
	} `json:"payload"`
}

// ParseWebhook decodes a delivery body.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode calcom webhook: %w", err)
	}
	if p.TriggerEvent == "" {
		return nil, fmt.Errorf("calcom webhook has no trigger event")
	}

	pl := p.Payload
	b := provider.RemoteBooking{
		UID:                pl.UID,
		Title:              pl.Title,
		StartTime:          pl.StartTime.UTC(),
		EndTime:            pl.EndTime.UTC(),
		Status:             MapStatus(pl.Status),
		CancellationReason: pl.CancellationReason,
		RescheduledFromUID: pl.RescheduleUID,
		Metadata:           pl.Metadata,
	}
	if pl.BookingID != 0 {
		b.ProviderBookingID = strconv.FormatInt(pl.BookingID, 10)
	}
	if pl.EventTypeID != 0 {
		b.EventTypeID = strconv.FormatInt(pl.EventTypeID, 10)
	}
	if url, ok := pl.Metadata["videoCallUrl"].(string); ok {
		b.MeetingURL = url
	}
	if len(pl.Attendees) > 0 {
		b.AttendeeEmail = pl.Attendees[0].Email
		b.AttendeeName = pl.Attendees[0].Name
	}

	switch p.TriggerEvent {
	case TriggerBookingCancelled:
		b.Status = booking.StatusCancelled
	case TriggerBookingRejected:
		b.Status = booking.StatusRejected
	case TriggerMeetingEnded:
		b.Status = booking.StatusCompleted
	}

	ev := &WebhookEvent{
		TriggerEvent: p.TriggerEvent,
		CreatedAt:    p.CreatedAt,
		Booking:      b,
	}
	if pl.Organizer.ID != 0 {
		ev.OrganizerID = strconv.FormatInt(pl.Organizer.ID, 10)
	}
	return ev, nil
}
