package calendly

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

const (
	SignatureHeader = "Calendly-Webhook-Signature"
	// SignatureTolerance bounds the age of a signed delivery.
	SignatureTolerance = 3 * time.Minute

	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// VerifySignature checks a "t=<unix>,v1=<hex>" header against the HMAC of
// "<t>.<body>".
func VerifySignature(body []byte, header, signingKey string, now time.Time) error {
	if signingKey == "" {
		return apperrors.NewSignatureInvalidError("webhook signing key not configured")
	}
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return apperrors.NewSignatureInvalidError("malformed signature header")
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return apperrors.NewSignatureInvalidError("malformed signature timestamp")
	}
	signedAt := time.Unix(unix, 0)
	if now.Sub(signedAt) > SignatureTolerance || signedAt.Sub(now) > SignatureTolerance {
		return apperrors.NewSignatureInvalidError("signature timestamp outside tolerance")
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return apperrors.NewSignatureInvalidError("malformed signature")
	}
	if !hmac.Equal(got, computeSignature(ts, body, signingKey)) {
		return apperrors.NewSignatureInvalidError()
	}
	return nil
}

// Sign returns a signature header for body at t.
func Sign(body []byte, signingKey string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(computeSignature(ts, body, signingKey)))
}

func computeSignature(ts string, body []byte, key string) []byte {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// WebhookEvent is a decoded Calendly webhook delivery.
type WebhookEvent struct {
	Event     string
	CreatedAt time.Time
	// InviteeURI identifies the delivery's invitee and doubles as dedup key.
	InviteeURI string
	// OwnerURIs are the Calendly users hosting the event.
	OwnerURIs []string
	// Rescheduled is set on the cancellation half of a reschedule.
	Rescheduled bool
	Booking     provider.RemoteBooking
}

type webhookPayload struct {
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		URI          string `json:"uri"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Status       string `json:"status"`
		Rescheduled  bool   `json:"rescheduled"`
		OldInvitee   string `json:"old_invitee"`
		Cancellation *struct {
			Reason string `json:"reason"`
		} `json:"cancellation"`
		ScheduledEvent struct {
			scheduledEvent
			Memberships []struct {
				User string `json:"user"`
			} `json:"event_memberships"`
		} `json:"scheduled_event"`
	} `json:"payload"`
}

func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode calendly webhook: %w", err)
	}
	if p.Event == "" {
		return nil, fmt.Errorf("calendly webhook has no event")
	}

	se := p.Payload.ScheduledEvent
	b := se.scheduledEvent.remote()
	b.AttendeeEmail = p.Payload.Email
	b.AttendeeName = p.Payload.Name
	if p.Payload.OldInvitee != "" {
		b.RescheduledFromUID = InviteeEventUUID(p.Payload.OldInvitee)
	}
	if p.Event == EventInviteeCanceled {
		b.Status = booking.StatusCancelled
		if p.Payload.Rescheduled {
			b.Status = booking.StatusRescheduled
		}
		if p.Payload.Cancellation != nil {
			b.CancellationReason = p.Payload.Cancellation.Reason
		}
	}

	ev := &WebhookEvent{
		Event:       p.Event,
		CreatedAt:   p.CreatedAt,
		InviteeURI:  p.Payload.URI,
		Rescheduled: p.Payload.Rescheduled,
		Booking:     b,
	}
	for _, m := range se.Memberships {
		if m.User != "" {
			ev.OwnerURIs = append(ev.OwnerURIs, m.User)
		}
	}
	return ev, nil
}
