package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

type Source string

const (
	SourceCalcom   Source = "calcom"
	SourceCalendly Source = "calendly"
	SourceStripe   Source = "stripe"
	SourceClerk    Source = "clerk"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceCalcom, SourceCalendly, SourceStripe, SourceClerk:
		return true
	}
	return false
}

type Status string

const (
	StatusReceived  Status = "received"
	StatusProcessed Status = "processed"
	StatusIgnored   Status = "ignored"
	StatusFailed    Status = "failed"
)

// Event is the idempotency log entry for an inbound webhook delivery.
type Event struct {
	id          string
	source      Source
	dedupKey    string
	eventType   string
	payload     []byte
	status      Status
	lastError   string
	processedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEvent records a delivery. externalID is the provider's delivery id; when
// the provider sends none the payload hash is used instead.
func NewEvent(source Source, externalID, eventType string, payload []byte) (*Event, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid webhook source: %s", source)
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	key := externalID
	if key == "" {
		key = PayloadHash(payload)
	}
	now := biztime.NowUTC()
	return &Event{
		id:        id.New(),
		source:    source,
		dedupKey:  key,
		eventType: eventType,
		payload:   payload,
		status:    StatusReceived,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructEvent(eventID string, source Source, dedupKey, eventType string, payload []byte, status Status, lastError string, processedAt *time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		id:          eventID,
		source:      source,
		dedupKey:    dedupKey,
		eventType:   eventType,
		payload:     payload,
		status:      status,
		lastError:   lastError,
		processedAt: processedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// PayloadHash returns the hex SHA-256 of payload.
func PayloadHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (e *Event) ID() string              { return e.id }
func (e *Event) Source() Source          { return e.source }
func (e *Event) DedupKey() string        { return e.dedupKey }
func (e *Event) EventType() string       { return e.eventType }
func (e *Event) Payload() []byte         { return e.payload }
func (e *Event) Status() Status          { return e.status }
func (e *Event) LastError() string       { return e.lastError }
func (e *Event) ProcessedAt() *time.Time { return e.processedAt }
func (e *Event) CreatedAt() time.Time    { return e.createdAt }
func (e *Event) UpdatedAt() time.Time    { return e.updatedAt }

// IsHandled reports whether a redelivery can be acknowledged without work.
func (e *Event) IsHandled() bool {
	return e.status == StatusProcessed || e.status == StatusIgnored
}

func (e *Event) MarkProcessed() {
	e.finish(StatusProcessed, "")
}

func (e *Event) MarkIgnored() {
	e.finish(StatusIgnored, "")
}

func (e *Event) MarkFailed(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	e.finish(StatusFailed, msg)
}

func (e *Event) finish(status Status, lastError string) {
	now := biztime.NowUTC()
	e.status = status
	e.lastError = lastError
	e.processedAt = &now
	e.updatedAt = now
}
