package events

import (
	"strings"
	"time"
)

const (
	TypePaymentConfirmed = "PAYMENT_CONFIRMED"
	TypePaymentFailed    = "PAYMENT_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PAYMENT_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject maps an event type to a dotted subject, PAYMENT_CONFIRMED -> payment.confirmed.
func Subject(e Event) string {
	return strings.ToLower(strings.ReplaceAll(e.EventType(), "_", "."))
}

func NewPaymentEvent(eventType, correlationId, orderId, grossAmount string) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"correlation_id": correlationId,
			"order_id":       orderId,
			"gross_amount":   grossAmount,
			"occurred_at":    now,
		},
		OccurredAt: now,
	}
}
