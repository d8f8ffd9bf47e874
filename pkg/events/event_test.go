package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "payment.confirmed", Subject(BaseEvent{Type: TypePaymentConfirmed}))
	assert.Equal(t, "payment.failed", Subject(BaseEvent{Type: TypePaymentFailed}))
}

func TestNewPaymentEvent(t *testing.T) {
	evt := NewPaymentEvent(TypePaymentConfirmed, "abc", "abc-1", "19.00")

	assert.Equal(t, TypePaymentConfirmed, evt.EventType())
	assert.Equal(t, "abc", evt.Payload()["correlation_id"])
	assert.Equal(t, "abc-1", evt.Payload()["order_id"])
	assert.False(t, evt.Timestamp().IsZero())
}
