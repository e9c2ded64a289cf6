// internal/socket/event.go
package socket

import (
	"encoding/json"
	"time"
)

// EventName identifies a real-time event pushed to a connected client.
type EventName string

const (
	// Payment workflow events
	EventReceivePaymentRequest EventName = "receive_payment_request"
	EventPaymentRequestUpdated EventName = "payment_request_updated"

	// Chat events
	EventReceiveMessage EventName = "receive_message"

	// System events
	EventPing EventName = "ping"
	EventPong EventName = "pong"
	EventAck  EventName = "ack"
)

// Event is the wire envelope for every pushed message.
type Event struct {
	Event     EventName              `json:"event"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// MarshalEvent wraps a payload in the event envelope.
func MarshalEvent(name EventName, payload map[string]interface{}) ([]byte, error) {
	return json.Marshal(Event{
		Event:     name,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
