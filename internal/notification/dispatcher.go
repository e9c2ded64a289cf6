// Package notification pushes real-time events to online users.
package notification

import (
	"log"

	"github.com/fintrackhq/fintrack-backend/internal/socket"
)

// Dispatcher delivers an event to a user's live channel if one is
// registered, and drops it otherwise. At-most-once: there is no queue,
// no retry, and no redelivery after reconnect. Dispatch never blocks or
// fails the action that triggered it.
type Dispatcher struct {
	registry *socket.Registry
}

func NewDispatcher(registry *socket.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Notify pushes (event, payload) to userID's channel when the user is
// online. Offline users and full buffers are logged and dropped.
func (d *Dispatcher) Notify(userID string, event socket.EventName, payload map[string]interface{}) {
	ch, ok := d.registry.Lookup(userID)
	if !ok {
		log.Printf("[Dispatcher] User offline, dropping event: user=%s event=%s", userID, event)
		return
	}

	data, err := socket.MarshalEvent(event, payload)
	if err != nil {
		log.Printf("[Dispatcher] Error marshaling event %s: %v", event, err)
		return
	}

	if !ch.Deliver(data) {
		log.Printf("[Dispatcher] Delivery failed, dropping event: user=%s event=%s", userID, event)
	}
}
