// internal/socket/registry.go
package socket

import (
	"log"
	"sync"
)

// Channel is a live delivery endpoint for one connected user.
type Channel interface {
	// Deliver queues data for the connection without blocking.
	// It returns false when the channel cannot accept the message.
	Deliver(data []byte) bool
}

// Registry maps an authenticated user to its single live channel. A user
// reconnecting replaces the previous mapping; the replaced channel is not
// closed or notified here, its own pumps tear it down.
//
// The registry holds no persistent state and is rebuilt empty on restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Channel
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Channel),
	}
}

// Register installs ch as the live channel for userID, replacing any
// prior channel (last writer wins).
func (r *Registry) Register(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[userID] = ch
	log.Printf("[Registry] Session registered: user=%s total=%d", userID, len(r.sessions))
}

// Unregister removes the mapping for userID only when ch is still the
// installed channel. A slow disconnect of an old channel must never evict
// a newer registration for the same user, so removal is by identity, not
// by key alone.
func (r *Registry) Unregister(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[userID]; ok && current == ch {
		delete(r.sessions, userID)
		log.Printf("[Registry] Session removed: user=%s total=%d", userID, len(r.sessions))
	}
}

// Lookup returns the live channel for userID, if any. Non-blocking.
func (r *Registry) Lookup(userID string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.sessions[userID]
	return ch, ok
}

// IsOnline reports whether userID has a registered channel.
func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.Lookup(userID)
	return ok
}

// OnlineCount returns the number of registered sessions.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
