package socket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	mu        sync.Mutex
	delivered [][]byte
	accept    bool
}

func newStubChannel() *stubChannel {
	return &stubChannel{accept: true}
}

func (c *stubChannel) Deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.accept {
		return false
	}
	c.delivered = append(c.delivered, data)
	return true
}

func (c *stubChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delivered)
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	ch := newStubChannel()

	r.Register("u1", ch)

	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, Channel(ch), got)
	assert.True(t, r.IsOnline("u1"))
	assert.False(t, r.IsOnline("u2"))
	assert.Equal(t, 1, r.OnlineCount())
}

func TestRegisterReplacesExistingChannel(t *testing.T) {
	r := NewRegistry()
	old := newStubChannel()
	fresh := newStubChannel()

	r.Register("u1", old)
	r.Register("u1", fresh)

	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, Channel(fresh), got)
	assert.Equal(t, 1, r.OnlineCount())
}

func TestUnregisterIsIdentityChecked(t *testing.T) {
	r := NewRegistry()
	old := newStubChannel()
	fresh := newStubChannel()

	// The user reconnects before the old connection's teardown runs.
	r.Register("u1", old)
	r.Register("u1", fresh)

	// The stale teardown must not evict the new session.
	r.Unregister("u1", old)
	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, Channel(fresh), got)

	// The matching teardown does.
	r.Unregister("u1", fresh)
	_, ok = r.Lookup("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.OnlineCount())
}

func TestUnregisterUnknownUserIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister("ghost", newStubChannel())
	assert.Equal(t, 0, r.OnlineCount())
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ch := newStubChannel()
				r.Register("u1", ch)
				r.Unregister("u1", ch)
			}
		}()
	}
	wg.Wait()

	// Every goroutine unregistered what it registered, or was replaced
	// first; either way nothing may leak.
	assert.Equal(t, 0, r.OnlineCount())
}
