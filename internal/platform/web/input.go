package web

import (
	"sync"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
)

// remoteInput forwards key transitions from websocket clients to the
// engine. Browsers send real keydown and keyup pairs, so no hold emulation
// is needed. Only the controlling client's keys are forwarded.
type remoteInput struct {
	mu       sync.Mutex
	listener engine.KeyListener
	held     map[core.Key]bool
	now      func() time.Time
}

func newRemoteInput() *remoteInput {
	return &remoteInput{held: make(map[core.Key]bool), now: time.Now}
}

func (r *remoteInput) Attach(l engine.KeyListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

func (r *remoteInput) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = nil
	clear(r.held)
}

// Key delivers one transition. It reports false for an unknown key name
// or when no game is listening.
func (r *remoteInput) Key(name string, down bool) bool {
	k, ok := core.ParseKey(name)
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return false
	}

	if down {
		r.held[k] = true
		r.listener.KeyDown(k, r.now())
	} else {
		delete(r.held, k)
		r.listener.KeyUp(k, r.now())
	}
	return true
}

// Release lifts every key still held, used when the controlling client
// goes away mid-press.
func (r *remoteInput) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return
	}
	now := r.now()
	for k := range r.held {
		r.listener.KeyUp(k, now)
	}
	clear(r.held)
}
