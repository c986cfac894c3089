package tui

import (
	"sync"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
)

// Terminals report key presses and auto-repeats but never releases.
// KeyHold turns that stream into down/up transitions: a key counts as held
// until no repeat arrived for a while.
type KeyHold struct {
	// Initial is how long a single press holds, covering the keyboard's
	// auto-repeat delay.
	Initial time.Duration
	// Repeat is how long each auto-repeat extends the hold.
	Repeat time.Duration

	mu       sync.Mutex
	listener engine.KeyListener
	down     bool
	key      core.Key
	repeated bool
	last     time.Time
}

// NewKeyHold creates a key-hold emulator with typical terminal repeat
// timings.
func NewKeyHold() *KeyHold {
	return &KeyHold{Initial: 300 * time.Millisecond, Repeat: 80 * time.Millisecond}
}

// Attach implements engine.InputSource.
func (h *KeyHold) Attach(l engine.KeyListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = l
}

// Detach implements engine.InputSource.
func (h *KeyHold) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = nil
	h.down = false
}

// Press records a key press or auto-repeat. Pressing the other direction
// releases the current one immediately.
func (h *KeyHold) Press(k core.Key, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return
	}

	if h.down && h.key == k {
		h.repeated = true
		h.last = at
		return
	}
	if h.down {
		h.listener.KeyUp(h.key, at)
	}
	h.listener.KeyDown(k, at)
	h.down, h.key, h.repeated, h.last = true, k, false, at
}

// Expire releases the held key if its hold window ended before now. The
// release is stamped at the end of the window, not at now.
func (h *KeyHold) Expire(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.down || h.listener == nil {
		return
	}

	window := h.Initial
	if h.repeated {
		window = h.Repeat
	}
	if end := h.last.Add(window); !end.After(now) {
		h.listener.KeyUp(h.key, end)
		h.down = false
	}
}

// Held reports the key currently held.
func (h *KeyHold) Held() (core.Key, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.key, h.down
}
