package engine

import (
	"sync"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

// KeyListener receives raw key transitions.
type KeyListener interface {
	KeyDown(key core.Key, at time.Time)
	KeyUp(key core.Key, at time.Time)
}

// InputSource delivers key transitions to at most one attached listener.
type InputSource interface {
	Attach(l KeyListener)
	Detach()
}

type keyHold struct {
	held  time.Duration
	since time.Time
	down  bool
}

// Accumulator turns key press and release timing into held durations that
// the engine drains once per tick. Key events may arrive on any goroutine.
type Accumulator struct {
	mu   sync.Mutex
	keys [2]keyHold
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func slot(k core.Key) (int, bool) {
	switch k {
	case core.KeyLeft:
		return 0, true
	case core.KeyRight:
		return 1, true
	default:
		return 0, false
	}
}

// KeyDown opens a hold. Repeats of a key that is already down are ignored.
func (a *Accumulator) KeyDown(k core.Key, at time.Time) {
	i, ok := slot(k)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.keys[i].down {
		return
	}
	a.keys[i].down = true
	a.keys[i].since = at
}

// KeyUp closes a hold and banks its duration.
func (a *Accumulator) KeyUp(k core.Key, at time.Time) {
	i, ok := slot(k)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	h := &a.keys[i]
	if !h.down {
		return
	}
	if d := at.Sub(h.since); d > 0 {
		h.held += d
	}
	h.down = false
}

// Drain returns right-held minus left-held time since the last drain and
// resets both totals. Keys still down are counted up to now and keep
// accumulating from now.
func (a *Accumulator) Drain(now time.Time) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total [2]time.Duration
	for i := range a.keys {
		h := &a.keys[i]
		total[i] = h.held
		if h.down {
			if d := now.Sub(h.since); d > 0 {
				total[i] += d
			}
			h.since = now
		}
		h.held = 0
	}
	return total[1] - total[0]
}

// Reset forgets all holds.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = [2]keyHold{}
}

// PaddleDelta converts a drained hold duration to pixels.
func PaddleDelta(held, tickInterval time.Duration, paddleSpeed float64) float64 {
	if tickInterval <= 0 {
		return 0
	}
	return float64(held) / float64(tickInterval) * paddleSpeed
}
