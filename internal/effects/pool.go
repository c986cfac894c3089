package effects

import "time"

// Slot is one pooled animation.
type Slot[T any] struct {
	Value    T
	Start    time.Time
	Duration time.Duration
	live     bool
}

// Progress returns how far through its animation the slot is, in [0, 1].
func (s Slot[T]) Progress(now time.Time) float64 {
	if s.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(s.Start)) / float64(s.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Pool is a fixed set of animation slots reused round-robin.
// Acquiring a slot that is still animating cancels that animation
// immediately; nothing is ever queued.
type Pool[T any] struct {
	slots     []Slot[T]
	next      int
	cancelled int
}

// NewPool creates a pool with size slots.
func NewPool[T any](size int) *Pool[T] {
	if size < 1 {
		size = 1
	}
	return &Pool[T]{slots: make([]Slot[T], size)}
}

// Acquire places v in the next slot. It returns true when a live animation
// had to be cancelled to make room.
func (p *Pool[T]) Acquire(v T, start time.Time, d time.Duration) bool {
	slot := &p.slots[p.next]
	wasLive := slot.live && start.Before(slot.Start.Add(slot.Duration))
	if wasLive {
		p.cancelled++
	}

	*slot = Slot[T]{Value: v, Start: start, Duration: d, live: true}
	p.next = (p.next + 1) % len(p.slots)
	return wasLive
}

// Each calls fn for every slot still animating at now. Finished slots are
// released as a side effect.
func (p *Pool[T]) Each(now time.Time, fn func(s Slot[T])) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.live {
			continue
		}
		if now.After(s.Start.Add(s.Duration)) {
			s.live = false
			continue
		}
		fn(*s)
	}
}

// Live counts slots that are still animating at now.
func (p *Pool[T]) Live(now time.Time) int {
	n := 0
	p.Each(now, func(Slot[T]) { n++ })
	return n
}

// Cap returns the number of slots.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}

// Cancelled returns how many animations were cut short by Acquire.
func (p *Pool[T]) Cancelled() int {
	return p.cancelled
}

// Reset releases every slot.
func (p *Pool[T]) Reset() {
	for i := range p.slots {
		p.slots[i] = Slot[T]{}
	}
	p.next = 0
}
