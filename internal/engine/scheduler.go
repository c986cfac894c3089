package engine

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TickFunc is invoked once per scheduled frame with the frame timestamp.
type TickFunc func(now time.Time)

// Scheduler drives the engine. Tick and timeout callbacks must never run
// concurrently with each other.
type Scheduler interface {
	// ScheduleNextTick arranges for fn to run on the next frame. Only one
	// tick is pending at a time; a new call replaces the previous one.
	ScheduleNextTick(fn TickFunc)
	// ScheduleTimeout runs fn once after d. The returned func cancels it.
	ScheduleTimeout(d time.Duration, fn TickFunc) (cancel func())
	// Cancel drops the pending tick and every pending timeout.
	Cancel()
}

type manualTimer struct {
	at        time.Time
	fn        TickFunc
	seq       int
	cancelled bool
}

// ManualScheduler runs on virtual time. Nothing happens until Step or
// Advance is called, which makes ticks fully deterministic.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	frame  time.Duration
	next   TickFunc
	timers []*manualTimer
	seq    int
}

// NewManualScheduler starts the virtual clock at start; Step advances it
// by frame.
func NewManualScheduler(start time.Time, frame time.Duration) *ManualScheduler {
	return &ManualScheduler{now: start, frame: frame}
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// SetFrame changes the interval Step advances by.
func (s *ManualScheduler) SetFrame(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = d
}

func (s *ManualScheduler) ScheduleNextTick(fn TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = fn
}

func (s *ManualScheduler) ScheduleTimeout(d time.Duration, fn TickFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{at: s.now.Add(d), fn: fn, seq: s.seq}
	s.timers = append(s.timers, t)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

func (s *ManualScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = nil
	for _, t := range s.timers {
		t.cancelled = true
	}
	s.timers = nil
}

// Pending reports whether a tick is waiting to run.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next != nil
}

// PendingTimeouts counts timeouts that have neither fired nor been
// cancelled.
func (s *ManualScheduler) PendingTimeouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timeout that
// became due, in deadline order. The pending tick is not run.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	now := s.now

	var due []*manualTimer
	kept := s.timers[:0]
	for _, t := range s.timers {
		switch {
		case t.cancelled:
		case !t.at.After(now):
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	s.timers = kept
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, t := range due {
		t.fn(now)
	}
}

// Step advances one frame: due timeouts fire first, then the pending tick
// runs. It reports whether a tick ran.
func (s *ManualScheduler) Step() bool {
	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()

	s.Advance(frame)

	s.mu.Lock()
	fn := s.next
	s.next = nil
	now := s.now
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(now)
	return true
}

// Run steps until no tick is pending or limit frames have passed, and
// returns the number of ticks that ran.
func (s *ManualScheduler) Run(limit int) int {
	n := 0
	for i := 0; i < limit; i++ {
		if !s.Pending() {
			break
		}
		if s.Step() {
			n++
		}
	}
	return n
}

// FrameScheduler drives ticks from a real-time ticker. Every callback,
// including timeouts and functions passed to Do, runs on the goroutine
// executing Run.
type FrameScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	next   TickFunc
	timers map[int]*time.Timer
	seq    int

	ops chan func()
}

// NewFrameScheduler creates a scheduler firing every interval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	return &FrameScheduler{
		interval: interval,
		timers:   make(map[int]*time.Timer),
		ops:      make(chan func(), 64),
	}
}

func (s *FrameScheduler) ScheduleNextTick(fn TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = fn
}

func (s *FrameScheduler) ScheduleTimeout(d time.Duration, fn TickFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := s.seq
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			s.Do(func() { fn(time.Now()) })
		}
	})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

func (s *FrameScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = nil
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Do runs fn on the scheduler goroutine, serialized with ticks.
func (s *FrameScheduler) Do(fn func()) {
	s.ops <- fn
}

// Run executes ticks and queued functions until ctx is done.
func (s *FrameScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return ctx.Err()
		case fn := <-s.ops:
			fn()
		case now := <-ticker.C:
			s.mu.Lock()
			fn := s.next
			s.next = nil
			s.mu.Unlock()
			if fn != nil {
				fn(now)
			}
		}
	}
}
