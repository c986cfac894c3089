// Package tui provides the Bubble Tea front end: it drives the engine from
// terminal frames, emulates held keys and draws the calendar page scaled
// to the terminal.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/calbreak/internal/engine"
)

// FrameMsg is sent once per terminal frame.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends frame messages at the specified rate.
func frameCmd(frameRate int) tea.Cmd {
	interval := time.Second / time.Duration(frameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

type frameTimer struct {
	at        time.Time
	fn        engine.TickFunc
	cancelled bool
}

// Scheduler runs engine callbacks inside the Bubble Tea update loop: every
// FrameMsg fires due timeouts and then the pending tick, so the engine is
// only ever touched from Update.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	next   engine.TickFunc
	timers []*frameTimer
}

// NewScheduler creates a scheduler whose clock starts at now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the time of the last frame.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) ScheduleNextTick(fn engine.TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = fn
}

func (s *Scheduler) ScheduleTimeout(d time.Duration, fn engine.TickFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &frameTimer{at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = nil
	s.timers = nil
}

// Frame advances the clock to now, fires due timeouts in order and runs the
// pending tick. It reports whether a tick ran.
func (s *Scheduler) Frame(now time.Time) bool {
	s.mu.Lock()
	if now.After(s.now) {
		s.now = now
	}
	now = s.now

	var due []*frameTimer
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

	// timers were appended in schedule order; equal deadlines keep it
	for _, t := range due {
		t.fn(now)
	}

	s.mu.Lock()
	fn := s.next
	s.next = nil
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(now)
	return true
}
