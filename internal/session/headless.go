package session

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/calbreak/internal/engine"
)

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	Options
	Start    time.Time // virtual start time; zero means now
	MaxTicks int       // safety stop when the timeout is disabled; 0 means no limit
}

// RunHeadless plays a full game on virtual time, stepping a ManualScheduler
// at the nominal tick interval until the game ends. Without an Input the
// autopilot drives the paddle.
func RunHeadless(ctx context.Context, opts HeadlessOptions) (*Session, Result, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}

	sched := engine.NewManualScheduler(start, opts.Config.TickInterval())
	opts.Scheduler = sched
	opts.Clock = sched.Now
	if opts.Input == nil {
		pilot := NewAutopilot(opts.Seed, opts.Config.Paddle.Width/2*0.8)
		opts.Input = pilot
		opts.Sinks = append([]engine.Sink{pilot}, opts.Sinks...)
	}

	s, err := New(opts.Options)
	if err != nil {
		return nil, Result{}, err
	}
	if err := s.Start(); err != nil {
		return s, Result{}, err
	}

	for ticks := 0; ; ticks++ {
		if r, ok := s.Result(); ok {
			return s, r, nil
		}
		if err := ctx.Err(); err != nil {
			_ = s.Stop()
			return s, Result{}, err
		}
		if opts.MaxTicks > 0 && ticks >= opts.MaxTicks {
			_ = s.Stop()
			sched.Step()
			return s, Result{}, fmt.Errorf("session: no outcome after %d ticks", ticks)
		}
		if !sched.Pending() && sched.PendingTimeouts() == 0 {
			return s, Result{}, fmt.Errorf("session: engine stopped without an outcome")
		}
		sched.Step()
	}
}
