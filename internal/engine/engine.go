// Package engine implements the tick-based physics of the game: a ball
// bouncing inside a fixed play area, a paddle driven by held keys, and a
// live set of obstacles destroyed on contact.
//
// An Engine never owns a clock or a goroutine. It is driven by a
// Scheduler, one callback per tick, and reports to a Sink.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

var (
	// ErrAlreadyStarted is returned by Start on an engine that has run.
	ErrAlreadyStarted = errors.New("engine: already started")
	// ErrNotRunning is returned by lifecycle calls on an engine that is
	// not running.
	ErrNotRunning = errors.New("engine: not running")
)

// Feedback receives collision reactions and produces per-frame visuals.
// *effects.Feedback implements it.
type Feedback interface {
	ObstacleDestroyed(bounds core.Rect, now time.Time)
	PaddleBounce(ball core.Vec, paddle core.Rect, dir core.Vec, now time.Time)
	Tick(info effects.TickInfo) effects.Visuals
}

// Options configures a new Engine. Obstacles and Scheduler are required.
type Options struct {
	Config    Config
	Area      PlayArea
	Obstacles *obstacle.Registry
	Scheduler Scheduler
	Input     InputSource // optional
	Sink      Sink        // optional
	Feedback  Feedback    // optional
	Logger    *log.Logger // optional
}

// Engine runs one game. Several engines may coexist.
type Engine struct {
	cfg       Config
	area      PlayArea
	obstacles *obstacle.Registry
	sched     Scheduler
	input     InputSource
	sink      Sink
	feedback  Feedback
	logger    *log.Logger

	acc   *Accumulator
	state State

	status  atomic.Int32
	running atomic.Bool

	tick          uint64
	last          time.Time
	cancelTimeout func()
}

// New creates an idle engine.
func New(opts Options) (*Engine, error) {
	if opts.Obstacles == nil {
		return nil, fmt.Errorf("engine: obstacle registry is required")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("engine: scheduler is required")
	}
	if opts.Config.TickInterval <= 0 {
		return nil, fmt.Errorf("engine: tick interval must be positive, got %v", opts.Config.TickInterval)
	}
	if opts.Area.Width <= 0 || opts.Area.Height <= 0 {
		return nil, fmt.Errorf("engine: empty play area %vx%v", opts.Area.Width, opts.Area.Height)
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	e := &Engine{
		cfg:       opts.Config,
		area:      opts.Area,
		obstacles: opts.Obstacles,
		sched:     opts.Scheduler,
		input:     opts.Input,
		sink:      opts.Sink,
		feedback:  opts.Feedback,
		logger:    opts.Logger,
		acc:       NewAccumulator(),
		state:     InitialState(opts.Config, opts.Area),
	}
	e.status.Store(int32(StatusIdle))
	return e, nil
}

// Status returns the lifecycle state. Safe from any goroutine.
func (e *Engine) Status() Status {
	return Status(e.status.Load())
}

// Running reports whether ticks are still being scheduled.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// State returns a copy of the physics state. Call it from the scheduler's
// goroutine.
func (e *Engine) State() State {
	return e.state
}

// Area returns the play area.
func (e *Engine) Area() PlayArea {
	return e.area
}

// Config returns the physics constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Ticks returns the number of ticks run so far.
func (e *Engine) Ticks() uint64 {
	return e.tick
}

// Accumulator exposes the input accumulator so callers without an
// InputSource can feed key events directly.
func (e *Engine) Accumulator() *Accumulator {
	return e.acc
}

// Snapshot returns the committed state as a frame without ticking.
func (e *Engine) Snapshot() Frame {
	return Frame{
		Tick:      e.tick,
		At:        e.last,
		Ball:      e.state.Current,
		Paddle:    e.state.Paddle,
		Direction: e.state.Dir,
		Flags:     e.state.Flags,
	}
}

// Start begins ticking: input is attached, the timeout is armed and the
// first tick is scheduled.
func (e *Engine) Start(now time.Time) error {
	if !e.status.CompareAndSwap(int32(StatusIdle), int32(StatusRunning)) {
		return ErrAlreadyStarted
	}

	e.last = now
	e.running.Store(true)
	if e.input != nil {
		e.input.Attach(e.acc)
	}
	if e.cfg.TimeoutTicks > 0 {
		e.cancelTimeout = e.sched.ScheduleTimeout(e.cfg.Timeout(), e.onTimeout)
	}

	e.logger.Info("game started",
		"area", fmt.Sprintf("%.0fx%.0f", e.area.Width, e.area.Height),
		"timeout", e.cfg.Timeout())

	e.sched.ScheduleNextTick(e.loop)
	return nil
}

// Stop cancels the game without an outcome. The next scheduled tick
// performs cleanup and does not reschedule.
func (e *Engine) Stop() error {
	if !e.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopped)) {
		return ErrNotRunning
	}
	e.running.Store(false)
	e.disarm()
	e.logger.Info("game stopped", "tick", e.tick)
	return nil
}

// ForceTimeout ends a running game as timed-out.
func (e *Engine) ForceTimeout() error {
	if !e.end(OutcomeTimedOut) {
		return ErrNotRunning
	}
	return nil
}

func (e *Engine) onTimeout(time.Time) {
	e.cancelTimeout = nil
	e.end(OutcomeTimedOut)
}

// disarm detaches input and clears the pending timeout.
func (e *Engine) disarm() {
	if e.input != nil {
		e.input.Detach()
	}
	if e.cancelTimeout != nil {
		e.cancelTimeout()
		e.cancelTimeout = nil
	}
}

// end moves a running engine to the terminal status of o and emits the
// outcome. Only the first caller wins.
func (e *Engine) end(o Outcome) bool {
	var next Status
	switch o {
	case OutcomeGameOver:
		next = StatusGameOver
	case OutcomeGameWon:
		next = StatusGameWon
	case OutcomeTimedOut:
		next = StatusTimedOut
	default:
		return false
	}

	if !e.status.CompareAndSwap(int32(StatusRunning), int32(next)) {
		return false
	}
	e.running.Store(false)
	e.disarm()

	destroyed := e.obstacles.Destroyed()
	e.logger.Info("game ended", "outcome", o, "tick", e.tick, "destroyed", len(destroyed))
	e.sink.Event(OutcomeEvent{Tick: e.tick, Outcome: o, Destroyed: destroyed})
	return true
}

// cleanup runs on the first tick after the running flag was cleared.
func (e *Engine) cleanup() {
	if e.input != nil {
		e.input.Detach()
	}
	e.acc.Reset()
	e.state.Cooldown = 0
	e.state.Flags = Flags{}
}

func (e *Engine) loop(now time.Time) {
	if !e.running.Load() {
		e.cleanup()
		return
	}

	outcome, err := e.safeStep(now)
	if err != nil {
		e.fail(err)
		return
	}

	if outcome != OutcomeContinue {
		e.end(outcome)
		return
	}
	if e.running.Load() {
		e.sched.ScheduleNextTick(e.loop)
	}
}

// fail halts the engine after an abandoned tick.
func (e *Engine) fail(err error) {
	if !e.status.CompareAndSwap(int32(StatusRunning), int32(StatusFailed)) {
		return
	}
	e.running.Store(false)
	e.disarm()

	var te *TickError
	if errors.As(err, &te) {
		e.logger.Error("tick failed", "tick", te.Tick, "dir", te.Direction, "flags", te.Flags, "err", te.Cause)
	} else {
		e.logger.Error("tick failed", "tick", e.tick, "err", err)
	}
	e.sink.Event(TickFailedEvent{Tick: e.tick, Err: err})
}

func (e *Engine) safeStep(now time.Time) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = &TickError{Tick: e.tick, Direction: e.state.Dir, Flags: e.state.Flags, Cause: cause}
		}
	}()

	outcome, err = e.step(now)
	if err != nil {
		err = &TickError{Tick: e.tick, Direction: e.state.Dir, Flags: e.state.Flags, Cause: err}
	}
	return outcome, err
}

// step runs one tick. The committed ball only changes at the very end.
func (e *Engine) step(now time.Time) (Outcome, error) {
	st := &e.state
	e.tick++

	delta := core.Truncate(float64(now.Sub(e.last))/float64(e.cfg.TickInterval), 1)
	e.last = now

	cooling := st.Cooldown > 0
	if cooling {
		st.Cooldown--
	}
	st.Flags = Flags{}

	held := e.acc.Drain(now)
	st.MovePaddle(PaddleDelta(held, e.cfg.TickInterval, e.cfg.PaddleSpeed), e.area.Width)

	st.Next = core.Circle{
		Center: st.Current.Center.Add(st.Dir.Scale(e.cfg.BaseSpeed * delta)),
		R:      st.Current.R,
	}

	if ResolveBoundary(&st.Next, e.area.Width, e.area.Height, &st.Dir, &st.Flags) {
		e.logger.Debug("ball left through the bottom", "tick", e.tick, "ball", st.Next.Center)
		return OutcomeGameOver, nil
	}

	if !cooling && core.CircleIntersectsRect(st.Next, st.Paddle) {
		e.bouncePaddle(now)
	}

	snap, err := e.obstacles.Query()
	if err != nil {
		return OutcomeContinue, err
	}

	hits := 0
	for _, c := range snap.Candidates {
		if e.obstacles.IsDestroyed(c.ID) {
			continue
		}
		if !core.CircleIntersectsRect(st.Next, c.Local) {
			continue
		}

		e.obstacles.MarkDestroyed(c.ID)
		hits++
		bounced := ResolveRect(&st.Next, c.Local, &st.Dir, &st.Flags)

		e.logger.Debug("obstacle destroyed", "tick", e.tick, "id", c.ID, "label", c.Label, "bounced", bounced)
		e.sink.Event(ObstacleDestroyedEvent{
			Tick:    e.tick,
			ID:      c.ID,
			Label:   c.Label,
			Bounds:  c.Local,
			AllDay:  c.AllDay,
			Bounced: bounced,
		})
		if e.feedback != nil {
			e.feedback.ObstacleDestroyed(c.Local, now)
		}
	}

	won := snap.Remaining-hits <= 0

	st.Current = st.Next
	e.emitFrame(now, delta)

	if won {
		return OutcomeGameWon, nil
	}
	return OutcomeContinue, nil
}

func (e *Engine) bouncePaddle(now time.Time) {
	st := &e.state
	if st.Dir.Y < 0 {
		e.logger.Debug("paddle hit while moving up", "tick", e.tick, "dir", st.Dir)
	}

	b := ResolvePaddle(st.Next, st.Paddle, &st.Dir, &st.Flags, e.cfg.CornerReach, e.cfg.CornerSpeed)
	st.Cooldown = e.cfg.PaddleCooldown

	if b.Forced {
		e.logger.Warn("direction still downward after paddle bounce, forced upward", "tick", e.tick, "dir", st.Dir, "zone", b.Zone)
	}
	e.logger.Debug("paddle bounce", "tick", e.tick, "zone", b.Zone, "dir", st.Dir)

	e.sink.Event(PaddleBounceEvent{
		Tick:      e.tick,
		Zone:      b.Zone,
		Direction: st.Dir,
		Ball:      st.Next.Center,
		Paddle:    st.Paddle,
	})
	if e.feedback != nil {
		e.feedback.PaddleBounce(st.Next.Center, st.Paddle, st.Dir, now)
	}
}

func (e *Engine) emitFrame(now time.Time, delta float64) {
	f := Frame{
		Tick:      e.tick,
		At:        now,
		Delta:     delta,
		Ball:      e.state.Current,
		Paddle:    e.state.Paddle,
		Direction: e.state.Dir,
		Flags:     e.state.Flags,
	}
	if e.feedback != nil {
		f.Visuals = e.feedback.Tick(effects.TickInfo{
			Now:          now,
			Delta:        delta,
			CollidedAxes: e.state.Flags.Count(),
			Ball:         e.state.Current.Center,
		})
	}
	e.sink.Frame(f)
}
