package session

import (
	"math/rand/v2"
	"sync"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
)

// Autopilot plays the paddle for headless runs. It is both the engine's
// input source and a sink: every committed frame it holds the key that
// moves the paddle under the ball, aiming off-center by a random amount
// that changes after each bounce.
type Autopilot struct {
	// Tolerance is how far off the aim point the paddle may be before a
	// key is held.
	Tolerance float64

	mu       sync.Mutex
	listener engine.KeyListener
	rng      *rand.Rand
	reach    float64
	aim      float64
	held     core.Key
	holding  bool
}

// NewAutopilot creates an autopilot. reach bounds the aim offset from the
// paddle center.
func NewAutopilot(seed int64, reach float64) *Autopilot {
	a := &Autopilot{
		Tolerance: 4,
		rng:       rand.New(rand.NewPCG(uint64(seed), 0x5eed)),
		reach:     reach,
	}
	a.pickAim()
	return a
}

func (a *Autopilot) pickAim() {
	a.aim = (a.rng.Float64()*2 - 1) * a.reach
}

// Attach implements engine.InputSource.
func (a *Autopilot) Attach(l engine.KeyListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = l
}

// Detach implements engine.InputSource.
func (a *Autopilot) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = nil
	a.holding = false
}

// Frame implements engine.Sink.
func (a *Autopilot) Frame(f engine.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return
	}

	target := f.Ball.Center.X - a.aim
	center := f.Paddle.Center().X

	var want core.Key
	press := true
	switch {
	case target < center-a.Tolerance:
		want = core.KeyLeft
	case target > center+a.Tolerance:
		want = core.KeyRight
	default:
		press = false
	}

	if a.holding && (!press || want != a.held) {
		a.listener.KeyUp(a.held, f.At)
		a.holding = false
	}
	if press && !a.holding {
		a.listener.KeyDown(want, f.At)
		a.held, a.holding = want, true
	}
}

// Event implements engine.Sink.
func (a *Autopilot) Event(ev engine.Event) {
	if _, ok := ev.(engine.PaddleBounceEvent); ok {
		a.mu.Lock()
		a.pickAim()
		a.mu.Unlock()
	}
}
