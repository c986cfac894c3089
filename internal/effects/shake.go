package effects

import (
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

// Shake jitters the whole play area after a destruction. Hits that land
// while already shaking extend it and make it stronger.
type Shake struct {
	Duration  time.Duration
	Magnitude float64
	Step      float64 // added per hit while shaking
	Settle    float64 // magnitude restored once a shake ends

	start   time.Time
	shaking bool
	rng     *rand.Rand
}

// NewShake creates a shake with the given timing and starting magnitude.
func NewShake(d time.Duration, magnitude, step, settle float64, rng *rand.Rand) *Shake {
	return &Shake{Duration: d, Magnitude: magnitude, Step: step, Settle: settle, rng: rng}
}

// Trigger starts a shake, or intensifies and extends one already running.
func (s *Shake) Trigger(now time.Time) {
	if s.shaking {
		s.Magnitude += s.Step
	}
	s.start = now
	s.shaking = true
}

// Shaking reports whether a shake is in progress.
func (s *Shake) Shaking() bool {
	return s.shaking
}

// Offset returns the displacement to apply at now.
func (s *Shake) Offset(now time.Time) core.Vec {
	if !s.shaking {
		return core.Vec{}
	}
	if now.Sub(s.start) >= s.Duration {
		s.shaking = false
		s.Magnitude = s.Settle
		return core.Vec{}
	}
	return core.V(
		(s.rng.Float64()-0.5)*s.Magnitude,
		(s.rng.Float64()-0.5)*s.Magnitude,
	)
}
