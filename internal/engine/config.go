package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

// PaddleCooldownTicks is how many ticks the paddle ignores the ball after
// a bounce.
const PaddleCooldownTicks = 10

// Config holds the physics constants of one game.
type Config struct {
	Radius          float64
	BaseSpeed       float64 // pixels per tick unit per direction unit
	PaddleSpeed     float64 // pixels per tick of held key
	PaddleWidth     float64
	PaddleHeight    float64
	PaddleBottomGap float64 // paddle top sits this far above the play bottom
	BallStartLift   float64 // ball starts this far above the play bottom (plus radius)
	StartDirection  core.Vec
	CornerReach     float64 // reflection vector reach at the paddle's outer edges
	CornerSpeed     float64 // direction magnitude after a corner bounce
	PaddleCooldown  int     // ticks during which the paddle is ignored after a bounce
	TickInterval    time.Duration
	TimeoutTicks    int
}

// DefaultConfig returns the tuned constants.
func DefaultConfig() Config {
	return Config{
		Radius:          12.5,
		BaseSpeed:       10,
		PaddleSpeed:     12.5,
		PaddleWidth:     100,
		PaddleHeight:    20,
		PaddleBottomGap: 22,
		BallStartLift:   100,
		StartDirection:  core.V(1, 1),
		CornerReach:     8,
		CornerSpeed:     math.Sqrt2,
		PaddleCooldown:  PaddleCooldownTicks,
		TickInterval:    50 * time.Millisecond,
		TimeoutTicks:    2000,
	}
}

// Timeout is the wall-clock budget of a game.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutTicks) * c.TickInterval
}
