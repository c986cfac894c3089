package effects

import (
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

// Config tunes every feedback effect.
type Config struct {
	HuePerTick     float64 // degrees per nominal tick, both ball and paddle
	CollisionHue   float64 // extra ball degrees per collided axis
	ScaleUp        time.Duration
	ScaleDown      time.Duration
	BallMaxScale   float64
	PaddleMaxX     float64
	PaddleMaxY     float64
	Particles      int
	Trails         int
	ShakeDuration  time.Duration
	ShakeMagnitude float64
	ShakeStep      float64
	ShakeSettle    float64
}

// DefaultConfig returns the tuned defaults: a full hue cycle every ten
// seconds at 50ms ticks.
func DefaultConfig() Config {
	return Config{
		HuePerTick:     1.8,
		CollisionHue:   15,
		ScaleUp:        100 * time.Millisecond,
		ScaleDown:      300 * time.Millisecond,
		BallMaxScale:   0.3,
		PaddleMaxX:     0.05,
		PaddleMaxY:     -0.15,
		Particles:      300,
		Trails:         10,
		ShakeDuration:  250 * time.Millisecond,
		ShakeMagnitude: 7.5,
		ShakeStep:      5,
		ShakeSettle:    5,
	}
}

// Visuals is everything a presentation layer needs to draw the feedback
// for one committed frame.
type Visuals struct {
	BallHue     float64
	PaddleHue   float64
	BallScale   float64
	PaddleScale core.Vec
	Shake       core.Vec
	Particles   []ParticleState
	Trails      []TrailState
}

// TickInfo describes what happened in the tick being committed.
type TickInfo struct {
	Now          time.Time
	Delta        float64 // elapsed nominal tick units
	CollidedAxes int     // 0, 1 or 2
	Ball         core.Vec
}

// Feedback aggregates all effects behind the hooks the engine calls.
type Feedback struct {
	cfg       Config
	hue       Hue
	ballScale *Tween[float64]
	paddle    *Tween[core.Vec]
	particles *Particles
	trails    *Trails
	shake     *Shake
}

// New creates a feedback aggregate. The seed makes particle spray and
// shake jitter reproducible.
func New(cfg Config, seed int64) *Feedback {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	ballMax := cfg.BallMaxScale
	px, py := cfg.PaddleMaxX, cfg.PaddleMaxY

	return &Feedback{
		cfg: cfg,
		ballScale: &Tween[float64]{
			Up:   cfg.ScaleUp,
			Down: cfg.ScaleDown,
			UpValue: func(t float64) float64 {
				return core.Truncate(1+EaseOut(t)*ballMax, 2)
			},
			DownValue: func(t float64) float64 {
				return core.Truncate(1+(1-t)*ballMax, 2)
			},
			Rest: 1,
		},
		paddle: &Tween[core.Vec]{
			Up:   cfg.ScaleUp,
			Down: cfg.ScaleDown,
			UpValue: func(t float64) core.Vec {
				return core.V(1+EaseOut(t)*px, 1+EaseOut(t)*py).Truncate(2)
			},
			DownValue: func(t float64) core.Vec {
				return core.V(1+px-EaseIn(t)*px, 1+py-EaseIn(t)*py).Truncate(2)
			},
			Rest: core.V(1, 1),
		},
		particles: NewParticles(cfg.Particles, rng),
		trails:    NewTrails(cfg.Trails),
		shake:     NewShake(cfg.ShakeDuration, cfg.ShakeMagnitude, cfg.ShakeStep, cfg.ShakeSettle, rng),
	}
}

// ObstacleDestroyed shatters the obstacle and shakes the play area.
func (f *Feedback) ObstacleDestroyed(bounds core.Rect, now time.Time) {
	f.particles.Burst(bounds, now)
	f.shake.Trigger(now)
}

// PaddleBounce squashes the paddle and sprays sparks.
func (f *Feedback) PaddleBounce(ball core.Vec, paddle core.Rect, dir core.Vec, now time.Time) {
	f.paddle.Begin(now)
	f.particles.PaddleBurst(ball.X, paddle, dir, f.hue.Paddle, now)
}

// Tick advances the per-frame effects and samples them.
func (f *Feedback) Tick(info TickInfo) Visuals {
	if info.CollidedAxes > 0 {
		f.hue.Rotate(f.cfg.CollisionHue*float64(info.CollidedAxes), 0)
		f.ballScale.Begin(info.Now)
	}

	step := core.Truncate(f.cfg.HuePerTick*info.Delta, 1)
	f.hue.Rotate(step, step)
	f.trails.Advance(info.Delta, info.Ball, f.hue.Ball, info.Now)

	return f.Sample(info.Now)
}

// Sample reads every effect at now without advancing anything.
func (f *Feedback) Sample(now time.Time) Visuals {
	return Visuals{
		BallHue:     f.hue.Ball,
		PaddleHue:   f.hue.Paddle,
		BallScale:   f.ballScale.Value(now),
		PaddleScale: f.paddle.Value(now),
		Shake:       f.shake.Offset(now),
		Particles:   f.particles.Sample(now),
		Trails:      f.trails.Sample(now),
	}
}

// Hue returns the current hue rotations.
func (f *Feedback) Hue() Hue {
	return f.hue
}
