package effects

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

// Particle is a single shard flying away from a collision point.
type Particle struct {
	From     core.Vec // top-left at spawn, play-area local
	Size     core.Vec
	Travel   core.Vec // full displacement reached at the end of the animation
	Rotation float64  // degrees at the end of the animation
	Hue      float64  // hue offset in degrees
	Delay    time.Duration
}

// ParticleState is a particle sampled at a point in time.
type ParticleState struct {
	Pos      core.Vec
	Size     core.Vec
	Rotation float64
	Hue      float64
	Opacity  float64
}

// Particles spawns bursts into a fixed pool.
type Particles struct {
	pool *Pool[Particle]
	rng  *rand.Rand
}

// NewParticles creates a particle system with size pooled slots.
func NewParticles(size int, rng *rand.Rand) *Particles {
	return &Particles{pool: NewPool[Particle](size), rng: rng}
}

func (p *Particles) jitter() float64 {
	return 0.9 + p.rng.Float64()*0.2
}

func (p *Particles) spin() float64 {
	return (p.rng.Float64() - 0.5) * 720
}

// Burst shatters a destroyed obstacle into a grid of shards flying out from
// its center. Tall narrow obstacles get a 4x5 grid, everything else 3x10.
// bounds must already be clipped to the collidable band.
func (p *Particles) Burst(bounds core.Rect, now time.Time) {
	width := bounds.Width()
	height := bounds.Height()
	if width <= 0 || height <= 0 {
		return
	}

	rows, cols := 3, 10
	if height/5 > width {
		rows, cols = 4, 5
	}

	cellW := width / float64(cols)
	cellH := height / float64(rows)
	center := bounds.Center()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			from := core.V(bounds.Left+cellW*float64(x), bounds.Top+cellH*float64(y))
			dir := from.Sub(center).Normalize()
			dir = core.V(dir.X*p.jitter(), dir.Y*p.jitter())
			distance := math.Floor(p.rng.Float64()*75 + 25)

			part := Particle{
				From:     from,
				Size:     core.V(cellW*p.jitter(), cellH*p.jitter()),
				Travel:   dir.Scale(distance),
				Rotation: p.spin(),
				Hue:      (p.rng.Float64() - 0.5) * 30,
				Delay:    time.Duration(p.rng.Float64() * float64(100*time.Millisecond)),
			}
			d := 250*time.Millisecond + time.Duration(p.rng.Float64()*float64(500*time.Millisecond))
			p.pool.Acquire(part, now, part.Delay+d)
		}
	}
}

// PaddleBurst sprays 15 sparks upward from the paddle, biased toward the
// ball's new horizontal direction.
func (p *Particles) PaddleBurst(ballX float64, paddle core.Rect, dir core.Vec, hue float64, now time.Time) {
	for i := 0; i < 15; i++ {
		vx := (p.rng.Float64()-0.5)*2 + dir.X*0.5
		v := core.V(vx, -1).Normalize()
		distance := p.rng.Float64()*25 + 50

		part := Particle{
			From:     core.V(ballX+25*(p.rng.Float64()-0.5), paddle.Top),
			Size:     core.V(6*p.jitter(), 5*p.jitter()),
			Travel:   v.Scale(distance),
			Rotation: p.spin(),
			Hue:      hue,
			Delay:    time.Duration(p.rng.Float64() * float64(50*time.Millisecond)),
		}
		d := 250*time.Millisecond + time.Duration(p.rng.Float64()*float64(150*time.Millisecond))
		p.pool.Acquire(part, now, part.Delay+d)
	}
}

// Sample returns every live particle at now.
func (p *Particles) Sample(now time.Time) []ParticleState {
	var out []ParticleState
	p.pool.Each(now, func(s Slot[Particle]) {
		part := s.Value
		// Delayed particles wait at their origin.
		t := 0.0
		if start := s.Start.Add(part.Delay); now.After(start) {
			t = min(phase(now.Sub(start), s.Duration-part.Delay), 1)
		}
		e := EaseOut(t)
		out = append(out, ParticleState{
			Pos:      part.From.Add(part.Travel.Scale(e)),
			Size:     part.Size,
			Rotation: part.Rotation * e,
			Hue:      part.Hue,
			Opacity:  1 - 0.65*t,
		})
	})
	return out
}

// Pool exposes the underlying slot pool.
func (p *Particles) Pool() *Pool[Particle] {
	return p.pool
}
