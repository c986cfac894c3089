package effects

import (
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
)

const trailDuration = time.Second

// Trail is a fading ghost of the ball left behind as it moves.
type Trail struct {
	Pos core.Vec
	Hue float64
}

// TrailState is a trail sampled at a point in time.
type TrailState struct {
	Pos     core.Vec
	Hue     float64
	Scale   float64
	Opacity float64
}

// Trails drops one ghost per whole tick unit the ball has travelled.
type Trails struct {
	pool    *Pool[Trail]
	pending float64
}

// NewTrails creates a trail system with size pooled slots.
func NewTrails(size int) *Trails {
	return &Trails{pool: NewPool[Trail](size)}
}

// Advance accumulates delta tick units and drops at most one trail at pos
// once more than a full unit has built up.
func (t *Trails) Advance(delta float64, pos core.Vec, hue float64, now time.Time) bool {
	t.pending += delta
	if t.pending <= 1 {
		return false
	}
	t.pending--
	t.pool.Acquire(Trail{Pos: pos, Hue: hue}, now, trailDuration)
	return true
}

// Sample returns every visible trail at now.
func (t *Trails) Sample(now time.Time) []TrailState {
	var out []TrailState
	t.pool.Each(now, func(s Slot[Trail]) {
		e := EaseOut(s.Progress(now))
		out = append(out, TrailState{
			Pos:     s.Value.Pos,
			Hue:     s.Value.Hue,
			Scale:   0.8 - 0.5*e,
			Opacity: 0.75 - 0.65*e,
		})
	})
	return out
}

// Pool exposes the underlying slot pool.
func (t *Trails) Pool() *Pool[Trail] {
	return t.pool
}
