// Package effects holds the visual feedback that reacts to collisions:
// hue cycling, scale tweens, pooled particles and trails, and screen shake.
// Everything here is driven by explicit timestamps so it can be replayed
// deterministically from a virtual clock.
package effects

import (
	"math"
	"time"
)

// EaseOut decelerates toward t=1.
func EaseOut(t float64) float64 {
	return 1 - math.Pow(1-t, 2)
}

// EaseIn accelerates away from t=0.
func EaseIn(t float64) float64 {
	return math.Pow(t, 2)
}

// Tween animates a value up and back down over two consecutive phases.
// Begin restarts the animation; Value samples it at a point in time and
// returns Rest once the animation has finished or was never started.
type Tween[T any] struct {
	Up, Down  time.Duration
	UpValue   func(t float64) T
	DownValue func(t float64) T
	Rest      T

	begin  time.Time
	active bool
}

// Begin (re)starts the tween at now.
func (tw *Tween[T]) Begin(now time.Time) {
	tw.begin = now
	tw.active = true
}

// Active reports whether the tween is mid-animation.
func (tw *Tween[T]) Active() bool {
	return tw.active
}

// Value samples the tween at now.
func (tw *Tween[T]) Value(now time.Time) T {
	if !tw.active {
		return tw.Rest
	}

	elapsed := now.Sub(tw.begin)
	if elapsed > tw.Up+tw.Down {
		tw.active = false
		return tw.Rest
	}

	if elapsed <= tw.Up {
		return tw.UpValue(phase(elapsed, tw.Up))
	}
	return tw.DownValue(phase(elapsed-tw.Up, tw.Down))
}

func phase(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return float64(elapsed) / float64(total)
}
