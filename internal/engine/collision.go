package engine

import (
	"math"

	"github.com/vovakirdan/calbreak/internal/core"
)

// ResolveRect bounces the ball off a rectangle it has overshot into.
// Every axis with a finite ticks-to-collision whose flag is still clear is
// rewound by the smaller of the two axis estimates and reflected.
// It reports whether any axis was resolved.
func ResolveRect(ball *core.Circle, r core.Rect, dir *core.Vec, flags *Flags) bool {
	ticks := core.TicksToCollision(*ball, r, *dir)
	rewind := ticks.Min()

	resolved := false
	if !math.IsInf(ticks.X, 1) && !flags.X {
		flags.X = true
		ball.Center.X -= rewind * dir.X
		dir.X = -dir.X
		resolved = true
	}
	if !math.IsInf(ticks.Y, 1) && !flags.Y {
		flags.Y = true
		ball.Center.Y -= rewind * dir.Y
		dir.Y = -dir.Y
		resolved = true
	}
	return resolved
}

// ResolveBoundary keeps the ball inside a width x height area. Left, top
// and right overshoots are clamped back and the direction axis is pointed
// inward. It returns true when the ball crossed the bottom edge, which
// ends the game; nothing else should be resolved in that case.
func ResolveBoundary(ball *core.Circle, width, height float64, dir *core.Vec, flags *Flags) bool {
	switch {
	case ball.Left() < 0:
		dir.X = math.Abs(dir.X)
		ball.Center.X -= ball.Left()
		flags.X = true
	case ball.Right() > width:
		dir.X = -math.Abs(dir.X)
		ball.Center.X -= ball.Right() - width
		flags.X = true
	}

	switch {
	case ball.Top() < 0:
		dir.Y = math.Abs(dir.Y)
		ball.Center.Y -= ball.Top()
		flags.Y = true
	case ball.Bottom() > height:
		return true
	}
	return false
}

// PaddleZone is the third of the paddle a contact falls in.
type PaddleZone int

const (
	ZoneCenter PaddleZone = iota
	ZoneLeft
	ZoneRight
)

func (z PaddleZone) String() string {
	switch z {
	case ZoneLeft:
		return "left"
	case ZoneRight:
		return "right"
	default:
		return "center"
	}
}

// ZoneAt splits the paddle into thirds and locates x. depth is how far
// into a corner third x lies: 0 at the boundary with the center third,
// 1 at the paddle's outer edge. It is always 0 for the center.
func ZoneAt(x float64, paddle core.Rect) (PaddleZone, float64) {
	third := paddle.Width() / 3
	leftThird := paddle.Left + third
	rightThird := paddle.Left + 2*third

	switch {
	case x < leftThird:
		fromEdge := max(0, x-paddle.Left)
		return ZoneLeft, 1 - fromEdge/third
	case x > rightThird:
		fromInner := min(third, x-rightThird)
		return ZoneRight, fromInner / third
	default:
		return ZoneCenter, 0
	}
}

// PaddleBounce describes how a paddle contact was resolved.
type PaddleBounce struct {
	Zone   PaddleZone
	Depth  float64
	Forced bool // the downward direction had to be overridden
}

// ResolvePaddle redirects the ball after it touched the paddle. The center
// third flips the ball upward. The outer thirds send it off at an angle
// that grows toward the paddle's edge, with speed fixed at cornerSpeed.
// Whatever the zone, the ball always leaves moving up.
func ResolvePaddle(ball core.Circle, paddle core.Rect, dir *core.Vec, flags *Flags, reach, cornerSpeed float64) PaddleBounce {
	zone, depth := ZoneAt(ball.Center.X, paddle)
	b := PaddleBounce{Zone: zone, Depth: depth}

	switch zone {
	case ZoneCenter:
		dir.Y = -math.Abs(dir.Y)
		flags.Y = true
	default:
		x := reach * depth
		if zone == ZoneLeft {
			x = -x
		}
		*dir = core.V(x, -reach).ScaleTo(cornerSpeed)
		flags.X = true
		flags.Y = true
	}

	if dir.Y >= 0 {
		b.Forced = true
		if dir.Y == 0 {
			dir.Y = -1
		} else {
			dir.Y = -dir.Y
		}
	}
	return b
}
