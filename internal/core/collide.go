package core

import "math"

// ClosestPoint clamps the circle center into the rectangle per axis,
// yielding the point of the rectangle nearest to the center.
func ClosestPoint(center Vec, r Rect) Vec {
	return Vec{
		X: Clamp(center.X, r.Left, r.Right),
		Y: Clamp(center.Y, r.Top, r.Bottom),
	}
}

// CircleIntersectsRect reports whether the circle overlaps the rectangle.
// Touching (distance exactly equal to the radius) is not an intersection.
func CircleIntersectsRect(c Circle, r Rect) bool {
	return c.Center.Distance(ClosestPoint(c.Center, r)) < c.R
}

// TicksToAxisCollision estimates how many ticks ago (or until) the circle's
// edge met the given rectangle edge, moving at velocity units per tick.
// A zero velocity never reaches the edge.
func TicksToAxisCollision(center, edge, radius, velocity float64) float64 {
	if velocity == 0 {
		return math.Inf(1)
	}
	return math.Abs((radius - math.Abs(edge-center)) / velocity)
}

// AxisTicks holds per-axis ticks-to-collision. +Inf marks an axis that is not
// a collision candidate.
type AxisTicks struct {
	X, Y float64
}

// Min returns the smaller of the two axes.
func (a AxisTicks) Min() float64 {
	return math.Min(a.X, a.Y)
}

// TicksToCollision computes per-axis ticks-to-collision of a circle against
// a rectangle. An axis only counts when the center is still outside the
// rectangle on the side the ball is travelling toward.
func TicksToCollision(c Circle, r Rect, dir Vec) AxisTicks {
	ticks := AxisTicks{X: math.Inf(1), Y: math.Inf(1)}

	switch {
	case dir.X > 0 && c.Center.X < r.Left:
		ticks.X = TicksToAxisCollision(c.Center.X, r.Left, c.R, dir.X)
	case dir.X < 0 && c.Center.X > r.Right:
		ticks.X = TicksToAxisCollision(c.Center.X, r.Right, c.R, dir.X)
	}

	switch {
	case dir.Y > 0 && c.Center.Y < r.Top:
		ticks.Y = TicksToAxisCollision(c.Center.Y, r.Top, c.R, dir.Y)
	case dir.Y < 0 && c.Center.Y > r.Bottom:
		ticks.Y = TicksToAxisCollision(c.Center.Y, r.Bottom, c.R, dir.Y)
	}

	return ticks
}
