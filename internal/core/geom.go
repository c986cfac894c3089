// Package core provides fundamental types and utilities for the game.
// It contains no external dependencies to keep the physics pure and testable.
package core

import "math"

// Vec is a 2D vector in play-area pixels (or pixels per tick for directions).
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the component-wise sum.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Dot returns the dot product.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the magnitude of the vector.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the Euclidean distance between two points.
func (v Vec) Distance(o Vec) float64 {
	return v.Sub(o).Len()
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Truncate truncates both components to the given number of decimal digits.
func (v Vec) Truncate(digits int) Vec {
	return Vec{X: Truncate(v.X, digits), Y: Truncate(v.Y, digits)}
}

// ScaleTo rescales v to the given magnitude and truncates the result to
// two decimal digits so repeated bounces stay reproducible.
func (v Vec) ScaleTo(magnitude float64) Vec {
	return v.Normalize().Scale(magnitude).Truncate(2)
}

// Truncate floors v to the given number of decimal digits.
// Flooring (not rounding toward zero) matches how the engine quantizes deltas.
func Truncate(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Floor(v*p) / p
}

// Rect is an axis-aligned rectangle described by its edges.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectFromSize builds a rectangle from its top-left corner and size.
func RectFromSize(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the center point.
func (r Rect) Center() Vec {
	return Vec{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Translate shifts the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Circle is the ball: a center and a radius.
type Circle struct {
	Center Vec
	R      float64
}

// Left returns the x-coordinate of the leftmost point.
func (c Circle) Left() float64 { return c.Center.X - c.R }

// Right returns the x-coordinate of the rightmost point.
func (c Circle) Right() float64 { return c.Center.X + c.R }

// Top returns the y-coordinate of the topmost point.
func (c Circle) Top() float64 { return c.Center.Y - c.R }

// Bottom returns the y-coordinate of the bottommost point.
func (c Circle) Bottom() float64 { return c.Center.Y + c.R }

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
