package core

import (
	"math"
	"testing"
)

func TestCircleIntersectsRect(t *testing.T) {
	rect := RectFromSize(100, 100, 50, 20)

	tests := []struct {
		name     string
		center   Vec
		expected bool
	}{
		{"center inside", V(120, 110), true},
		{"overlapping top edge", V(120, 95), true},
		{"touching top edge", V(120, 90), false},
		{"clear above", V(120, 80), false},
		{"near corner inside radius", V(155, 125), true},
		{"near corner outside radius", V(158, 128), false},
		{"left of rect", V(80, 110), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Circle{Center: tc.center, R: 10}
			if got := CircleIntersectsRect(c, rect); got != tc.expected {
				t.Errorf("CircleIntersectsRect(%v) = %v, expected %v", tc.center, got, tc.expected)
			}
		})
	}
}

func TestClosestPoint(t *testing.T) {
	rect := RectFromSize(0, 0, 10, 10)

	if p := ClosestPoint(V(5, 5), rect); p != V(5, 5) {
		t.Errorf("inside point should map to itself, got %v", p)
	}
	if p := ClosestPoint(V(-3, 20), rect); p != V(0, 10) {
		t.Errorf("ClosestPoint = %v, expected (0, 10)", p)
	}
}

func TestTicksToAxisCollision(t *testing.T) {
	// Center 5 past the edge with radius 10: the edge overlapped by 5 units,
	// which at 2.5 units per tick happened 2 ticks ago.
	if got := TicksToAxisCollision(95, 100, 10, 2.5); got != 2 {
		t.Errorf("TicksToAxisCollision = %v, expected 2", got)
	}
	if got := TicksToAxisCollision(95, 100, 10, -2.5); got != 2 {
		t.Errorf("negative velocity should give a positive count, got %v", got)
	}
	if got := TicksToAxisCollision(95, 100, 10, 0); !math.IsInf(got, 1) {
		t.Errorf("zero velocity should never collide, got %v", got)
	}
}

func TestTicksToCollisionCandidates(t *testing.T) {
	rect := RectFromSize(100, 100, 50, 50)

	t.Run("approaching from top left", func(t *testing.T) {
		c := Circle{Center: V(95, 95), R: 10}
		ticks := TicksToCollision(c, rect, V(1, 1))
		if ticks.X != 5 || ticks.Y != 5 {
			t.Errorf("ticks = %+v, expected (5, 5)", ticks)
		}
		if ticks.Min() != 5 {
			t.Errorf("Min() = %v, expected 5", ticks.Min())
		}
	})

	t.Run("moving away on x", func(t *testing.T) {
		c := Circle{Center: V(95, 95), R: 10}
		ticks := TicksToCollision(c, rect, V(-1, 1))
		if !math.IsInf(ticks.X, 1) {
			t.Errorf("x moving away should not be a candidate, got %v", ticks.X)
		}
		if ticks.Y != 5 {
			t.Errorf("y ticks = %v, expected 5", ticks.Y)
		}
	})

	t.Run("center already past edge", func(t *testing.T) {
		c := Circle{Center: V(120, 95), R: 10}
		ticks := TicksToCollision(c, rect, V(1, 1))
		if !math.IsInf(ticks.X, 1) {
			t.Errorf("x edge already passed should not be a candidate, got %v", ticks.X)
		}
	})

	t.Run("approaching from bottom right", func(t *testing.T) {
		c := Circle{Center: V(155, 152), R: 10}
		ticks := TicksToCollision(c, rect, V(-2, -1))
		if ticks.X != 2.5 || ticks.Y != 8 {
			t.Errorf("ticks = %+v, expected (2.5, 8)", ticks)
		}
	})
}
