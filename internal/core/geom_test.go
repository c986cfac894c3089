package core

import (
	"math"
	"testing"
)

func TestVecNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{"axis aligned", V(3, 0), V(1, 0)},
		{"pythagorean", V(3, 4), V(0.6, 0.8)},
		{"zero vector", V(0, 0), V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVecArithmetic(t *testing.T) {
	a, b := V(1, 2), V(3, -4)

	if got := a.Add(b); got != V(4, -2) {
		t.Errorf("Add = %v, expected (4, -2)", got)
	}
	if got := a.Sub(b); got != V(-2, 6) {
		t.Errorf("Sub = %v, expected (-2, 6)", got)
	}
	if got := a.Scale(2); got != V(2, 4) {
		t.Errorf("Scale = %v, expected (2, 4)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v, expected -5", got)
	}
	if got := V(0, 0).Distance(V(3, 4)); got != 5 {
		t.Errorf("Distance = %v, expected 5", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		v      float64
		digits int
		want   float64
	}{
		{1.4142135, 2, 1.41},
		{0.999, 1, 0.9},
		{2.0, 1, 2.0},
		{-0.701, 2, -0.71}, // floors, does not round toward zero
		{1.66, 0, 1},
	}

	for _, tc := range tests {
		got := Truncate(tc.v, tc.digits)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Truncate(%v, %d) = %v, expected %v", tc.v, tc.digits, got, tc.want)
		}
	}
}

func TestScaleTo(t *testing.T) {
	tests := []struct {
		in   Vec
		want Vec
	}{
		{V(-8, -8), V(-1, -1)},
		{V(0, -8), V(0, -1.42)},
		{V(8, -8), V(1, -1)},
	}

	for _, tc := range tests {
		got := tc.in.ScaleTo(math.Sqrt2)
		// flooring may drop one extra hundredth on float noise
		if math.Abs(got.X-tc.want.X) > 0.011 || math.Abs(got.Y-tc.want.Y) > 0.011 {
			t.Errorf("ScaleTo(%v) = %v, expected about %v", tc.in, got, tc.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := RectFromSize(5, 10, 20, 15)

	if r.Right != 25 || r.Bottom != 25 {
		t.Errorf("edges = (%v, %v), expected (25, 25)", r.Right, r.Bottom)
	}
	if r.Width() != 20 || r.Height() != 15 {
		t.Errorf("size = %vx%v, expected 20x15", r.Width(), r.Height())
	}
	if c := r.Center(); c != V(15, 17.5) {
		t.Errorf("Center() = %v, expected (15, 17.5)", c)
	}
	if moved := r.Translate(-5, -10); moved != RectFromSize(0, 0, 20, 15) {
		t.Errorf("Translate = %v", moved)
	}
	if r.Empty() {
		t.Error("non-degenerate rect reported empty")
	}
	if !(Rect{Left: 3, Right: 3, Top: 0, Bottom: 5}).Empty() {
		t.Error("zero-width rect should be empty")
	}
}

func TestCircleEdges(t *testing.T) {
	c := Circle{Center: V(100, 50), R: 12}
	if c.Left() != 88 || c.Right() != 112 || c.Top() != 38 || c.Bottom() != 62 {
		t.Errorf("edges = %v %v %v %v", c.Left(), c.Right(), c.Top(), c.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
