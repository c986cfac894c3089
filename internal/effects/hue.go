package effects

import "math"

// Hue tracks the hue rotation of the ball and paddle in degrees.
type Hue struct {
	Ball   float64
	Paddle float64
}

// Rotate advances both hues, wrapping at 360.
func (h *Hue) Rotate(ball, paddle float64) {
	h.Ball = math.Mod(h.Ball+ball, 360)
	h.Paddle = math.Mod(h.Paddle+paddle, 360)
}
