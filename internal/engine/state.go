package engine

import (
	"fmt"

	"github.com/vovakirdan/calbreak/internal/core"
)

// Flags mark which axes have already been resolved this tick.
type Flags struct {
	X, Y bool
}

// Count returns how many axes are set.
func (f Flags) Count() int {
	n := 0
	if f.X {
		n++
	}
	if f.Y {
		n++
	}
	return n
}

func (f Flags) String() string {
	return fmt.Sprintf("x=%t y=%t", f.X, f.Y)
}

// State is the mutable physics state owned by one engine.
type State struct {
	Current  core.Circle // last fully resolved tick
	Next     core.Circle // candidate under resolution
	Paddle   core.Rect
	Dir      core.Vec
	Flags    Flags
	Cooldown int
}

// InitialState places the ball and paddle for a fresh game.
func InitialState(cfg Config, area PlayArea) State {
	ball := core.Circle{
		Center: core.V(area.Width/2, area.Height-cfg.BallStartLift+cfg.Radius),
		R:      cfg.Radius,
	}
	return State{
		Current: ball,
		Next:    ball,
		Paddle: core.RectFromSize(
			area.Width/2-cfg.PaddleWidth/2,
			area.Height-cfg.PaddleBottomGap,
			cfg.PaddleWidth,
			cfg.PaddleHeight,
		),
		Dir: cfg.StartDirection,
	}
}

// MovePaddle shifts the paddle horizontally, clamped to the play width.
func (s *State) MovePaddle(dx, width float64) {
	w := s.Paddle.Width()
	left := core.Clamp(s.Paddle.Left+dx, 0, max(0, width-w))
	s.Paddle.Left = left
	s.Paddle.Right = left + w
}

// Status is the engine's lifecycle state.
type Status int32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusGameOver
	StatusGameWon
	StatusTimedOut
	StatusStopped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game-over"
	case StatusGameWon:
		return "game-won"
	case StatusTimedOut:
		return "timed-out"
	case StatusStopped:
		return "stopped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no more ticks will run.
func (s Status) Terminal() bool {
	return s != StatusIdle && s != StatusRunning
}
