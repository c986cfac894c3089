package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

// Outcome is the terminal result of a game.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeGameOver
	OutcomeGameWon
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGameOver:
		return "game-over"
	case OutcomeGameWon:
		return "game-won"
	case OutcomeTimedOut:
		return "timed-out"
	default:
		return "continue"
	}
}

// Title is the headline shown to the player for a terminal outcome.
func (o Outcome) Title() string {
	switch o {
	case OutcomeGameOver:
		return "Game Over!"
	case OutcomeGameWon:
		return "All Meetings Destroyed!"
	case OutcomeTimedOut:
		return "Timed Out!"
	default:
		return ""
	}
}

// Frame is the committed state after one tick.
type Frame struct {
	Tick      uint64
	At        time.Time
	Delta     float64
	Ball      core.Circle
	Paddle    core.Rect
	Direction core.Vec
	Flags     Flags
	Visuals   effects.Visuals
}

// Event is a discrete notification emitted by the engine.
type Event interface {
	engineEvent()
}

// ObstacleDestroyedEvent is emitted when the ball first touches an obstacle.
type ObstacleDestroyedEvent struct {
	Tick    uint64
	ID      obstacle.ID
	Label   string
	Bounds  core.Rect // play-area local, clipped to the collidable band
	AllDay  bool
	Bounced bool // whether the contact changed direction
}

func (ObstacleDestroyedEvent) engineEvent() {}

// PaddleBounceEvent is emitted on every paddle contact.
type PaddleBounceEvent struct {
	Tick      uint64
	Zone      PaddleZone
	Direction core.Vec // direction after the bounce
	Ball      core.Vec
	Paddle    core.Rect
}

func (PaddleBounceEvent) engineEvent() {}

// OutcomeEvent is emitted exactly once when a game ends.
type OutcomeEvent struct {
	Tick      uint64
	Outcome   Outcome
	Destroyed []obstacle.ID
}

func (OutcomeEvent) engineEvent() {}

// TickFailedEvent is emitted when a tick was abandoned on an unexpected
// error. The engine does not tick again afterwards.
type TickFailedEvent struct {
	Tick uint64
	Err  error
}

func (TickFailedEvent) engineEvent() {}

// TickError wraps a failure inside a tick with the state needed to
// diagnose it.
type TickError struct {
	Tick      uint64
	Direction core.Vec
	Flags     Flags
	Cause     error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("engine: tick %d failed (dir=%v, %s): %v", e.Tick, e.Direction, e.Flags, e.Cause)
}

func (e *TickError) Unwrap() error {
	return e.Cause
}
