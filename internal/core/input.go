package core

// Key is one of the two logical paddle directions.
type Key int

const (
	KeyLeft  Key = iota // decrease paddle position
	KeyRight            // increase paddle position
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseKey maps a wire name back to a Key.
func ParseKey(s string) (Key, bool) {
	switch s {
	case "left", "ArrowLeft":
		return KeyLeft, true
	case "right", "ArrowRight":
		return KeyRight, true
	}
	return 0, false
}

// Action represents a semantic platform action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A, H
	ActionRight          // Right arrow, D, L
	ActionStart          // Space - start the game
	ActionDecline        // Y - decline destroyed meetings after the game
	ActionKeep           // N - keep meetings
	ActionStop           // Esc - stop a running game
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStart:
		return "Start"
	case ActionDecline:
		return "Decline"
	case ActionKeep:
		return "Keep"
	case ActionStop:
		return "Stop"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Key returns the paddle key for a movement action.
func (a Action) Key() (Key, bool) {
	switch a {
	case ActionLeft:
		return KeyLeft, true
	case ActionRight:
		return KeyRight, true
	}
	return 0, false
}
