// Package game runs the interactive terminal session: it feeds input to the
// simulation, steps it at a fixed rate and renders each frame.
package game

// State represents the runtime state of the session.
type State int

const (
	// StatePlaying advances simulation time every tick.
	StatePlaying State = iota
	// StatePaused keeps rendering but freezes simulation time.
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Toggle flips between playing and paused.
func (s State) Toggle() State {
	if s == StatePaused {
		return StatePlaying
	}
	return StatePaused
}
