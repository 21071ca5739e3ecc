package session

import "fmt"

// State is the explicit state a connection's session occupies. Grounded on
// an ad hoc string Status field and its guard clauses, but closed to a
// proper enum with guarded transitions instead of ad hoc string
// comparisons scattered across handlers.
type State int

const (
	StateIdle State = iota
	StateSinglePlaying
	StateAIPlaying
	StateComparing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSinglePlaying:
		return "single_playing"
	case StateAIPlaying:
		return "ai_playing"
	case StateComparing:
		return "comparing"
	default:
		return "unknown"
	}
}

// transitions lists, per state, which states it may move to. Idle can
// start any mode; every active mode may return to idle or re-enter itself
// (a repeated reset, ai_play or compare_start); a direct move between two
// different active modes is rejected.
var transitions = map[State]map[State]bool{
	StateIdle:          {StateSinglePlaying: true, StateAIPlaying: true, StateComparing: true},
	StateSinglePlaying: {StateIdle: true, StateSinglePlaying: true},
	StateAIPlaying:     {StateIdle: true, StateAIPlaying: true},
	StateComparing:     {StateIdle: true, StateComparing: true},
}

// StateMachine guards the allowed transitions of a single connection's
// session mode.
type StateMachine struct {
	current State
}

// Current returns the active state.
func (m *StateMachine) Current() State { return m.current }

// Transition moves to the target state, or returns an error if the move
// is not permitted from the current state.
func (m *StateMachine) Transition(to State) error {
	if !transitions[m.current][to] {
		return fmt.Errorf("session: illegal transition %s -> %s", m.current, to)
	}
	m.current = to
	return nil
}
