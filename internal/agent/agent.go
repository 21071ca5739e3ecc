// Package agent provides pure policy functions mapping an observation to a
// placement decision, plus a small registry so the session layer can look
// one up by name without a compile-time dependency on every policy.
package agent

import (
	"fmt"

	"github.com/strawfall/tetris-engine/internal/engine"
)

// Decision is a target placement for the active piece (or the piece that
// becomes active after a hold swap).
type Decision struct {
	X         int
	Rotation  int
	UseHold   bool
	HardDropY int
}

// Policy chooses a Decision from the legal moves available in an
// observation. Implementations never modify the observation.
// DellacheriePolicy returns the same decision for the same observation;
// RandomPolicy draws from its own random source, so its decisions vary.
type Policy interface {
	Decide(obs engine.Observation) (Decision, error)
}

// Factory constructs a Policy from a free-form config map (weights, seed,
// etc). Every entry is a named, closed reference policy; nothing here
// loads a policy dynamically from outside the process.
type Factory func(config map[string]float64) Policy

var registry = map[string]Factory{
	"random":      func(map[string]float64) Policy { return NewRandomPolicy() },
	"dellacherie": func(cfg map[string]float64) Policy { return NewDellacheriePolicy(cfg) },
}

// New constructs the named policy, or an error if the name is unregistered.
func New(name string, config map[string]float64) (Policy, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("agent: unknown policy %q", name)
	}
	return factory(config), nil
}

// ErrNoLegalMoves is returned by a Policy when the observation carries an
// empty legal-move set (e.g. the episode has already topped out).
var ErrNoLegalMoves = fmt.Errorf("agent: no legal moves available")
