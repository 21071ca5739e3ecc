package agent

import (
	"math/rand"

	"github.com/strawfall/tetris-engine/internal/engine"
)

// RandomPolicy chooses uniformly at random among the observation's legal
// moves.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy seeded from the process-global
// random source. Determinism of an episode's piece stream does not depend
// on this policy's own randomness, so no explicit seed is threaded through.
func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(rand.Int63()))}
}

func (p *RandomPolicy) Decide(obs engine.Observation) (Decision, error) {
	if len(obs.LegalMoves) == 0 {
		return Decision{}, ErrNoLegalMoves
	}
	m := obs.LegalMoves[p.rng.Intn(len(obs.LegalMoves))]
	return Decision{X: m.X, Rotation: m.Rotation, UseHold: m.UseHold, HardDropY: m.HardDropY}, nil
}
