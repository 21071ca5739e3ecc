package agent

import (
	"testing"

	"github.com/strawfall/tetris-engine/internal/engine"
)

func TestNew_UnknownPolicyErrors(t *testing.T) {
	if _, err := New("nonexistent", nil); err == nil {
		t.Error("expected an error for an unregistered policy name")
	}
}

func TestNew_KnownPoliciesConstruct(t *testing.T) {
	for _, name := range []string{"random", "dellacherie"} {
		p, err := New(name, nil)
		if err != nil {
			t.Errorf("New(%q) returned error: %v", name, err)
		}
		if p == nil {
			t.Errorf("New(%q) returned a nil policy", name)
		}
	}
}

func legalMovesObservation() engine.Observation {
	var env engine.Environment
	return env.Reset(11)
}

func TestRandomPolicy_ChoosesFromLegalMoves(t *testing.T) {
	p := NewRandomPolicy()
	obs := legalMovesObservation()
	if len(obs.LegalMoves) == 0 {
		t.Fatal("expected a non-empty legal move set on a fresh episode")
	}
	decision, err := p.Decide(obs)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	found := false
	for _, m := range obs.LegalMoves {
		if m.X == decision.X && m.Rotation == decision.Rotation && m.UseHold == decision.UseHold {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("decision %+v does not match any of the observation's legal moves", decision)
	}
}

func TestRandomPolicy_ErrorsWithNoLegalMoves(t *testing.T) {
	p := NewRandomPolicy()
	obs := engine.Observation{}
	if _, err := p.Decide(obs); err != ErrNoLegalMoves {
		t.Errorf("expected ErrNoLegalMoves, got %v", err)
	}
}

func TestDellacheriePolicy_ErrorsWithNoLegalMoves(t *testing.T) {
	p := NewDellacheriePolicy(nil)
	if _, err := p.Decide(engine.Observation{}); err != ErrNoLegalMoves {
		t.Errorf("expected ErrNoLegalMoves, got %v", err)
	}
}

func TestDellacheriePolicy_PicksTheMaxScoringMove(t *testing.T) {
	p := NewDellacheriePolicy(nil)
	obs := legalMovesObservation()

	decision, err := p.Decide(obs)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	kind := placedKind(obs, engine.LegalMove{X: decision.X, Rotation: decision.Rotation, UseHold: decision.UseHold, HardDropY: decision.HardDropY})
	best := p.scorePlacement(obs, kind, engine.LegalMove{X: decision.X, Rotation: decision.Rotation, UseHold: decision.UseHold, HardDropY: decision.HardDropY})
	for _, m := range obs.LegalMoves {
		k := placedKind(obs, m)
		score := p.scorePlacement(obs, k, m)
		if score > best {
			t.Errorf("chosen decision scored %f but move %+v scored higher (%f)", best, m, score)
		}
	}
}

func TestDellacheriePolicy_ConfigOverridesDefaultWeight(t *testing.T) {
	p := NewDellacheriePolicy(map[string]float64{"holes": -100.0})
	if p.weights["holes"] != -100.0 {
		t.Errorf("expected holes weight override to take effect, got %f", p.weights["holes"])
	}
	if p.weights["row_transitions"] != dellacherieWeights["row_transitions"] {
		t.Error("expected unrelated weights to keep their defaults")
	}
}
