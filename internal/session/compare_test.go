package session

import "testing"

func TestSession_CompareStartEntersComparing(t *testing.T) {
	s := New()
	seed := int64(3)
	out, err := s.Handle(ClientMessage{Type: MsgCompareStart, CompareStart: &CompareStartMsg{
		Agent1: "random", Agent2: "dellacherie", Speed: 1.0, MaxPieces: 1, Seed: &seed,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one paired message, got %d", len(out))
	}
	paired, ok := out[0].(CompareObsMessage)
	if !ok {
		t.Fatalf("expected a CompareObsMessage, got %T", out[0])
	}
	if paired.Game1.Episode.Seed != seed || paired.Game2.Episode.Seed != seed {
		t.Error("expected both sides seeded identically")
	}
	if s.State() != StateComparing {
		t.Errorf("expected comparing state, got %s", s.State())
	}
}

func TestSession_CompareStartRejectsUnknownAgent(t *testing.T) {
	s := New()
	out, err := s.Handle(ClientMessage{Type: MsgCompareStart, CompareStart: &CompareStartMsg{
		Agent1: "nonexistent", Agent2: "random", Speed: 1.0, MaxPieces: 1,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out[0].(ErrorMessage); !ok {
		t.Errorf("expected an error message, got %T", out[0])
	}
	if s.State() != StateIdle {
		t.Error("expected the session to remain idle after a rejected compare_start")
	}
}

func TestSession_AdvanceCompareFinishesAndReturnsToIdle(t *testing.T) {
	s := New()
	seed := int64(4)
	_, err := s.Handle(ClientMessage{Type: MsgCompareStart, CompareStart: &CompareStartMsg{
		Agent1: "random", Agent2: "random", Speed: 1.0, MaxPieces: 1, Seed: &seed,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	finished := false
	for i := 0; i < 200 && !finished; i++ {
		out, done, err := s.AdvanceCompare()
		if err != nil {
			t.Fatalf("AdvanceCompare returned error: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("expected exactly one outbound message per tick, got %d", len(out))
		}
		finished = done
	}
	if !finished {
		t.Fatal("expected comparison to finish within 200 ticks for max_pieces=1 on both sides")
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after comparison completes, got %s", s.State())
	}
}

func TestSession_CompareStopReturnsToIdle(t *testing.T) {
	s := New()
	s.Handle(ClientMessage{Type: MsgCompareStart, CompareStart: &CompareStartMsg{
		Agent1: "random", Agent2: "random", Speed: 1.0, MaxPieces: 5,
	}})
	if s.State() != StateComparing {
		t.Fatalf("setup failed: expected comparing, got %s", s.State())
	}
	_, err := s.Handle(ClientMessage{Type: MsgCompareStop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after compare_stop, got %s", s.State())
	}
}
