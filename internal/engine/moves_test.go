package engine

import "testing"

// Every returned move must be collision-free at its landing position,
// with one step further down colliding (it is truly resting, not
// floating).
func TestLegalMoves_Soundness(t *testing.T) {
	b := NewBoard()
	b[BoardHeight-1][5] = 1
	moves := LegalMoves(&b, KindT, KindO, true, false, KindS)
	if len(moves) == 0 {
		t.Fatal("expected at least one legal move on a mostly empty board")
	}
	for _, m := range moves {
		p := Piece{Kind: KindT, X: m.X, Y: m.HardDropY, Rotation: m.Rotation}
		if m.UseHold {
			p.Kind = KindO
		}
		if b.Collides(p) {
			t.Errorf("move %+v collides at its own landing row", m)
		}
		resting := p.MovedBy(0, 1)
		if !b.Collides(resting) {
			t.Errorf("move %+v is not actually resting (one step further is still legal)", m)
		}
	}
}

func TestLegalMoves_NoHoldOptionsWhenUsed(t *testing.T) {
	b := NewBoard()
	moves := LegalMoves(&b, KindT, KindO, true, true, KindS)
	for _, m := range moves {
		if m.UseHold {
			t.Error("expected no hold-swap moves when holdUsed is true")
		}
	}
}

func TestLegalMoves_OPieceDedupesRotations(t *testing.T) {
	b := NewBoard()
	moves := enumerateForKind(&b, KindO, false)
	byX := map[int]int{}
	for _, m := range moves {
		byX[m.X]++
	}
	for x, count := range byX {
		if count != 1 {
			t.Errorf("x=%d: O-piece produced %d distinct moves, want 1 (all rotations identical)", x, count)
		}
	}
}

func TestLegalMoves_HoldUsesNextKindWhenEmpty(t *testing.T) {
	b := NewBoard()
	moves := LegalMoves(&b, KindT, KindO, false, false, KindS)
	foundHoldS := false
	for _, m := range moves {
		if m.UseHold {
			p := Piece{Kind: KindS, X: m.X, Y: m.HardDropY, Rotation: m.Rotation}
			if b.Collides(p) {
				t.Errorf("hold move %+v collides when resolved against the next kind S", m)
			}
			foundHoldS = true
		}
	}
	if !foundHoldS {
		t.Error("expected hold-swap moves resolved against the next queued kind")
	}
}
