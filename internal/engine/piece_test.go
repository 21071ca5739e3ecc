package engine

import "testing"

func TestSpawn_PlacesAtSpawnAnchor(t *testing.T) {
	p := Spawn(KindT)
	if p.X != 3 || p.Y != -2 || p.Rotation != 0 {
		t.Errorf("expected spawn at (3,-2,0), got (%d,%d,%d)", p.X, p.Y, p.Rotation)
	}
}

func TestPiece_MovedByIsImmutable(t *testing.T) {
	p := Spawn(KindI)
	moved := p.MovedBy(1, 1)
	if p.X != 3 || p.Y != -2 {
		t.Errorf("original piece mutated: got (%d,%d)", p.X, p.Y)
	}
	if moved.X != 4 || moved.Y != -1 {
		t.Errorf("expected moved piece at (4,-1), got (%d,%d)", moved.X, moved.Y)
	}
}

func TestPiece_WithRotationNormalizesNegative(t *testing.T) {
	p := Spawn(KindL).WithRotation(-1)
	if p.Rotation != 3 {
		t.Errorf("expected rotation 3 for -1 mod 4, got %d", p.Rotation)
	}
}

func TestPiece_OAllRotationsIdentical(t *testing.T) {
	base := Spawn(KindO).Cells()
	for r := 1; r < 4; r++ {
		cells := Spawn(KindO).WithRotation(r).Cells()
		if cells != base {
			t.Errorf("O piece rotation %d cells differ from rotation 0", r)
		}
	}
}

func TestPiece_EveryShapeHasFourCells(t *testing.T) {
	for _, k := range AllKinds {
		for r := 0; r < 4; r++ {
			cells := Spawn(k).WithRotation(r).Cells()
			if len(cells) != 4 {
				t.Errorf("kind %s rotation %d: expected 4 cells, got %d", k, r, len(cells))
			}
		}
	}
}
