package engine

import "sort"

// LegalMove is one reachable, collision-free hard-drop placement of the
// active piece (optionally after a hold swap).
type LegalMove struct {
	X         int  `json:"x"`
	Rotation  int  `json:"rot"`
	UseHold   bool `json:"use_hold"`
	HardDropY int  `json:"harddrop_y"`
}

// LegalMoves enumerates every legal placement for the current piece and,
// when hold is available, for the piece that would become active after a
// hold swap (the held kind, or the next bag kind if the hold slot is
// empty). Candidates are generated by starting
// each (x, rotation) pair at the spawn anchor's row, dropping it until the
// next step would collide, and keeping only placements reachable from
// that starting row. Results are deduplicated on (x, occupied-cell-set,
// use_hold) to collapse symmetric rotations (O-piece, I-piece 0≡2). The
// I-piece's vertical states 1 and 3 fill the same cells only at anchors one
// column apart, so both are kept.
func LegalMoves(b *Board, current Kind, holdKind Kind, holdHasPiece bool, holdUsed bool, nextKind Kind) []LegalMove {
	moves := enumerateForKind(b, current, false)
	if !holdUsed {
		swapKind := nextKind
		if holdHasPiece {
			swapKind = holdKind
		}
		moves = append(moves, enumerateForKind(b, swapKind, true)...)
	}
	return moves
}

func enumerateForKind(b *Board, kind Kind, useHold bool) []LegalMove {
	anchor := spawnAnchors[kind]
	var moves []LegalMove
	seen := make(map[moveKey]bool)
	for rotation := 0; rotation < 4; rotation++ {
		for x := -3; x < BoardWidth+3; x++ {
			start := Piece{Kind: kind, X: x, Y: anchor.Y, Rotation: rotation}
			if b.Collides(start) {
				continue
			}
			y := anchor.Y
			for {
				next := start.WithAnchor(x, y+1)
				if b.Collides(next) {
					break
				}
				y++
			}
			landing := start.WithAnchor(x, y)
			if b.Collides(landing) {
				continue
			}
			key := moveKey{x: x, useHold: useHold, cells: cellSet(landing)}
			if seen[key] {
				continue
			}
			seen[key] = true
			moves = append(moves, LegalMove{X: x, Rotation: rotation, UseHold: useHold, HardDropY: y})
		}
	}
	return moves
}

type moveKey struct {
	x       int
	useHold bool
	cells   [4]Offset
}

// cellSet returns a piece's four absolute occupied cells sorted into a
// canonical order, so that rotations producing an identical shape at the
// same position hash identically (O-piece, I-piece 0≡2, 1≡3).
func cellSet(p Piece) [4]Offset {
	cells := p.Cells()
	sort.Slice(cells[:], func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}
