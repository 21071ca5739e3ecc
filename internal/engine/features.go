package engine

// Features are the six engineered board metrics computed from the locked
// board only (the active piece is never considered). All are pure
// functions of Board.Cells.
type Features struct {
	AggHeight int `json:"agg_height"`
	Bumpiness int `json:"bumpiness"`
	Holes     int `json:"holes"`
	RowTrans  int `json:"row_trans"`
	ColTrans  int `json:"col_trans"`
	WellMax   int `json:"well_max"`
}

// ExtractFeatures computes all six metrics for the given board.
func ExtractFeatures(b *Board) Features {
	heights := b.ColumnHeights()
	holesPerCol := b.HolesPerColumn()

	f := Features{}
	for x := 0; x < BoardWidth; x++ {
		f.AggHeight += heights[x]
		f.Holes += holesPerCol[x]
	}
	for x := 0; x < BoardWidth-1; x++ {
		d := heights[x] - heights[x+1]
		if d < 0 {
			d = -d
		}
		f.Bumpiness += d
	}
	f.RowTrans = rowTransitions(b)
	f.ColTrans = colTransitions(b)
	f.WellMax = maxWellDepth(b, heights)
	return f
}

func filled(b *Board, x, y int) bool {
	if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
		return true
	}
	return b[y][x] != 0
}

// rowTransitions counts horizontally adjacent filled<->empty pairs per row,
// treating out-of-board columns (the walls on either side) as filled.
func rowTransitions(b *Board) int {
	count := 0
	for y := 0; y < BoardHeight; y++ {
		prev := filled(b, -1, y)
		for x := 0; x < BoardWidth; x++ {
			cur := filled(b, x, y)
			if cur != prev {
				count++
			}
			prev = cur
		}
		if prev != filled(b, BoardWidth, y) {
			count++
		}
	}
	return count
}

// colTransitions counts vertically adjacent filled<->empty pairs per
// column, treating the row above the board and the floor as filled.
func colTransitions(b *Board) int {
	count := 0
	for x := 0; x < BoardWidth; x++ {
		prev := filled(b, x, -1)
		for y := 0; y < BoardHeight; y++ {
			cur := filled(b, x, y)
			if cur != prev {
				count++
			}
			prev = cur
		}
		if prev != filled(b, x, BoardHeight) {
			count++
		}
	}
	return count
}

// WellDepths returns, per column, the depth of its well: the run of empty
// cells from the top of the board (row 0) downward whose every row has
// both neighbors (or the wall) filled, stopping at the column's own stack.
func WellDepths(b *Board) [BoardWidth]int {
	var depths [BoardWidth]int
	for x := 0; x < BoardWidth; x++ {
		depth := 0
		for y := 0; y < BoardHeight; y++ {
			if b[y][x] != 0 {
				break
			}
			if !filled(b, x-1, y) || !filled(b, x+1, y) {
				break
			}
			depth++
		}
		depths[x] = depth
	}
	return depths
}

// maxWellDepth finds the deepest well across all columns.
func maxWellDepth(b *Board, heights [BoardWidth]int) int {
	max := 0
	for _, d := range WellDepths(b) {
		if d > max {
			max = d
		}
	}
	return max
}
