package engine

const (
	// BoardWidth and BoardHeight are the playfield dimensions. y = 0 is the
	// top row; y = BoardHeight-1 is the floor.
	BoardWidth  = 10
	BoardHeight = 20
)

// Board is the 10x20 occupancy grid. A cell holds 0 (empty) or the cell
// code of the kind that locked into it (1..7, see Kind.CellCode).
// Board[y][x] addresses row y, column x, a row-major convention.
type Board [BoardHeight][BoardWidth]int

// NewBoard returns an empty board. Go zero-values the array, so this is
// only here for symmetry with the rest of the package's constructors.
func NewBoard() Board {
	return Board{}
}

// Collides reports whether any of the piece's occupied cells falls outside
// the board or overlaps an already-filled cell. Cells above the board
// (y < 0) never collide with existing blocks — only the floor and the
// side walls are checked there — so a piece may spawn or kick partially
// above the visible playfield.
func (b *Board) Collides(p Piece) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= BoardWidth || c.Y >= BoardHeight {
			return true
		}
		if c.Y >= 0 && b[c.Y][c.X] != 0 {
			return true
		}
	}
	return false
}

// Lock writes the piece's four cells into the board with its cell code.
// The caller must ensure !Collides(p) first; cells above the board are
// silently dropped (a piece should never still be off-board when locked
// under normal play, but a pathological top-out lock must not panic).
func (b *Board) Lock(p Piece) {
	code := p.Kind.CellCode()
	for _, c := range p.Cells() {
		if c.X >= 0 && c.X < BoardWidth && c.Y >= 0 && c.Y < BoardHeight {
			b[c.Y][c.X] = code
		}
	}
}

// ClearLines removes every fully occupied row, shifts the rows above it
// downward, and returns the number of rows cleared (0..4). The scan runs
// bottom-up and compacts into a fresh board, equivalent to removing the
// full-row set and gravity-dropping the remainder.
func (b *Board) ClearLines() int {
	var next Board
	destY := BoardHeight - 1
	cleared := 0
	for y := BoardHeight - 1; y >= 0; y-- {
		if b.rowFull(y) {
			cleared++
			continue
		}
		next[destY] = b[y]
		destY--
	}
	*b = next
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if b[y][x] == 0 {
			return false
		}
	}
	return true
}

// ColumnHeights returns, per column, the distance from the topmost filled
// row to the floor (0 if the column is empty).
func (b *Board) ColumnHeights() [BoardWidth]int {
	var heights [BoardWidth]int
	for x := 0; x < BoardWidth; x++ {
		heights[x] = b.columnHeight(x)
	}
	return heights
}

func (b *Board) columnHeight(x int) int {
	for y := 0; y < BoardHeight; y++ {
		if b[y][x] != 0 {
			return BoardHeight - y
		}
	}
	return 0
}

// HolesPerColumn returns, per column, the count of empty cells strictly
// below that column's topmost filled cell.
func (b *Board) HolesPerColumn() [BoardWidth]int {
	var holes [BoardWidth]int
	for x := 0; x < BoardWidth; x++ {
		holes[x] = b.columnHoles(x)
	}
	return holes
}

func (b *Board) columnHoles(x int) int {
	top := -1
	for y := 0; y < BoardHeight; y++ {
		if b[y][x] != 0 {
			top = y
			break
		}
	}
	if top < 0 {
		return 0
	}
	holes := 0
	for y := top + 1; y < BoardHeight; y++ {
		if b[y][x] == 0 {
			holes++
		}
	}
	return holes
}

// BoardFromCells reconstructs a Board from the flattened row-major cell
// array a wire observation carries, inverting Cells.
func BoardFromCells(cells [BoardWidth * BoardHeight]int) Board {
	var b Board
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			b[y][x] = cells[y*BoardWidth+x]
		}
	}
	return b
}

// Cells flattens the board row-major into a 200-length slice matching the
// wire schema's `cells[y*10 + x]` addressing.
func (b *Board) Cells() [BoardWidth * BoardHeight]int {
	var out [BoardWidth * BoardHeight]int
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			out[y*BoardWidth+x] = b[y][x]
		}
	}
	return out
}
