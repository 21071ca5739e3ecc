package engine

// Spin is the direction of a requested rotation.
type Spin int

const (
	SpinCW Spin = iota
	SpinCCW
)

// Kick is a candidate (dx, dy) translation tried after a basic rotation.
// Offsets are in the engine's y-down convention (y increases toward the
// floor); a table ported from a y-up source must have its dy negated,
// consistent throughout.
type Kick struct {
	DX, DY int
}

// kickKey identifies a rotation transition by its from/to rotation indices.
type kickKey struct {
	From, To int
}

// jlstzKicks is the common SRS kick table shared by J, L, S, T, Z.
var jlstzKicks = map[kickKey][5]Kick{
	{0, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{1, 0}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{1, 2}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{2, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{2, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{3, 2}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{3, 0}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{0, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
}

// iKicks is the SRS kick table specific to the I-piece.
var iKicks = map[kickKey][5]Kick{
	{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
}

// oKicks is the trivial identity kick for the O-piece, which never needs a
// translation to rotate (all four of its rotation states are the same shape).
var oKicks = []Kick{{0, 0}}

// KicksFor returns, in order, the offsets to try when rotating kind k from
// rotation `from` to rotation `to`. The first entry is always (0,0).
func KicksFor(k Kind, from, to int) []Kick {
	if k == KindO {
		return oKicks[:]
	}
	key := kickKey{From: from, To: to}
	if k == KindI {
		table := iKicks[key]
		return table[:]
	}
	table := jlstzKicks[key]
	return table[:]
}

// TargetRotation returns the rotation index reached by spinning from a
// given rotation in the requested direction.
func TargetRotation(from int, spin Spin) int {
	if spin == SpinCW {
		return (from + 1) % rotationCount
	}
	return (from - 1 + rotationCount) % rotationCount
}
