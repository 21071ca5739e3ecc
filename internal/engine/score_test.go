package engine

import "testing"

func TestLineClearScore_KnownValues(t *testing.T) {
	cases := map[int]int{0: 0, 1: 100, 2: 300, 3: 500, 4: 800}
	for lines, want := range cases {
		if got := LineClearScore(lines); got != want {
			t.Errorf("LineClearScore(%d) = %d, want %d", lines, got, want)
		}
	}
}

// Score must increase by exactly one of {0,100,300,500,800} on any
// single lock.
func TestLineClearScore_OnlyLegalDeltas(t *testing.T) {
	legal := map[int]bool{0: true, 100: true, 300: true, 500: true, 800: true}
	for lines := 0; lines <= 4; lines++ {
		if !legal[LineClearScore(lines)] {
			t.Errorf("LineClearScore(%d) = %d is not one of the legal deltas", lines, LineClearScore(lines))
		}
	}
}
