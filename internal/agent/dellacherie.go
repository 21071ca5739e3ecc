package agent

import (
	"github.com/strawfall/tetris-engine/internal/engine"
)

// dellacherieWeights are the default coefficients for each post-placement
// factor, signed so the policy favors low landing height, more lines
// eliminated, and fewer transitions/holes/wells.
var dellacherieWeights = map[string]float64{
	"landing_height":  -1.0,
	"rows_eliminated": 1.0,
	"row_transitions": -1.0,
	"col_transitions": -1.0,
	"holes":           -4.0,
	"well_sums":       -1.0,
}

// DellacheriePolicy scores each legal placement by a weighted sum of
// post-placement board factors and chooses the maximum.
type DellacheriePolicy struct {
	weights map[string]float64
}

// NewDellacheriePolicy builds a policy from the default weights, overridden
// key-by-key by any entries present in config.
func NewDellacheriePolicy(config map[string]float64) *DellacheriePolicy {
	weights := make(map[string]float64, len(dellacherieWeights))
	for k, v := range dellacherieWeights {
		weights[k] = v
	}
	for k, v := range config {
		weights[k] = v
	}
	return &DellacheriePolicy{weights: weights}
}

func (p *DellacheriePolicy) Decide(obs engine.Observation) (Decision, error) {
	if len(obs.LegalMoves) == 0 {
		return Decision{}, ErrNoLegalMoves
	}

	bestScore := 0.0
	best := obs.LegalMoves[0]
	haveBest := false
	for _, m := range obs.LegalMoves {
		kind := placedKind(obs, m)
		score := p.scorePlacement(obs, kind, m)
		if !haveBest || score > bestScore {
			bestScore = score
			best = m
			haveBest = true
		}
	}
	return Decision{X: best.X, Rotation: best.Rotation, UseHold: best.UseHold, HardDropY: best.HardDropY}, nil
}

// placedKind is the tetromino kind a legal move actually places: the
// active piece's kind, or — when the move swaps through hold — the held
// kind (or the next bag kind if hold is currently empty).
func placedKind(obs engine.Observation, m engine.LegalMove) engine.Kind {
	if !m.UseHold {
		return obs.Current.Kind
	}
	if obs.Hold.HasPiece {
		return obs.Hold.Kind
	}
	return obs.NextQueue[0]
}

func (p *DellacheriePolicy) scorePlacement(obs engine.Observation, kind engine.Kind, m engine.LegalMove) float64 {
	board := engine.BoardFromCells(obs.Board.Cells)
	placed := engine.Piece{Kind: kind, X: m.X, Y: m.HardDropY, Rotation: m.Rotation}
	board.Lock(placed)

	cells := placed.Cells()
	sumY := 0
	for _, c := range cells {
		sumY += c.Y
	}
	midRow := float64(sumY) / 4.0
	landingHeight := float64(engine.BoardHeight) - midRow

	rowsEliminated := board.ClearLines()

	features := engine.ExtractFeatures(&board)
	wellSums := 0.0
	for _, d := range engine.WellDepths(&board) {
		wellSums += float64(d*(d+1)) / 2.0
	}

	w := p.weights
	return w["landing_height"]*landingHeight +
		w["rows_eliminated"]*float64(rowsEliminated) +
		w["row_transitions"]*float64(features.RowTrans) +
		w["col_transitions"]*float64(features.ColTrans) +
		w["holes"]*float64(features.Holes) +
		w["well_sums"]*wellSums
}
