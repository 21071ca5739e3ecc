package session

import (
	"github.com/strawfall/tetris-engine/internal/agent"
	"github.com/strawfall/tetris-engine/internal/engine"
)

// compareRunner drives two Environments seeded identically so their piece
// streams coincide, advancing each side by one complete placement per
// cadence tick (lock-step by pieces placed, not by ticks).
type compareRunner struct {
	env1, env2       engine.Environment
	policy1, policy2 agent.Policy
	maxPieces        int
	placed1, placed2 int
	linesTotal1      int
	linesTotal2      int
	clearCount1      int
	clearCount2      int
}

// CompareObsMessage pairs both sides' observations with running comparison
// stats (`compare_obs`).
type CompareObsMessage struct {
	Type       MsgType            `json:"type"`
	Game1      engine.Observation `json:"game1"`
	Game2      engine.Observation `json:"game2"`
	Comparison ComparisonStats    `json:"comparison"`
}

// ComparisonStats is the running leader/efficiency summary emitted with
// every paired observation.
type ComparisonStats struct {
	Leader            int     `json:"leader"`
	PointsPerLine1    float64 `json:"points_per_line_1"`
	PointsPerLine2    float64 `json:"points_per_line_2"`
	AvgLinesPerClear1 float64 `json:"avg_lines_per_clear_1"`
	AvgLinesPerClear2 float64 `json:"avg_lines_per_clear_2"`
}

// CompareCompleteMessage is the terminal summary emitted once both sides
// have finished (`compare_complete`).
type CompareCompleteMessage struct {
	Type   MsgType            `json:"type"`
	Winner int                `json:"winner"`
	Game1  engine.Observation `json:"game1"`
	Game2  engine.Observation `json:"game2"`
}

func (s *Session) handleCompareStart(msg *CompareStartMsg) ([]interface{}, error) {
	p1, err := agent.New(msg.Agent1, nil)
	if err != nil {
		return []interface{}{NewErrorMessage(ErrInvalidMessage, err.Error())}, nil
	}
	p2, err := agent.New(msg.Agent2, nil)
	if err != nil {
		return []interface{}{NewErrorMessage(ErrInvalidMessage, err.Error())}, nil
	}
	seed := randomSeed()
	if msg.Seed != nil {
		seed = *msg.Seed
	}

	cr := &compareRunner{policy1: p1, policy2: p2, maxPieces: msg.MaxPieces}
	obs1 := cr.env1.Reset(seed)
	obs2 := cr.env2.Reset(seed)
	s.compare = cr
	s.speed = msg.Speed
	if err := s.sm.Transition(StateComparing); err != nil {
		return nil, err
	}
	return []interface{}{cr.pairedMessage(obs1, obs2)}, nil
}

func (s *Session) handleCompareStop() ([]interface{}, error) {
	if s.sm.Current() != StateComparing {
		return nil, nil
	}
	s.compare = nil
	if err := s.sm.Transition(StateIdle); err != nil {
		return nil, err
	}
	return nil, nil
}

// AdvanceCompare runs one cadence tick of comparison mode: each side that
// hasn't finished completes exactly one more placement, then a paired
// observation (or, once both sides are finished, the terminal summary) is
// returned.
func (s *Session) AdvanceCompare() ([]interface{}, bool, error) {
	if s.sm.Current() != StateComparing || s.compare == nil {
		return nil, true, nil
	}
	cr := s.compare

	obs1 := cr.advanceSide(&cr.env1, cr.policy1, &cr.placed1, &cr.linesTotal1, &cr.clearCount1, cr.maxPieces)
	obs2 := cr.advanceSide(&cr.env2, cr.policy2, &cr.placed2, &cr.linesTotal2, &cr.clearCount2, cr.maxPieces)

	side1Done := cr.env1.Done() || (cr.maxPieces > 0 && cr.placed1 >= cr.maxPieces)
	side2Done := cr.env2.Done() || (cr.maxPieces > 0 && cr.placed2 >= cr.maxPieces)

	if side1Done && side2Done {
		winner := 0
		if obs1.Episode.Score > obs2.Episode.Score {
			winner = 1
		} else if obs2.Episode.Score > obs1.Episode.Score {
			winner = 2
		}
		s.compare = nil
		_ = s.sm.Transition(StateIdle)
		return []interface{}{CompareCompleteMessage{Type: MsgOutCompareComplete, Winner: winner, Game1: obs1, Game2: obs2}}, true, nil
	}
	return []interface{}{cr.pairedMessage(obs1, obs2)}, false, nil
}

// advanceSide drives one environment through exactly one full placement
// (a fresh policy decision, then its whole action plan through HARD),
// unless that side has already topped out or reached max_pieces.
func (cr *compareRunner) advanceSide(env *engine.Environment, policy agent.Policy, placed, linesTotal, clearCount *int, maxPieces int) engine.Observation {
	if env.Done() || (maxPieces > 0 && *placed >= maxPieces) {
		return env.Observe()
	}
	obs := env.Observe()
	decision, err := policy.Decide(obs)
	if err != nil {
		return obs
	}
	plan := buildPlan(decision)
	var last engine.Observation
	for _, action := range plan {
		var info engine.Info
		last, _, _, info = env.Step(action)
		for _, ev := range info.Events {
			if ev == engine.EventClear {
				*clearCount++
			}
		}
		if env.Done() {
			break
		}
	}
	*linesTotal = last.Episode.LinesTotal
	*placed++
	return last
}

func (cr *compareRunner) pairedMessage(obs1, obs2 engine.Observation) CompareObsMessage {
	leader := 0
	if obs1.Episode.Score > obs2.Episode.Score {
		leader = 1
	} else if obs2.Episode.Score > obs1.Episode.Score {
		leader = 2
	}
	return CompareObsMessage{
		Type:  MsgOutCompareObs,
		Game1: obs1,
		Game2: obs2,
		Comparison: ComparisonStats{
			Leader:            leader,
			PointsPerLine1:    pointsPerLine(obs1),
			PointsPerLine2:    pointsPerLine(obs2),
			AvgLinesPerClear1: avgLinesPerClear(cr.linesTotal1, cr.clearCount1),
			AvgLinesPerClear2: avgLinesPerClear(cr.linesTotal2, cr.clearCount2),
		},
	}
}

func pointsPerLine(obs engine.Observation) float64 {
	if obs.Episode.LinesTotal == 0 {
		return 0
	}
	return float64(obs.Episode.Score) / float64(obs.Episode.LinesTotal)
}

func avgLinesPerClear(linesTotal, clearCount int) float64 {
	if clearCount == 0 {
		return 0
	}
	return float64(linesTotal) / float64(clearCount)
}
