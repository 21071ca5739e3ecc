package engine

import "encoding/json"

// SchemaVersion tags the wire shape of Observation. Bump it whenever a
// field is added, renamed, or reinterpreted.
const SchemaVersion = "s1.0.0"

// BoardView is the serializable projection of a Board plus its derived
// column statistics.
type BoardView struct {
	W           int                           `json:"w"`
	H           int                           `json:"h"`
	Cells       [BoardWidth * BoardHeight]int `json:"cells"`
	RowHeights  [BoardWidth]int               `json:"row_heights"`
	HolesPerCol [BoardWidth]int               `json:"holes_per_col"`
}

// CurrentPieceView describes the active piece's position and orientation.
type CurrentPieceView struct {
	Kind     Kind `json:"type"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Rotation int  `json:"rot"`
}

// HoldView is the hold slot: either empty, or holding a kind that may or
// may not have already been used this piece lifecycle. HasPiece is never
// part of the wire shape; MarshalJSON/UnmarshalJSON fold it into `type`
// being null rather than a kind string.
type HoldView struct {
	Kind     Kind
	HasPiece bool
	Used     bool
}

type holdWire struct {
	Type *Kind `json:"type"`
	Used bool  `json:"used"`
}

// MarshalJSON emits `type: null` for an empty hold slot instead of the
// zero-value kind string.
func (h HoldView) MarshalJSON() ([]byte, error) {
	w := holdWire{Used: h.Used}
	if h.HasPiece {
		k := h.Kind
		w.Type = &k
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON: a null `type` decodes to an
// empty hold slot.
func (h *HoldView) UnmarshalJSON(data []byte) error {
	var w holdWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	h.Used = w.Used
	if w.Type != nil {
		h.HasPiece = true
		h.Kind = *w.Type
	} else {
		h.HasPiece = false
		h.Kind = 0
	}
	return nil
}

// EpisodeView is the episode-level state carried on every observation.
type EpisodeView struct {
	Score      int   `json:"score"`
	LinesTotal int   `json:"lines_total"`
	TopOut     bool  `json:"top_out"`
	Seed       int64 `json:"seed"`
}

// Observation is an immutable snapshot of the environment at a tick
// boundary: board, active piece, lookahead, hold, features, episode state
// and the full legal-move set. Constructed once per step, then discarded.
type Observation struct {
	SchemaVersion string           `json:"schema_version"`
	Tick          int              `json:"tick"`
	Board         BoardView        `json:"board"`
	Current       CurrentPieceView `json:"current"`
	NextQueue     [3]Kind          `json:"next_queue"`
	Hold          HoldView         `json:"hold"`
	Features      Features         `json:"features"`
	Episode       EpisodeView      `json:"episode"`
	LegalMoves    []LegalMove      `json:"legal_moves"`
}

// Event is one notable occurrence during a step, reported in Info.Events
// in the order it happened.
type Event string

const (
	EventSpawn    Event = "spawn"
	EventHardDrop Event = "hard_drop"
	EventLock     Event = "lock"
	EventClear    Event = "clear"
	EventTopOut   Event = "top_out"
)

// Info accompanies every step result: the ordered events of that tick and
// the per-feature delta relative to the pre-step observation.
type Info struct {
	Events []Event  `json:"events"`
	Delta  Features `json:"delta"`
}

func subtractFeatures(after, before Features) Features {
	return Features{
		AggHeight: after.AggHeight - before.AggHeight,
		Bumpiness: after.Bumpiness - before.Bumpiness,
		Holes:     after.Holes - before.Holes,
		RowTrans:  after.RowTrans - before.RowTrans,
		ColTrans:  after.ColTrans - before.ColTrans,
		WellMax:   after.WellMax - before.WellMax,
	}
}
