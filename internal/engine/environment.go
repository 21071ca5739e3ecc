package engine

// GravityTicks is the number of step ticks between automatic one-cell
// descents while the active piece is airborne.
const GravityTicks = 48

// Action is one frame-level command accepted by Environment.Step.
type Action string

const (
	ActionLeft  Action = "LEFT"
	ActionRight Action = "RIGHT"
	ActionCW    Action = "CW"
	ActionCCW   Action = "CCW"
	ActionSoft  Action = "SOFT"
	ActionHard  Action = "HARD"
	ActionHold  Action = "HOLD"
	ActionNoop  Action = "NOOP"
)

// Environment owns the board, bag, hold slot, active piece, lock timer and
// episode state for a single game. Nothing about it is shared between
// connections; the session exclusively owns each instance it creates.
type Environment struct {
	board  Board
	bag    *Bag
	hold   HoldView
	active Piece
	lock   LockTimer
	tick   int
	score  int
	lines  int
	topOut bool
	seed   int64
}

// Reset initializes a fresh episode from seed: empty board, a bag seeded
// from it, an empty hold slot, and the first spawned piece. If the spawn
// itself collides the episode is marked top_out immediately.
func (e *Environment) Reset(seed int64) Observation {
	e.board = NewBoard()
	e.bag = NewBag(seed)
	e.hold = HoldView{}
	e.lock = LockTimer{}
	e.tick = 0
	e.score = 0
	e.lines = 0
	e.topOut = false
	e.seed = seed
	e.active = Spawn(e.bag.Next())
	if e.board.Collides(e.active) {
		e.topOut = true
	} else {
		e.refreshGroundState()
	}
	return e.observation()
}

// Done reports whether the episode has ended (top-out).
func (e *Environment) Done() bool { return e.topOut }

// Observe returns the current observation without advancing the episode.
func (e *Environment) Observe() Observation { return e.observation() }

// Step applies one frame action and returns the resulting observation,
// reward (always zero; reward shaping is a consumer concern), done flag,
// and the events/feature-delta produced by this tick.
func (e *Environment) Step(action Action) (Observation, int, bool, Info) {
	before := ExtractFeatures(&e.board)
	var events []Event

	if e.topOut {
		obs := e.observation()
		return obs, 0, true, Info{Events: nil, Delta: Features{}}
	}

	switch action {
	case ActionLeft:
		e.applyHorizontal(-1)
	case ActionRight:
		e.applyHorizontal(1)
	case ActionCW:
		e.applyRotation(SpinCW)
	case ActionCCW:
		e.applyRotation(SpinCCW)
	case ActionSoft:
		e.applySoftDrop()
	case ActionHard:
		e.applyHardDrop(&events)
	case ActionHold:
		e.applyHold(&events)
	case ActionNoop:
	}

	if !e.topOut {
		e.tick++
		e.advanceGravityAndLock(&events)
	}

	after := ExtractFeatures(&e.board)
	obs := e.observation()
	return obs, 0, e.topOut, Info{Events: events, Delta: subtractFeatures(after, before)}
}

func (e *Environment) applyHorizontal(dx int) {
	wasGrounded := e.lock.Grounded()
	moved := e.active.MovedBy(dx, 0)
	if e.board.Collides(moved) {
		return
	}
	e.active = moved
	e.refreshGroundState()
	if wasGrounded && e.lock.Grounded() {
		e.lock.ResetOnAction()
	}
}

func (e *Environment) applyRotation(spin Spin) {
	wasGrounded := e.lock.Grounded()
	from := e.active.Rotation
	to := TargetRotation(from, spin)
	for _, k := range KicksFor(e.active.Kind, from, to) {
		candidate := e.active.WithRotation(to).MovedBy(k.DX, k.DY)
		if !e.board.Collides(candidate) {
			e.active = candidate
			e.refreshGroundState()
			if wasGrounded && e.lock.Grounded() {
				e.lock.ResetOnAction()
			}
			return
		}
	}
}

func (e *Environment) applySoftDrop() {
	moved := e.active.MovedBy(0, 1)
	if !e.board.Collides(moved) {
		e.active = moved
	}
	e.refreshGroundState()
}

func (e *Environment) applyHardDrop(events *[]Event) {
	for !e.board.Collides(e.active.MovedBy(0, 1)) {
		e.active = e.active.MovedBy(0, 1)
	}
	*events = append(*events, EventHardDrop)
	e.lockActive(events)
}

func (e *Environment) applyHold(events *[]Event) {
	if e.hold.Used {
		return
	}
	var nextActiveKind Kind
	if e.hold.HasPiece {
		nextActiveKind = e.hold.Kind
		e.hold.Kind = e.active.Kind
	} else {
		nextActiveKind = e.bag.Next()
		e.hold.Kind = e.active.Kind
	}
	e.hold.HasPiece = true
	e.hold.Used = true
	e.active = Spawn(nextActiveKind)
	if e.board.Collides(e.active) {
		e.topOut = true
		*events = append(*events, EventTopOut)
		return
	}
	e.lock = LockTimer{}
	e.refreshGroundState()
}

// advanceGravityAndLock runs the post-action gravity/lock-delay phase of a
// tick: if the piece is grounded, the lock-delay timer advances and may
// trigger a lock; otherwise gravity drops it every GravityTicks ticks.
func (e *Environment) advanceGravityAndLock(events *[]Event) {
	if e.lock.Grounded() {
		if e.lock.Tick() {
			e.lockActive(events)
		}
		return
	}
	if e.tick%GravityTicks == 0 {
		moved := e.active.MovedBy(0, 1)
		if !e.board.Collides(moved) {
			e.active = moved
		}
		e.refreshGroundState()
	}
}

// lockActive writes the active piece into the board, clears full rows,
// updates score, clears hold.used, and spawns the next piece (top-out if
// the spawn itself collides).
func (e *Environment) lockActive(events *[]Event) {
	e.board.Lock(e.active)
	*events = append(*events, EventLock)
	if cleared := e.board.ClearLines(); cleared > 0 {
		e.score += LineClearScore(cleared)
		e.lines += cleared
		*events = append(*events, EventClear)
	}
	e.hold.Used = false
	e.active = Spawn(e.bag.Next())
	*events = append(*events, EventSpawn)
	e.lock = LockTimer{}
	if e.board.Collides(e.active) {
		e.topOut = true
		*events = append(*events, EventTopOut)
		return
	}
	e.refreshGroundState()
}

// refreshGroundState enters or leaves the grounded lock-delay state to
// match whether the active piece currently rests on something.
func (e *Environment) refreshGroundState() {
	grounded := e.board.Collides(e.active.MovedBy(0, 1))
	switch {
	case grounded && !e.lock.Grounded():
		e.lock.EnterGrounded()
	case !grounded && e.lock.Grounded():
		e.lock.EnterAirborne()
	}
}

func (e *Environment) observation() Observation {
	heights := e.board.ColumnHeights()
	holes := e.board.HolesPerColumn()
	next := e.bag.Peek(3)
	var nextQueue [3]Kind
	copy(nextQueue[:], next)

	var legal []LegalMove
	if !e.topOut {
		legal = LegalMoves(&e.board, e.active.Kind, e.hold.Kind, e.hold.HasPiece, e.hold.Used, nextQueue[0])
	}

	return Observation{
		SchemaVersion: SchemaVersion,
		Tick:          e.tick,
		Board: BoardView{
			W:           BoardWidth,
			H:           BoardHeight,
			Cells:       e.board.Cells(),
			RowHeights:  heights,
			HolesPerCol: holes,
		},
		Current: CurrentPieceView{
			Kind:     e.active.Kind,
			X:        e.active.X,
			Y:        e.active.Y,
			Rotation: e.active.Rotation,
		},
		NextQueue: nextQueue,
		Hold:      e.hold,
		Features:  ExtractFeatures(&e.board),
		Episode: EpisodeView{
			Score:      e.score,
			LinesTotal: e.lines,
			TopOut:     e.topOut,
			Seed:       e.seed,
		},
		LegalMoves: legal,
	}
}
