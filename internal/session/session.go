package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/strawfall/tetris-engine/internal/agent"
	"github.com/strawfall/tetris-engine/internal/engine"
)

// BaseTickRate is the AI cadence, in decisions per second, at speed 1.0.
// The effective cadence is BaseTickRate * speed ticks per second, so the
// interval between cadence ticks is one second divided by that product.
const BaseTickRate = 10.0

// spawnAnchorX is the x anchor every kind spawns at (engine.spawnAnchors),
// duplicated here so a placement plan can be built without touching engine
// internals: after a spawn or hold swap the active piece is always at this
// column and rotation 0.
const spawnAnchorX = 3

// Session drives one connection's engine instance(s): dispatching client
// messages, stepping the environment, and — in AI modes — querying a
// policy on a cadence and translating its placement decisions into frame
// actions. Narrowed to a single connection: no cross-connection broadcast
// and no room/passcode matchmaking — comparison mode runs two Environments
// inside one connection instead of pairing two users.
type Session struct {
	sm  StateMachine
	env engine.Environment

	policy    agent.Policy
	plan      []engine.Action
	speed     float64
	maxPieces int
	placed    int

	compare *compareRunner
}

// New returns an idle session ready to receive client messages.
func New() *Session {
	return &Session{}
}

// State reports the session's current mode.
func (s *Session) State() State { return s.sm.Current() }

// Handle dispatches one parsed client message and returns zero or more
// outbound wire messages in emission order.
func (s *Session) Handle(msg ClientMessage) ([]interface{}, error) {
	switch msg.Type {
	case MsgHello:
		return []interface{}{HelloReply{Type: MsgOutHello, Version: "1.0", Server: "tetris-engine"}}, nil
	case MsgReset:
		return s.handleReset(msg.Reset)
	case MsgStep:
		return s.handleStep(msg.Step)
	case MsgSubscribe:
		return nil, nil
	case MsgAIPlay:
		return s.handleAIPlay(msg.AIPlay)
	case MsgAIStop:
		return s.handleAIStop()
	case MsgCompareStart:
		return s.handleCompareStart(msg.CompareStart)
	case MsgCompareStop:
		return s.handleCompareStop()
	default:
		return []interface{}{NewErrorMessage(ErrInvalidMessage, fmt.Sprintf("unhandled message type %q", msg.Type))}, nil
	}
}

func (s *Session) handleReset(msg *ResetMsg) ([]interface{}, error) {
	seed := randomSeed()
	if msg.Seed != nil {
		seed = *msg.Seed
	}
	s.policy = nil
	s.plan = nil
	s.compare = nil
	obs := s.env.Reset(seed)
	if err := s.sm.Transition(StateSinglePlaying); err != nil {
		return nil, err
	}
	return []interface{}{observationMessage(obs, engine.Info{})}, nil
}

func (s *Session) handleStep(msg *StepMsg) ([]interface{}, error) {
	if s.sm.Current() == StateIdle {
		return []interface{}{NewErrorMessage(ErrGameNotInitialized, "reset before stepping")}, nil
	}
	if s.env.Done() {
		return []interface{}{NewErrorMessage(ErrGameOver, "episode has topped out")}, nil
	}
	action, err := ParseAction(msg.Action)
	if err != nil {
		return []interface{}{NewErrorMessage(ErrInvalidAction, err.Error())}, nil
	}
	obs, _, _, info := s.env.Step(action)
	return []interface{}{observationMessage(obs, info)}, nil
}

func (s *Session) handleAIPlay(msg *AIPlayMsg) ([]interface{}, error) {
	p, err := agent.New(msg.AgentType, nil)
	if err != nil {
		return []interface{}{NewErrorMessage(ErrInvalidMessage, err.Error())}, nil
	}
	seed := randomSeed()
	if msg.Seed != nil {
		seed = *msg.Seed
	}
	s.policy = p
	s.plan = nil
	s.speed = msg.Speed
	s.maxPieces = msg.MaxPieces
	s.placed = 0
	obs := s.env.Reset(seed)
	if err := s.sm.Transition(StateAIPlaying); err != nil {
		return nil, err
	}
	return []interface{}{observationMessage(obs, engine.Info{})}, nil
}

// handleAIStop finishes any placement already in flight — draining the
// remaining queued rotate/shift/hard-drop actions through the environment —
// before returning control to the client, so AI play never stops with the
// active piece mid-rotation or mid-shift.
func (s *Session) handleAIStop() ([]interface{}, error) {
	if s.sm.Current() != StateAIPlaying {
		return nil, nil
	}
	var msgs []interface{}
	for len(s.plan) > 0 && !s.env.Done() {
		action := s.plan[0]
		s.plan = s.plan[1:]
		obs, _, _, info := s.env.Step(action)
		msgs = append(msgs, observationMessage(obs, info))
	}
	s.policy = nil
	s.plan = nil
	if err := s.sm.Transition(StateIdle); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Advance runs one cadence tick appropriate to the session's current mode.
// It is a no-op returning finished=true outside AIPlaying/Comparing.
func (s *Session) Advance() ([]interface{}, bool, error) {
	switch s.sm.Current() {
	case StateAIPlaying:
		return s.AdvanceAI()
	case StateComparing:
		return s.AdvanceCompare()
	default:
		return nil, true, nil
	}
}

// CadenceInterval returns the delay between AI-cadence timer wakeups for
// the session's configured speed.
func (s *Session) CadenceInterval() time.Duration {
	speed := s.speed
	if speed <= 0 {
		speed = 1.0
	}
	return time.Duration(float64(time.Second) / (BaseTickRate * speed))
}

// AdvanceAI executes one AI-cadence tick: if a placement plan is in
// flight, pop and apply its next frame action; otherwise query the policy
// for a fresh plan. Returns the observation messages produced, and
// whether AI play has now finished (top-out or max_pieces reached).
func (s *Session) AdvanceAI() ([]interface{}, bool, error) {
	if s.sm.Current() != StateAIPlaying {
		return nil, true, nil
	}
	if s.env.Done() {
		return nil, true, nil
	}
	if len(s.plan) == 0 {
		obs := s.env.Observe()
		decision, err := s.policy.Decide(obs)
		if err != nil {
			s.policy = nil
			_ = s.sm.Transition(StateIdle)
			return []interface{}{NewErrorMessage(ErrInvalidMessage, err.Error())}, true, nil
		}
		s.plan = buildPlan(decision)
	}
	action := s.plan[0]
	s.plan = s.plan[1:]
	obs, _, done, info := s.env.Step(action)
	if action == engine.ActionHard {
		s.placed++
	}
	finished := done || (s.maxPieces > 0 && s.placed >= s.maxPieces)
	if finished {
		s.policy = nil
		s.plan = nil
		_ = s.sm.Transition(StateIdle)
	}
	return []interface{}{observationMessage(obs, info)}, finished, nil
}

// buildPlan translates a placement decision into the ordered frame-action
// sequence the environment must be driven through to realize it: an
// optional hold swap, rotation to the target index, a horizontal shift to
// the target column, then a hard drop.
func buildPlan(d agent.Decision) []engine.Action {
	var plan []engine.Action
	if d.UseHold {
		plan = append(plan, engine.ActionHold)
	}
	for i := 0; i < d.Rotation; i++ {
		plan = append(plan, engine.ActionCW)
	}
	dx := d.X - spawnAnchorX
	step := engine.ActionRight
	if dx < 0 {
		step = engine.ActionLeft
		dx = -dx
	}
	for i := 0; i < dx; i++ {
		plan = append(plan, step)
	}
	plan = append(plan, engine.ActionHard)
	return plan
}

func observationMessage(obs engine.Observation, info engine.Info) ObsMessage {
	return ObsMessage{Type: MsgOutObs, Data: obs, Reward: 0, Done: obs.Episode.TopOut, Info: info}
}

func randomSeed() int64 {
	return rand.Int63()
}
