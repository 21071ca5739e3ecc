package session

import (
	"testing"

	"github.com/strawfall/tetris-engine/internal/agent"
	"github.com/strawfall/tetris-engine/internal/engine"
)

func firstObsMessage(t *testing.T, out []interface{}) ObsMessage {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("expected exactly one outbound message, got %d: %+v", len(out), out)
	}
	msg, ok := out[0].(ObsMessage)
	if !ok {
		t.Fatalf("expected an ObsMessage, got %T", out[0])
	}
	return msg
}

func TestSession_HelloRepliesWithoutChangingState(t *testing.T) {
	s := New()
	out, err := s.Handle(ClientMessage{Type: MsgHello, Hello: &HelloMsg{Version: "1.0"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one reply, got %d", len(out))
	}
	if _, ok := out[0].(HelloReply); !ok {
		t.Errorf("expected a HelloReply, got %T", out[0])
	}
	if s.State() != StateIdle {
		t.Errorf("expected hello to leave the session idle, got %s", s.State())
	}
}

func TestSession_ResetEntersSinglePlaying(t *testing.T) {
	s := New()
	seed := int64(5)
	out, err := s.Handle(ClientMessage{Type: MsgReset, Reset: &ResetMsg{Seed: &seed}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := firstObsMessage(t, out)
	if msg.Data.Episode.Seed != seed {
		t.Errorf("expected seed %d in the observation, got %d", seed, msg.Data.Episode.Seed)
	}
	if s.State() != StateSinglePlaying {
		t.Errorf("expected single_playing after reset, got %s", s.State())
	}
}

func TestSession_StepBeforeResetIsGameNotInitialized(t *testing.T) {
	s := New()
	out, err := s.Handle(ClientMessage{Type: MsgStep, Step: &StepMsg{Action: "HARD"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errMsg, ok := out[0].(ErrorMessage)
	if !ok || errMsg.Code != ErrGameNotInitialized {
		t.Errorf("expected GAME_NOT_INITIALIZED, got %+v", out[0])
	}
}

func TestSession_StepWithInvalidActionReportsError(t *testing.T) {
	s := New()
	seed := int64(1)
	s.Handle(ClientMessage{Type: MsgReset, Reset: &ResetMsg{Seed: &seed}})
	out, err := s.Handle(ClientMessage{Type: MsgStep, Step: &StepMsg{Action: "FLY"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errMsg, ok := out[0].(ErrorMessage)
	if !ok || errMsg.Code != ErrInvalidAction {
		t.Errorf("expected INVALID_ACTION, got %+v", out[0])
	}
}

func TestSession_StepAppliesActionAndReturnsObservation(t *testing.T) {
	s := New()
	seed := int64(1)
	s.Handle(ClientMessage{Type: MsgReset, Reset: &ResetMsg{Seed: &seed}})
	out, err := s.Handle(ClientMessage{Type: MsgStep, Step: &StepMsg{Action: "HARD"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := firstObsMessage(t, out)
	if msg.Type != MsgOutObs {
		t.Errorf("expected obs message type, got %s", msg.Type)
	}
}

func TestSession_AIPlayDrivesPlanToCompletion(t *testing.T) {
	s := New()
	seed := int64(2)
	out, err := s.Handle(ClientMessage{Type: MsgAIPlay, AIPlay: &AIPlayMsg{AgentType: "random", Speed: 1.0, Seed: &seed, MaxPieces: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstObsMessage(t, out)
	if s.State() != StateAIPlaying {
		t.Fatalf("expected ai_playing after ai_play, got %s", s.State())
	}

	finished := false
	for i := 0; i < 100 && !finished; i++ {
		_, done, err := s.AdvanceAI()
		if err != nil {
			t.Fatalf("AdvanceAI returned error: %v", err)
		}
		finished = done
	}
	if !finished {
		t.Fatal("expected AI play to finish within 100 cadence ticks for max_pieces=1")
	}
	if s.State() != StateIdle {
		t.Errorf("expected session to return to idle once AI play finishes, got %s", s.State())
	}
}

func TestSession_AIStopReturnsToIdle(t *testing.T) {
	s := New()
	s.Handle(ClientMessage{Type: MsgAIPlay, AIPlay: &AIPlayMsg{AgentType: "random", Speed: 1.0}})
	if s.State() != StateAIPlaying {
		t.Fatalf("setup failed: expected ai_playing, got %s", s.State())
	}
	_, err := s.Handle(ClientMessage{Type: MsgAIStop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after ai_stop, got %s", s.State())
	}
}

func TestBuildPlan_TranslatesDecisionToFrameActions(t *testing.T) {
	d := agent.Decision{X: 5, Rotation: 2, UseHold: false}
	plan := buildPlan(d)
	cw := 0
	right := 0
	for _, a := range plan {
		switch a {
		case engine.ActionCW:
			cw++
		case engine.ActionRight:
			right++
		}
	}
	if cw != 2 {
		t.Errorf("expected 2 CW actions for rotation 2, got %d", cw)
	}
	if right != 2 {
		t.Errorf("expected 2 RIGHT actions for x=5 (spawnAnchorX=3), got %d", right)
	}
	if plan[len(plan)-1] != engine.ActionHard {
		t.Error("expected the plan to end with a hard drop")
	}
}

func TestBuildPlan_LeadsWithHoldWhenRequested(t *testing.T) {
	d := agent.Decision{X: 3, Rotation: 0, UseHold: true}
	plan := buildPlan(d)
	if len(plan) == 0 || plan[0] != engine.ActionHold {
		t.Errorf("expected a leading HOLD action, got %v", plan)
	}
}
