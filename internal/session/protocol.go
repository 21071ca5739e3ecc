package session

import (
	"encoding/json"
	"fmt"

	"github.com/strawfall/tetris-engine/internal/engine"
)

// MsgType identifies the closed set of client->server and server->client
// message shapes. Every inbound message is parsed once, at
// the connection boundary, into one of these concrete types rather than
// being re-switched on a bare string at each call site.
type MsgType string

const (
	MsgHello        MsgType = "hello"
	MsgReset        MsgType = "reset"
	MsgStep         MsgType = "step"
	MsgSubscribe    MsgType = "subscribe"
	MsgAIPlay       MsgType = "ai_play"
	MsgAIStop       MsgType = "ai_stop"
	MsgCompareStart MsgType = "compare_start"
	MsgCompareStop  MsgType = "compare_stop"

	MsgOutHello           MsgType = "hello"
	MsgOutObs             MsgType = "obs"
	MsgOutCompareObs      MsgType = "compare_obs"
	MsgOutCompareComplete MsgType = "compare_complete"
	MsgOutError           MsgType = "error"
)

// ErrorCode is one of the protocol error codes reported to a client.
type ErrorCode string

const (
	ErrInvalidMessage     ErrorCode = "INVALID_MESSAGE"
	ErrInvalidAction      ErrorCode = "INVALID_ACTION"
	ErrGameNotInitialized ErrorCode = "GAME_NOT_INITIALIZED"
	ErrGameOver           ErrorCode = "GAME_OVER"
	ErrVersionMismatch    ErrorCode = "VERSION_MISMATCH"
)

// envelope is the only shape every inbound message is guaranteed to have:
// enough to decide which concrete type to unmarshal into next.
type envelope struct {
	Type MsgType `json:"type"`
}

// ClientMessage is the parsed result of one inbound frame: at most one of
// its typed fields is set, named by Type (ai_stop and compare_stop carry no
// payload, so none is set for them). Parsing an unrecognized `type`
// or a malformed payload never panics; it produces an error the caller
// turns into an INVALID_MESSAGE reply.
type ClientMessage struct {
	Type MsgType

	Hello        *HelloMsg
	Reset        *ResetMsg
	Step         *StepMsg
	Subscribe    *SubscribeMsg
	AIPlay       *AIPlayMsg
	CompareStart *CompareStartMsg
}

type HelloMsg struct {
	Version string `json:"version"`
}

type ResetMsg struct {
	Seed *int64 `json:"seed,omitempty"`
}

type StepMsg struct {
	Action string `json:"action"`
}

type SubscribeMsg struct {
	Stream string `json:"stream"`
}

type AIPlayMsg struct {
	AgentType string  `json:"agent_type"`
	Speed     float64 `json:"speed"`
	Seed      *int64  `json:"seed,omitempty"`
	MaxPieces int     `json:"max_pieces,omitempty"`
}

type CompareStartMsg struct {
	Agent1    string  `json:"agent1"`
	Agent2    string  `json:"agent2"`
	Speed     float64 `json:"speed"`
	MaxPieces int     `json:"max_pieces"`
	Seed      *int64  `json:"seed,omitempty"`
}

// ParseClientMessage decodes one inbound frame into a ClientMessage. An
// unknown type or a payload that doesn't fit its type's shape returns an
// error; the caller is expected to reply with an `error` message carrying
// ErrInvalidMessage rather than letting a malformed frame take down the
// connection.
func ParseClientMessage(raw []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ClientMessage{}, fmt.Errorf("session: malformed message: %w", err)
	}

	msg := ClientMessage{Type: env.Type}
	switch env.Type {
	case MsgHello:
		msg.Hello = &HelloMsg{}
		return msg, unmarshalInto(raw, msg.Hello)
	case MsgReset:
		msg.Reset = &ResetMsg{}
		return msg, unmarshalInto(raw, msg.Reset)
	case MsgStep:
		msg.Step = &StepMsg{}
		return msg, unmarshalInto(raw, msg.Step)
	case MsgSubscribe:
		msg.Subscribe = &SubscribeMsg{}
		return msg, unmarshalInto(raw, msg.Subscribe)
	case MsgAIPlay:
		msg.AIPlay = &AIPlayMsg{}
		return msg, unmarshalInto(raw, msg.AIPlay)
	case MsgAIStop:
		return msg, nil
	case MsgCompareStart:
		msg.CompareStart = &CompareStartMsg{}
		return msg, unmarshalInto(raw, msg.CompareStart)
	case MsgCompareStop:
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("session: unknown message type %q", env.Type)
	}
}

func unmarshalInto(raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("session: malformed payload: %w", err)
	}
	return nil
}

// ParseAction validates a step message's action string against the closed
// set of frame actions the environment accepts.
func ParseAction(s string) (engine.Action, error) {
	a := engine.Action(s)
	switch a {
	case engine.ActionLeft, engine.ActionRight, engine.ActionCW, engine.ActionCCW,
		engine.ActionSoft, engine.ActionHard, engine.ActionHold, engine.ActionNoop:
		return a, nil
	default:
		return "", fmt.Errorf("session: unknown action %q", s)
	}
}

// HelloReply is the server's handshake response.
type HelloReply struct {
	Type    MsgType `json:"type"`
	Version string  `json:"version"`
	Server  string  `json:"server"`
}

// ObsMessage wraps one observation plus its step result for the wire.
type ObsMessage struct {
	Type   MsgType            `json:"type"`
	Data   engine.Observation `json:"data"`
	Reward int                `json:"reward"`
	Done   bool               `json:"done"`
	Info   engine.Info        `json:"info"`
}

// ErrorMessage is the wire shape for a protocol error.
type ErrorMessage struct {
	Type    MsgType   `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// NewErrorMessage builds a protocol error reply.
func NewErrorMessage(code ErrorCode, message string) ErrorMessage {
	return ErrorMessage{Type: MsgOutError, Code: code, Message: message}
}
