package websocket

import "github.com/stemsi/exam-simulator/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect  Action = "select"
	ActionSubmit  Action = "submit"
	ActionAdvance Action = "advance"
	ActionPing    Action = "ping"
)

// RequestPayload is the single inbound message shape; Option is only read
// for select.
type RequestPayload struct {
	Action Action `json:"action"`
	Option string `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventTick      Event = "tick"
	EventRevealed  Event = "revealed"
	EventCompleted Event = "completed"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

type StateResponse struct {
	Event   Event             `json:"event"`
	Session model.SessionView `json:"session"`
}

type TickResponse struct {
	Event                  Event  `json:"event"`
	TotalElapsedSeconds    int    `json:"totalElapsedSeconds"`
	QuestionElapsedSeconds int    `json:"questionElapsedSeconds"`
	TotalElapsed           string `json:"totalElapsed"`
	QuestionElapsed        string `json:"questionElapsed"`
}

type RevealedResponse struct {
	Event  Event        `json:"event"`
	Reveal model.Reveal `json:"reveal"`
}

type CompletedResponse struct {
	Event   Event         `json:"event"`
	Summary model.Summary `json:"summary"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
