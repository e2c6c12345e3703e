package router_test

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/config"
	"github.com/stemsi/exam-simulator/internal/handler"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/questionbank"
	"github.com/stemsi/exam-simulator/internal/router"
	"github.com/stemsi/exam-simulator/internal/service"
	"github.com/stemsi/exam-simulator/internal/validator"
	ws "github.com/stemsi/exam-simulator/internal/websocket"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	engine   http.Handler
	practice *service.PracticeService
	bank     *questionbank.Bank
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	validator.Setup()

	qs, err := questionbank.DefaultQuestions()
	if err != nil {
		t.Fatalf("default questions: %v", err)
	}
	bank := questionbank.New(qs, zerolog.Nop(), questionbank.WithRand(rand.New(rand.NewPCG(3, 5))))
	questionService := service.NewQuestionService(bank, zerolog.Nop())
	practice := service.NewPracticeService(bank, nil, zerolog.Nop())

	cfg := &config.Config{GinMode: "test", RateLimitPerMinute: 1000}
	handlers := &router.Handlers{
		Question: handler.NewQuestionHandler(questionService),
		Session:  handler.NewSessionHandler(practice),
		WS:       handler.NewWSHandler(practice, 10*time.Millisecond, zerolog.Nop(), nil),
		System:   handler.NewSystemHandler(questionService, practice, nil),
	}
	return &testServer{engine: router.SetupRouter(handlers, cfg), practice: practice, bank: bank}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) *envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", w.Body.String(), err)
	}
	if dst != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return &env
}

func TestSampleQuestions_WireContract(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/questions", `{"numQuestions":3,"topic":"risk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("expected bare JSON array: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(raw))
	}
	for _, field := range []string{"id", "question", "options", "correct", "rationale"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("missing wire field %q", field)
		}
	}
}

func TestSampleQuestions_Bounds(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		body string
		want int
	}{
		{body: `{"numQuestions":1000}`, want: 5},
		{body: `{"numQuestions":0}`, want: 0},
		{body: `{"numQuestions":-2}`, want: 0},
		{body: ``, want: 0},
	}
	for _, tt := range tests {
		w := srv.do(t, http.MethodPost, "/api/questions", tt.body)
		var qs []model.Question
		if err := json.Unmarshal(w.Body.Bytes(), &qs); err != nil {
			t.Fatalf("%s: decode: %v", tt.body, err)
		}
		if qs == nil || len(qs) != tt.want {
			t.Errorf("%s: expected %d questions, got %v", tt.body, tt.want, qs)
		}
	}
}

func TestSampleQuestions_BadPayload(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/questions", `{"numQuestions":"three"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSessionLifecycle_HTTP(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/sessions", `{"numQuestions":2,"userName":"Sam"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: status %d: %s", w.Code, w.Body.String())
	}
	var started struct {
		Session model.SessionView `json:"session"`
	}
	decodeEnvelope(t, w, &started)
	id := started.Session.ID
	if started.Session.Total != 2 || started.Session.Current == nil || started.Session.Current.Correct != "" {
		t.Fatalf("unexpected start view %+v", started.Session)
	}

	base := "/api/v1/sessions/" + id

	// Submitting before choosing is rejected.
	w = srv.do(t, http.MethodPost, base+"/submit", "")
	if env := decodeEnvelope(t, w, nil); w.Code != http.StatusConflict || env.Error.Code != "INVALID_STATE" {
		t.Fatalf("expected 409 INVALID_STATE, got %d %s", w.Code, w.Body.String())
	}

	for i := 0; i < 2; i++ {
		sess, _ := srv.practice.Get(id)
		q, _ := sess.Current()

		w = srv.do(t, http.MethodPost, base+"/select", `{"option":"not a choice"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for foreign option, got %d", w.Code)
		}

		body, _ := json.Marshal(model.SelectOptionRequest{Option: q.Correct})
		w = srv.do(t, http.MethodPost, base+"/select", string(body))
		if w.Code != http.StatusOK {
			t.Fatalf("select: status %d: %s", w.Code, w.Body.String())
		}

		w = srv.do(t, http.MethodPost, base+"/submit", "")
		var revealed struct {
			Reveal model.Reveal `json:"reveal"`
		}
		decodeEnvelope(t, w, &revealed)
		if !revealed.Reveal.IsCorrect || revealed.Reveal.Rationale == "" {
			t.Errorf("expected correct reveal with rationale, got %+v", revealed.Reveal)
		}

		w = srv.do(t, http.MethodGet, base+"/summary", "")
		if w.Code != http.StatusConflict {
			t.Errorf("expected summary unavailable mid-session, got %d", w.Code)
		}

		w = srv.do(t, http.MethodPost, base+"/advance", "")
		if w.Code != http.StatusOK {
			t.Fatalf("advance: status %d: %s", w.Code, w.Body.String())
		}
	}

	w = srv.do(t, http.MethodGet, base+"/summary", "")
	var done struct {
		Summary model.Summary `json:"summary"`
	}
	decodeEnvelope(t, w, &done)
	if done.Summary.QuestionsCompleted != 2 || done.Summary.UserName != "Sam" || done.Summary.CorrectAnswers != 2 {
		t.Errorf("unexpected summary %+v", done.Summary)
	}

	w = srv.do(t, http.MethodPost, base+"/advance", "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 after completion, got %d", w.Code)
	}

	w = srv.do(t, http.MethodDelete, base, "")
	if w.Code != http.StatusOK {
		t.Errorf("abandon: expected 200, got %d", w.Code)
	}
	w = srv.do(t, http.MethodGet, base, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after abandon, got %d", w.Code)
	}
}

func TestSession_ZeroQuestions(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/sessions", `{"numQuestions":0}`)
	var started struct {
		Session model.SessionView `json:"session"`
	}
	decodeEnvelope(t, w, &started)
	if started.Session.Status != model.SessionStatusCompleted || started.Session.Summary == nil || started.Session.Summary.QuestionsCompleted != 0 {
		t.Errorf("expected completed empty session, got %+v", started.Session)
	}
}

func TestSession_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	if w := srv.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if w := srv.do(t, http.MethodGet, "/api/v1/sessions/6f1c1a7e-4b7c-4c55-9d0e-2f7a4f0b9a11", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/health", "")
	var health map[string]interface{}
	decodeEnvelope(t, w, &health)
	if health["status"] != "ok" || health["pool_size"] != float64(5) || health["redis"] != "disabled" {
		t.Errorf("unexpected health %v", health)
	}

	w = srv.do(t, http.MethodGet, "/", "")
	if !strings.Contains(w.Body.String(), "running") {
		t.Errorf("unexpected banner %q", w.Body.String())
	}
}

func TestSessionStream_WebSocket(t *testing.T) {
	srv := newTestServer(t)
	hs := httptest.NewServer(srv.engine)
	defer hs.Close()

	w := srv.do(t, http.MethodPost, "/api/v1/sessions", `{"numQuestions":1}`)
	var started struct {
		Session model.SessionView `json:"session"`
	}
	decodeEnvelope(t, w, &started)
	sess, _ := srv.practice.Get(started.Session.ID)
	q, _ := sess.Current()

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws/v1/sessions/" + started.Session.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// readUntil skips timer pushes and returns the first event of the wanted kind.
	readUntil := func(want ws.Event) map[string]json.RawMessage {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for {
			var msg map[string]json.RawMessage
			if err := conn.ReadJSON(&msg); err != nil {
				t.Fatalf("read waiting for %s: %v", want, err)
			}
			var ev ws.Event
			_ = json.Unmarshal(msg["event"], &ev)
			if ev == want {
				return msg
			}
		}
	}

	readUntil(ws.EventState)
	readUntil(ws.EventTick)

	_ = conn.WriteJSON(ws.RequestPayload{Action: ws.ActionAdvance})
	errMsg := readUntil(ws.EventError)
	if !strings.Contains(string(errMsg["code"]), "INVALID_STATE") {
		t.Errorf("expected INVALID_STATE, got %s", errMsg["code"])
	}

	_ = conn.WriteJSON(ws.RequestPayload{Action: ws.ActionSelect, Option: q.Options[0]})
	readUntil(ws.EventState)

	_ = conn.WriteJSON(ws.RequestPayload{Action: ws.ActionSubmit})
	var reveal model.Reveal
	_ = json.Unmarshal(readUntil(ws.EventRevealed)["reveal"], &reveal)
	if reveal.IsCorrect != (q.Options[0] == q.Correct) {
		t.Errorf("reveal correctness mismatch: %+v", reveal)
	}

	_ = conn.WriteJSON(ws.RequestPayload{Action: ws.ActionAdvance})
	var sum model.Summary
	_ = json.Unmarshal(readUntil(ws.EventCompleted)["summary"], &sum)
	if sum.QuestionsCompleted != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}

	_ = conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing})
	readUntil(ws.EventPong)
}
