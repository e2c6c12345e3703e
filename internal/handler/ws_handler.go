package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/examsession"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/service"
	ws "github.com/stemsi/exam-simulator/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a practice session over a WebSocket.
type WSHandler struct {
	practiceService *service.PracticeService
	tickInterval    time.Duration
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. tickInterval controls how often
// timer updates are pushed to the client.
func NewWSHandler(practiceService *service.PracticeService, tickInterval time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &WSHandler{
		practiceService: practiceService,
		tickInterval:    tickInterval,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:id/stream
// Upgrades to WebSocket; accepts select/submit/advance/ping actions and pushes
// state, reveal, completion and timer events.
func (h *WSHandler) SessionStream(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sess, err := h.practiceService.Get(id)
	if err != nil {
		failFromError(c, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", id).Logger()
	wsLog.Info().Msg("Client connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	_ = conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: sess.Snapshot()})
	go h.pushTicks(ctx, conn, sess)

	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSelect:
			h.handleSelect(ctx, conn, id, msg.Option)
		case ws.ActionSubmit:
			h.handleSubmit(ctx, conn, id)
		case ws.ActionAdvance:
			h.handleAdvance(ctx, conn, id)
		case ws.ActionPing:
			_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = conn.WriteError("UNKNOWN_ACTION", "unknown action: "+string(msg.Action))
		}
	}
}

func (h *WSHandler) handleSelect(ctx context.Context, conn *ws.Conn, id, option string) {
	view, err := h.practiceService.Select(ctx, id, option)
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	_ = conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: view})
}

func (h *WSHandler) handleSubmit(ctx context.Context, conn *ws.Conn, id string) {
	reveal, err := h.practiceService.Submit(ctx, id)
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	_ = conn.WriteTyped(ws.RevealedResponse{Event: ws.EventRevealed, Reveal: reveal})
}

func (h *WSHandler) handleAdvance(ctx context.Context, conn *ws.Conn, id string) {
	view, err := h.practiceService.Advance(ctx, id)
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	if view.Status == model.SessionStatusCompleted && view.Summary != nil {
		_ = conn.WriteTyped(ws.CompletedResponse{Event: ws.EventCompleted, Summary: *view.Summary})
		return
	}
	_ = conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: view})
}

// pushTicks sends the session timers until ctx ends or the session completes.
func (h *WSHandler) pushTicks(ctx context.Context, conn *ws.Conn, sess *examsession.Session) {
	t := time.NewTicker(h.tickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if sess.Status() == model.SessionStatusCompleted {
				return
			}
			total, question := sess.Elapsed()
			err := conn.WriteTyped(ws.TickResponse{
				Event:                  ws.EventTick,
				TotalElapsedSeconds:    total,
				QuestionElapsedSeconds: question,
				TotalElapsed:           examsession.FormatClock(total),
				QuestionElapsed:        examsession.FormatClock(question),
			})
			if err != nil {
				return
			}
		}
	}
}

func writeDomainError(conn *ws.Conn, err error) {
	_, code := classify(err)
	_ = conn.WriteError(string(code), err.Error())
}
