package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/response"
	"github.com/stemsi/exam-simulator/internal/service"
	"github.com/stemsi/exam-simulator/internal/validator"
)

// SessionHandler handles practice session endpoints.
type SessionHandler struct {
	practiceService *service.PracticeService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(practiceService *service.PracticeService) *SessionHandler {
	return &SessionHandler{practiceService: practiceService}
}

// StartSession godoc
// POST /api/v1/sessions
// Samples questions and starts a practice session.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.practiceService.Start(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": sess.Snapshot()})
}

// GetSession godoc
// GET /api/v1/sessions/:id
// Returns the current state of a session, including its timers.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sess, err := h.practiceService.Get(id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// SelectOption godoc
// POST /api/v1/sessions/:id/select
// Chooses an answer for the current question. May be repeated until submit.
func (h *SessionHandler) SelectOption(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req model.SelectOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.practiceService.Select(c.Request.Context(), id, req.Option)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// SubmitAnswer godoc
// POST /api/v1/sessions/:id/submit
// Locks in the selected answer and reveals correctness and rationale.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	reveal, err := h.practiceService.Submit(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reveal": reveal})
}

// AdvanceQuestion godoc
// POST /api/v1/sessions/:id/advance
// Moves to the next question; after the last one the session completes and
// the summary is included.
func (h *SessionHandler) AdvanceQuestion(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.practiceService.Advance(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// GetSummary godoc
// GET /api/v1/sessions/:id/summary
// Returns the completion summary. Fails with INVALID_STATE while in progress.
func (h *SessionHandler) GetSummary(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sum, err := h.practiceService.Summary(id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": sum})
}

// AbandonSession godoc
// DELETE /api/v1/sessions/:id
// Drops the session (Start Over / Home).
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.practiceService.Abandon(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session abandoned"})
}

// sessionID parses the :id path parameter, writing a 400 when malformed.
func sessionID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id.String(), true
}
