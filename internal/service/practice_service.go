package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/event"
	"github.com/stemsi/exam-simulator/internal/examsession"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/questionbank"
)

// ErrSessionNotFound is returned for unknown or already dropped session ids.
var ErrSessionNotFound = errors.New("practice session not found")

// PracticeService hosts live practice sessions in memory. Sessions are
// seeded once from the question bank and then driven without further
// bank access.
type PracticeService struct {
	bank      *questionbank.Bank
	publisher event.Publisher
	log       zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*examsession.Session
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(bank *questionbank.Bank, publisher event.Publisher, log zerolog.Logger) *PracticeService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &PracticeService{
		bank:      bank,
		publisher: publisher,
		log:       log.With().Str("component", "practice_service").Logger(),
		sessions:  make(map[string]*examsession.Session),
	}
}

// Start samples questions and registers a new session seeded with them.
func (s *PracticeService) Start(ctx context.Context, req model.StartSessionRequest) (*examsession.Session, error) {
	questions := s.bank.Sample(req.NumQuestions, req.Topic)

	sess, err := examsession.New(uuid.NewString(), questions, req.UserName)
	if err != nil {
		return nil, fmt.Errorf("seed session: %w", err)
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	s.log.Info().
		Str("session_id", sess.ID()).
		Int("requested", req.NumQuestions).
		Int("questions", sess.Len()).
		Msg("Practice session started")

	s.publish(ctx, event.SessionStarted, sess.ID(), map[string]any{
		"userName":  sess.UserName(),
		"questions": sess.Len(),
	})
	if sess.Status() == model.SessionStatusCompleted {
		sum, _ := sess.Summary()
		s.publish(ctx, event.SessionCompleted, sess.ID(), sum)
	}
	return sess, nil
}

// Get returns the live session with the given id.
func (s *PracticeService) Get(id string) (*examsession.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Count returns the number of live sessions.
func (s *PracticeService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Select records an answer choice on the session's current question.
func (s *PracticeService) Select(ctx context.Context, id, option string) (model.SessionView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.SessionView{}, err
	}
	if err := sess.Select(option); err != nil {
		s.logRejected(id, "select", err)
		return model.SessionView{}, err
	}
	return sess.Snapshot(), nil
}

// Submit reveals the session's current answer.
func (s *PracticeService) Submit(ctx context.Context, id string) (model.Reveal, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.Reveal{}, err
	}
	reveal, err := sess.Submit()
	if err != nil {
		s.logRejected(id, "submit", err)
		return model.Reveal{}, err
	}
	s.publish(ctx, event.SessionRevealed, id, reveal)
	return reveal, nil
}

// Advance moves the session to its next question, completing it after the
// last one.
func (s *PracticeService) Advance(ctx context.Context, id string) (model.SessionView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.SessionView{}, err
	}
	sum, err := sess.Advance()
	if err != nil {
		s.logRejected(id, "advance", err)
		return model.SessionView{}, err
	}
	if sum != nil {
		s.log.Info().
			Str("session_id", id).
			Int("questions_completed", sum.QuestionsCompleted).
			Int("correct", sum.CorrectAnswers).
			Int("total_elapsed_seconds", sum.TotalElapsedSeconds).
			Msg("Practice session completed")
		s.publish(ctx, event.SessionCompleted, id, sum)
	}
	return sess.Snapshot(), nil
}

// Summary returns the completion summary of a session.
func (s *PracticeService) Summary(id string) (model.Summary, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.Summary{}, err
	}
	return sess.Summary()
}

// Abandon drops a session. No cleanup is needed beyond forgetting it.
func (s *PracticeService) Abandon(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.log.Info().Str("session_id", id).Msg("Practice session abandoned")
	s.publish(ctx, event.SessionAbandoned, id, nil)
	return nil
}

// Tick advances the timers of every live session by one tick.
func (s *PracticeService) Tick() {
	for _, sess := range s.snapshotSessions() {
		sess.OnTick()
	}
}

// Reap drops sessions whose last activity is older than ttl and returns how
// many were removed.
func (s *PracticeService) Reap(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *PracticeService) snapshotSessions() []*examsession.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*examsession.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *PracticeService) publish(ctx context.Context, typ event.Type, id string, payload any) {
	ev := event.Event{
		Type:       typ,
		SessionID:  id,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", string(typ)).Str("session_id", id).Msg("Failed to publish event")
	}
}

func (s *PracticeService) logRejected(id, op string, err error) {
	s.log.Warn().Err(err).Str("session_id", id).Str("op", op).Msg("Session operation rejected")
}
