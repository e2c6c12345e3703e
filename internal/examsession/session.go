// Package examsession implements a single user's walk through a sampled
// sequence of practice questions: select, submit to reveal, advance.
//
// A Session holds no timer of its own. The surrounding runtime calls OnTick
// once per second.
package examsession

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/exam-simulator/internal/model"
)

// DefaultUserName labels sessions started without a name.
const DefaultUserName = "Guest"

var (
	// ErrInvalidState is returned when an operation is attempted out of sequence.
	ErrInvalidState = errors.New("invalid session state")
	// ErrInvalidOption is returned when a selected option is not one of the
	// current question's choices.
	ErrInvalidOption = errors.New("option is not a choice of the current question")
)

// Session is one user's ordered traversal of a question sequence.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	userName  string
	sequence  []model.Question
	answers   []model.AnswerState
	position  int
	status    model.SessionStatus
	totalSecs int
	questSecs int
	lastTouch time.Time
}

// New seeds a session with questions. Every question is validated and ids
// must be unique. An empty sequence produces a session that is already
// completed with zero questions.
func New(id string, questions []model.Question, userName string) (*Session, error) {
	seen := make(map[string]struct{}, len(questions))
	seq := make([]model.Question, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: question %q appears twice in sequence", model.ErrMalformedQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
		q.Options = append([]string(nil), q.Options...)
		seq[i] = q
	}

	if userName == "" {
		userName = DefaultUserName
	}

	s := &Session{
		id:        id,
		userName:  userName,
		sequence:  seq,
		answers:   make([]model.AnswerState, len(seq)),
		status:    model.SessionStatusInProgress,
		lastTouch: time.Now(),
	}
	for i := range s.answers {
		s.answers[i].Status = model.AnswerUnanswered
	}
	if len(seq) == 0 {
		s.status = model.SessionStatusCompleted
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// UserName returns the display label of the session owner.
func (s *Session) UserName() string {
	return s.userName
}

// Len returns the number of questions in the sequence.
func (s *Session) Len() int {
	return len(s.sequence)
}

// Status returns the session-level state.
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Position returns the index of the current question.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Elapsed returns the total and current-question elapsed seconds.
func (s *Session) Elapsed() (total, question int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSecs, s.questSecs
}

// LastActivity returns the time of the last user-driven operation.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

// Answer returns the answer state recorded for question i.
func (s *Session) Answer(i int) (model.AnswerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.answers) {
		return model.AnswerState{}, fmt.Errorf("%w: question index %d out of range", ErrInvalidState, i)
	}
	return s.answers[i], nil
}

// Current returns the question at the current position.
func (s *Session) Current() (model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == model.SessionStatusCompleted {
		return model.Question{}, fmt.Errorf("%w: session completed", ErrInvalidState)
	}
	return s.sequence[s.position], nil
}

// Select records option as the answer to the current question. Selecting
// again before submitting overwrites the previous choice.
func (s *Session) Select(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.SessionStatusCompleted {
		return fmt.Errorf("%w: session completed", ErrInvalidState)
	}
	if s.answers[s.position].Status == model.AnswerRevealed {
		return fmt.Errorf("%w: answer already revealed", ErrInvalidState)
	}
	if !s.sequence[s.position].HasOption(option) {
		return ErrInvalidOption
	}

	s.answers[s.position] = model.AnswerState{Status: model.AnswerSelected, Option: option}
	s.lastTouch = time.Now()
	return nil
}

// Submit locks in the selected answer and reveals its correctness.
func (s *Session) Submit() (model.Reveal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.SessionStatusCompleted {
		return model.Reveal{}, fmt.Errorf("%w: session completed", ErrInvalidState)
	}
	ans := s.answers[s.position]
	if ans.Status != model.AnswerSelected {
		return model.Reveal{}, fmt.Errorf("%w: no option selected", ErrInvalidState)
	}

	s.answers[s.position].Status = model.AnswerRevealed
	s.lastTouch = time.Now()
	return s.revealLocked(s.position), nil
}

// Advance moves past a revealed question. Past the last question the
// session completes and the summary is returned.
func (s *Session) Advance() (*model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: session completed", ErrInvalidState)
	}
	if s.answers[s.position].Status != model.AnswerRevealed {
		return nil, fmt.Errorf("%w: current answer not revealed", ErrInvalidState)
	}

	s.lastTouch = time.Now()
	if s.position+1 < len(s.sequence) {
		s.position++
		s.questSecs = 0
		s.answers[s.position] = model.AnswerState{Status: model.AnswerUnanswered}
		return nil, nil
	}

	s.status = model.SessionStatusCompleted
	sum := s.summaryLocked()
	return &sum, nil
}

// OnTick advances both timers by one second while the session is in progress.
func (s *Session) OnTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.SessionStatusInProgress {
		return
	}
	s.totalSecs++
	s.questSecs++
}

// IsCorrect reports whether the revealed answer to question i matches the
// correct option.
func (s *Session) IsCorrect(i int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.answers) {
		return false, fmt.Errorf("%w: question index %d out of range", ErrInvalidState, i)
	}
	if s.answers[i].Status != model.AnswerRevealed {
		return false, fmt.Errorf("%w: question %d not revealed", ErrInvalidState, i)
	}
	return s.answers[i].Option == s.sequence[i].Correct, nil
}

// CorrectCount returns how many revealed answers match their correct option.
func (s *Session) CorrectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correctLocked()
}

// Summary returns the completion summary.
func (s *Session) Summary() (model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.SessionStatusCompleted {
		return model.Summary{}, fmt.Errorf("%w: session still in progress", ErrInvalidState)
	}
	return s.summaryLocked(), nil
}

// Snapshot returns a view of the session suitable for display. The correct
// answer and rationale are only included once revealed.
func (s *Session) Snapshot() model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := model.SessionView{
		ID:                     s.id,
		UserName:               s.userName,
		Status:                 s.status,
		Position:               s.position,
		Total:                  len(s.sequence),
		TotalElapsedSeconds:    s.totalSecs,
		QuestionElapsedSeconds: s.questSecs,
		TotalElapsed:           FormatClock(s.totalSecs),
		QuestionElapsed:        FormatClock(s.questSecs),
	}

	if s.status == model.SessionStatusCompleted {
		sum := s.summaryLocked()
		v.Summary = &sum
		if len(s.sequence) == 0 {
			return v
		}
	}

	q := s.sequence[s.position]
	ans := s.answers[s.position]
	v.Current = &model.QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}
	v.Answer = &ans
	if ans.Status == model.AnswerRevealed {
		v.Current.Correct = q.Correct
		v.Current.Rationale = q.Rationale
		r := s.revealLocked(s.position)
		v.Reveal = &r
	}
	return v
}

func (s *Session) revealLocked(i int) model.Reveal {
	q := s.sequence[i]
	opt := s.answers[i].Option
	return model.Reveal{
		QuestionID:     q.ID,
		SelectedOption: opt,
		CorrectOption:  q.Correct,
		IsCorrect:      opt == q.Correct,
		Rationale:      q.Rationale,
	}
}

func (s *Session) correctLocked() int {
	correct := 0
	for i, ans := range s.answers {
		if ans.Status == model.AnswerRevealed && ans.Option == s.sequence[i].Correct {
			correct++
		}
	}
	return correct
}

func (s *Session) summaryLocked() model.Summary {
	return model.Summary{
		UserName:            s.userName,
		QuestionsCompleted:  len(s.sequence),
		CorrectAnswers:      s.correctLocked(),
		TotalElapsedSeconds: s.totalSecs,
		TotalElapsed:        FormatClock(s.totalSecs),
	}
}

// FormatClock renders seconds as mm:ss. Minutes are not wrapped at an hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
