package model

import (
	"errors"
	"fmt"
)

// ErrMalformedQuestion marks a question that cannot be trusted for grading.
var ErrMalformedQuestion = errors.New("malformed question")

// Question represents a single multiple-choice practice question.
// The JSON field names are the wire contract consumed by the exam UI.
type Question struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"question"`
	Options   []string `json:"options"`
	Correct   string   `json:"correct"`
	Rationale string   `json:"rationale"`
}

// Validate checks the structural invariants of a question: a non-empty id and
// prompt, at least one option, unique options and a correct answer that is
// exactly one of the options.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedQuestion)
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: question %q has empty prompt", ErrMalformedQuestion, q.ID)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: question %q has no options", ErrMalformedQuestion, q.ID)
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: question %q repeats option %q", ErrMalformedQuestion, q.ID, opt)
		}
		seen[opt] = struct{}{}
	}

	if _, ok := seen[q.Correct]; !ok {
		return fmt.Errorf("%w: question %q correct answer is not an option", ErrMalformedQuestion, q.ID)
	}
	return nil
}

// HasOption reports whether option is one of the question's choices.
// Comparison is exact, including any letter prefix baked into the text.
func (q *Question) HasOption(option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}

// SampleQuestionsRequest is the payload for drawing questions from the bank.
type SampleQuestionsRequest struct {
	NumQuestions int    `json:"numQuestions"`
	Topic        string `json:"topic" binding:"omitempty,max=100"`
}
