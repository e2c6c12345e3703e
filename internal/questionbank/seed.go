package questionbank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stemsi/exam-simulator/internal/model"
)

//go:embed questions.json
var defaultPool []byte

// DefaultQuestions returns the built-in PMP practice pool.
func DefaultQuestions() ([]model.Question, error) {
	return decode(defaultPool)
}

// LoadFile reads a JSON array of questions from path. An empty path falls
// back to the built-in pool.
func LoadFile(path string) ([]model.Question, error) {
	if path == "" {
		return DefaultQuestions()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) ([]model.Question, error) {
	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
