package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/questionbank"
)

// QuestionService serves question sampling requests.
type QuestionService struct {
	bank *questionbank.Bank
	log  zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(bank *questionbank.Bank, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		bank: bank,
		log:  log.With().Str("component", "question_service").Logger(),
	}
}

// Sample draws up to count questions from the bank in random order.
func (s *QuestionService) Sample(ctx context.Context, req model.SampleQuestionsRequest) []model.Question {
	questions := s.bank.Sample(req.NumQuestions, req.Topic)

	s.log.Debug().
		Int("requested", req.NumQuestions).
		Int("returned", len(questions)).
		Msg("Questions sampled")

	return questions
}

// PoolSize returns the number of questions available for sampling.
func (s *QuestionService) PoolSize() int {
	return s.bank.Size()
}
