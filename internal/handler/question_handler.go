package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/response"
	"github.com/stemsi/exam-simulator/internal/service"
	"github.com/stemsi/exam-simulator/internal/validator"
)

// QuestionHandler handles question sampling endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// SampleQuestions godoc
// POST /api/questions
// Returns a randomly ordered, non-repeating subset of the pool. The body is a
// bare JSON array: exam clients read the question fields directly.
func (h *QuestionHandler) SampleQuestions(c *gin.Context) {
	var req model.SampleQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	c.JSON(http.StatusOK, h.questionService.Sample(c.Request.Context(), req))
}
