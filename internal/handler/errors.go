package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exam-simulator/internal/examsession"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/response"
	"github.com/stemsi/exam-simulator/internal/service"
)

// classify maps a domain error to its HTTP status and API error code.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionNotFound
	case errors.Is(err, examsession.ErrInvalidState):
		return http.StatusConflict, response.ErrInvalidState
	case errors.Is(err, examsession.ErrInvalidOption):
		return http.StatusBadRequest, response.ErrInvalidOption
	case errors.Is(err, model.ErrMalformedQuestion):
		return http.StatusUnprocessableEntity, response.ErrMalformedQuestion
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func failFromError(c *gin.Context, err error) {
	status, code := classify(err)
	response.Fail(c, status, code)
}
