package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type selectPayload struct {
	Option string `json:"option" binding:"required"`
}

type countPayload struct {
	NumQuestions int `json:"numQuestions"`
}

func bindBody(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBind_MissingRequiredUsesJSONName(t *testing.T) {
	fields := bindBody(t, `{}`, &selectPayload{})
	if _, ok := fields["option"]; !ok {
		t.Errorf("expected error keyed by json name, got %v", fields)
	}
}

func TestBind_EmptyBodyIsValidated(t *testing.T) {
	if fields := bindBody(t, ``, &selectPayload{}); fields == nil {
		t.Error("expected required field error for empty body")
	}

	var p countPayload
	if fields := bindBody(t, ``, &p); fields != nil {
		t.Errorf("expected empty body to bind zero value, got %v", fields)
	}
}

func TestBind_SyntaxError(t *testing.T) {
	fields := bindBody(t, `{"numQuestions":`, &countPayload{})
	if _, ok := fields["detail"]; !ok {
		t.Errorf("expected detail for syntax error, got %v", fields)
	}
}
