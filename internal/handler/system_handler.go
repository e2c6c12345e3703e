package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exam-simulator/internal/response"
	"github.com/stemsi/exam-simulator/internal/service"
)

// SystemHandler reports service liveness.
type SystemHandler struct {
	questionService *service.QuestionService
	practiceService *service.PracticeService
	rdb             *redis.Client // nil when event publishing is disabled
	startTime       time.Time
}

func NewSystemHandler(questionService *service.QuestionService, practiceService *service.PracticeService, rdb *redis.Client) *SystemHandler {
	return &SystemHandler{
		questionService: questionService,
		practiceService: practiceService,
		rdb:             rdb,
		startTime:       time.Now(),
	}
}

// Banner godoc
// GET /
// Plain-text confirmation that the backend is running.
func (h *SystemHandler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "PMP Exam Simulator Backend is running!")
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	redisStatus := "disabled"
	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
			status = "degraded"
		} else {
			redisStatus = "ok"
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":        status,
		"uptime":        formatDuration(time.Since(h.startTime)),
		"pool_size":     h.questionService.PoolSize(),
		"live_sessions": h.practiceService.Count(),
		"goroutines":    runtime.NumGoroutine(),
		"redis":         redisStatus,
	})
}

func formatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
