package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/config"
	"github.com/stemsi/exam-simulator/internal/database"
	"github.com/stemsi/exam-simulator/internal/event"
	"github.com/stemsi/exam-simulator/internal/handler"
	"github.com/stemsi/exam-simulator/internal/logger"
	"github.com/stemsi/exam-simulator/internal/questionbank"
	"github.com/stemsi/exam-simulator/internal/router"
	"github.com/stemsi/exam-simulator/internal/service"
	"github.com/stemsi/exam-simulator/internal/validator"
	"github.com/stemsi/exam-simulator/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Exam Simulator Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Question Pool ────────────────────────────────────────────
	questions, err := questionbank.LoadFile(cfg.QuestionBankFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.QuestionBankFile).Msg("Failed to load question pool")
	}
	bank := questionbank.New(questions, log)

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var (
		rdb       *redis.Client
		publisher event.Publisher = event.NopPublisher{}
	)
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		publisher = event.NewRedisPublisher(rdb, cfg.EventChannel, log)
	} else {
		log.Info().Msg("REDIS_URL not set, session events disabled")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	questionService := service.NewQuestionService(bank, log)
	practiceService := service.NewPracticeService(bank, publisher, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Question: handler.NewQuestionHandler(questionService),
		Session:  handler.NewSessionHandler(practiceService),
		WS:       handler.NewWSHandler(practiceService, cfg.TickInterval, log, cfg.AllowedOrigins),
		System:   handler.NewSystemHandler(questionService, practiceService, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	tickWorker := worker.NewTickWorker(practiceService, cfg.TickInterval, log)
	reaperWorker := worker.NewReaperWorker(practiceService, cfg.SessionIdleTTL, cfg.ReaperInterval, log)

	go tickWorker.Start(workerCtx)
	go reaperWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the session clock and reaper. Sessions live only in memory,
	// so there is nothing to drain.
	workerCancel()

	log.Info().Int("live_sessions", practiceService.Count()).Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
