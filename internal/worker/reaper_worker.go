package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reaper drops sessions idle for longer than a TTL.
type Reaper interface {
	Reap(ttl time.Duration) int
}

// ReaperWorker periodically forgets abandoned practice sessions so a client
// that navigates away without saying so does not leak memory.
type ReaperWorker struct {
	target   Reaper
	ttl      time.Duration
	interval time.Duration
	log      zerolog.Logger
}

func NewReaperWorker(target Reaper, ttl, interval time.Duration, log zerolog.Logger) *ReaperWorker {
	return &ReaperWorker{
		target:   target,
		ttl:      ttl,
		interval: interval,
		log:      log.With().Str("component", "reaper_worker").Logger(),
	}
}

func (w *ReaperWorker) Start(ctx context.Context) {
	w.log.Info().
		Dur("ttl", w.ttl).
		Dur("interval", w.interval).
		Msg("ReaperWorker started")

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ReaperWorker stopped")
			return
		case <-t.C:
			if n := w.target.Reap(w.ttl); n > 0 {
				w.log.Info().Int("removed", n).Msg("Idle sessions reaped")
			}
		}
	}
}
