package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Ticker is anything whose timers advance once per tick.
type Ticker interface {
	Tick()
}

// TickWorker is the one-second clock for live practice sessions. Sessions
// never schedule time themselves; this worker drives them.
type TickWorker struct {
	target   Ticker
	interval time.Duration
	log      zerolog.Logger
}

func NewTickWorker(target Ticker, interval time.Duration, log zerolog.Logger) *TickWorker {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickWorker{
		target:   target,
		interval: interval,
		log:      log.With().Str("component", "tick_worker").Logger(),
	}
}

func (w *TickWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("TickWorker started")

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("TickWorker stopped")
			return
		case <-t.C:
			w.target.Tick()
		}
	}
}
