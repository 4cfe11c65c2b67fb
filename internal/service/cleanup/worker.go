package cleanup

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
)

type Worker struct {
	SessionManager *game.SessionManager
	Period         time.Duration
	FinishedTTL    time.Duration
	MaxAge         time.Duration

	clock  quartz.Clock
	logger *log.Logger
}

func NewWorker(sm *game.SessionManager, period time.Duration, clock quartz.Clock, logger *log.Logger) *Worker {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.Default()
	}
	if period <= 0 {
		period = 10 * time.Minute
	}
	return &Worker{
		SessionManager: sm,
		Period:         period,
		FinishedTTL:    game.DefaultFinishedTTL,
		MaxAge:         game.DefaultMaxAge,
		clock:          clock,
		logger:         logger.WithPrefix("cleanup"),
	}
}

// Run sweeps stale sessions every Period until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.Period, "cleanup")
	defer ticker.Stop()

	w.logger.Info("Background worker started", "period", w.Period)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Background worker stopped")
			return nil
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single sweep and returns the number of removed sessions.
func (w *Worker) RunOnce() int {
	removed := w.SessionManager.CleanupOldSessions(w.clock.Now(), w.FinishedTTL, w.MaxAge)
	w.logger.Debug("Cleanup finished", "removed", removed, "live", w.SessionManager.Count())
	return removed
}
