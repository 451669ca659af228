package aggregation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aevon-lab/tripstats/internal/core/storage"
)

// Refresher rebuilds the trip aggregation from its configured source.
type Refresher interface {
	Reload(ctx context.Context) (storage.RunRecord, error)
}

// Scheduler re-aggregates the source file on a periodic interval.
// Each tick is a full re-ingestion; nothing carries over between ticks.
type Scheduler struct {
	interval  time.Duration
	refresher Refresher
}

// NewScheduler creates a refresh scheduler.
func NewScheduler(interval time.Duration, refresher Refresher) *Scheduler {
	return &Scheduler{
		interval:  interval,
		refresher: refresher,
	}
}

// Start refreshes once immediately and then on every tick.
// Runs until context is cancelled. Refresh failures are logged, never returned.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting refresh scheduler", "interval", s.interval)

	s.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	run, err := s.refresher.Reload(ctx)
	switch {
	case err == nil:
		slog.Debug("[Scheduler] Refresh complete", "run_id", run.ID, "accepted", run.Stats.Accepted)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Info("[Scheduler] Refresh interrupted by context cancellation")
	default:
		slog.Error("[Scheduler] Refresh failed", "error", err)
	}
}
