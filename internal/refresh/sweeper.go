// Package refresh periodically re-evaluates customers with incomplete
// journeys and pushes fresh scripts, so personalization doesn't depend on
// webhooks alone.
package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/launchline/concierge/internal/metrics"
)

// Lister finds customers whose prompts are due for a refresh. The debounce
// window is enforced in the query so recently updated customers are skipped.
type Lister interface {
	ListStaleInProgress(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// Refresher rebuilds and pushes one customer's script.
type Refresher interface {
	RefreshPrompt(ctx context.Context, phone string) error
}

// Merger folds duplicate customer records together.
type Merger interface {
	MergeDuplicates(ctx context.Context) (int, error)
}

type Sweeper struct {
	lister    Lister
	refresher Refresher
	merger    Merger
	interval  time.Duration
	debounce  time.Duration
	logger    *slog.Logger
}

func New(lister Lister, refresher Refresher, merger Merger, interval, debounce time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		lister:    lister,
		refresher: refresher,
		merger:    merger,
		interval:  interval,
		debounce:  debounce,
		logger:    logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("refresh sweep started", "interval", s.interval, "debounce", s.debounce)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh sweep stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. One customer's failure never aborts the batch.
func (s *Sweeper) Sweep(ctx context.Context) {
	phones, err := s.lister.ListStaleInProgress(ctx, s.debounce)
	if err != nil {
		s.logger.Error("sweep listing failed", "error", err)
		return
	}

	refreshed := 0
	for _, phone := range phones {
		if ctx.Err() != nil {
			return
		}
		if err := s.refresher.RefreshPrompt(ctx, phone); err != nil {
			s.logger.Error("sweep refresh failed", "phone", phone, "error", err)
			continue
		}
		refreshed++
		metrics.SweepRefreshes.Inc()
	}

	if s.merger != nil {
		if merged, err := s.merger.MergeDuplicates(ctx); err != nil {
			s.logger.Error("duplicate merge failed", "error", err)
		} else if merged > 0 {
			s.logger.Info("merged duplicate customers", "count", merged)
		}
	}

	if len(phones) > 0 {
		s.logger.Info("sweep complete", "candidates", len(phones), "refreshed", refreshed)
	}
}
