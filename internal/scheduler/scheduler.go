// Package scheduler runs the periodic recurrence generation pass. It is a thin
// shell around the generation service: all idempotency and concurrency control
// lives in the service and its repository, so overlapping or missed ticks are
// harmless.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
)

// Scheduler periodically triggers the recurrence generation check.
type Scheduler struct {
	generationService portssvc.GenerationSvcFacade
	interval          time.Duration
	logger            *slog.Logger
}

// New creates a Scheduler that triggers a generation pass every interval.
func New(generationService portssvc.GenerationSvcFacade, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		generationService: generationService,
		interval:          interval,
		logger:            logger,
	}
}

// Start launches the scheduling loop in its own goroutine. An immediate pass runs
// at startup to catch occurrences that became due while the process was down.
// The loop stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	s.logger.Info("Recurrence scheduler started", slog.Duration("interval", s.interval))

	s.trigger(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Recurrence scheduler stopped")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	result, err := s.generationService.TriggerRecurrenceCheck(ctx, time.Now())
	if err != nil {
		s.logger.Error("Scheduled recurrence check failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Scheduled recurrence check finished",
		slog.Int("evaluated", result.Evaluated),
		slog.Int("generated", result.Generated),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
}
