package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/m3rciful/jeepyq/core/logger"
)

// Retention periodically drops deliveries older than the configured age.
type Retention struct {
	scheduler *gocron.Scheduler
	recorder  Recorder
	keep      time.Duration
	at        string
	now       func() time.Time
}

// NewRetention prepares a daily prune job running at "HH:MM" UTC that keeps
// the last days of deliveries.
func NewRetention(r Recorder, days int, at string) *Retention {
	return &Retention{
		scheduler: gocron.NewScheduler(time.UTC),
		recorder:  r,
		keep:      time.Duration(days) * 24 * time.Hour,
		at:        at,
		now:       time.Now,
	}
}

// Start schedules the job without blocking.
func (r *Retention) Start() error {
	if _, err := r.scheduler.Every(1).Day().At(r.at).Do(r.runOnce); err != nil {
		return fmt.Errorf("stats retention: %w", err)
	}
	r.scheduler.StartAsync()
	logger.Stats.Info("retention scheduled",
		slog.String("event", "retention.start"),
		slog.String("at", r.at),
		slog.Int("days", int(r.keep/(24*time.Hour))),
	)
	return nil
}

// Stop terminates the scheduler.
func (r *Retention) Stop() {
	r.scheduler.Stop()
}

func (r *Retention) runOnce() {
	_, _ = r.Prune(context.Background())
}

// Prune removes deliveries older than the retention window.
func (r *Retention) Prune(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := r.recorder.Prune(ctx, r.now().Add(-r.keep))
	attrs := []any{
		slog.String("event", "retention.prune"),
		slog.String("status", logger.Status(err)),
		slog.Int64("pruned", n),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		logger.Stats.Error("retention prune failed", append(attrs, slog.String("err", logger.ErrText(err)))...)
		return 0, err
	}
	logger.Stats.Info("retention prune", attrs...)
	return n, nil
}
