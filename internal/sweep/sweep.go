package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("Sweeper")

type (
	Config struct {
		IntervalMinutes int `yaml:"interval_minutes" env:"SWEEP_INTERVAL_MINUTES" env-default:"15"`
		Batch           int `yaml:"batch" env:"SWEEP_BATCH" env-default:"10"`
		RetentionDays   int `yaml:"retention_days" env:"FAILED_RETENTION_DAYS" env-default:"7"`
	}

	Store interface {
		ListRetryableFailed(ctx context.Context, retryCap int, limit uint64) ([]*task.Task, error)
		RequeueTask(ctx context.Context, id uuid.UUID) error
		PurgeFailedTasks(ctx context.Context, cutoff time.Time) (int64, error)
	}

	Enqueuer interface {
		Enqueue(ctx context.Context, taskID uuid.UUID) error
	}

	// Result summarises a single sweep.
	Result struct {
		Requeued int
		Purged   int64
	}

	// Sweeper periodically gives failed tasks which still have retries
	// available another chance, and removes failed tasks once they
	// are older than the retention period.
	Sweeper struct {
		config   Config
		retryCap int
		store    Store
		enqueuer Enqueuer
		now      func() time.Time
	}
)

func New(config Config, retryCap int, store Store, enqueuer Enqueuer) *Sweeper {
	return &Sweeper{
		config:   config,
		retryCap: retryCap,
		store:    store,
		enqueuer: enqueuer,
		now:      time.Now,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (sweeper *Sweeper) Run(ctx context.Context) error {
	interval := time.Duration(sweeper.config.IntervalMinutes) * time.Minute
	if interval <= 0 {
		log.Emit(logger.WARNING, "Sweep interval is not positive, periodic sweeping is disabled\n")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := sweeper.SweepOnce(ctx); err != nil {
				log.Emit(logger.ERROR, "Sweep failed: %v\n", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SweepOnce performs a single sweep. A failure to requeue an individual task
// is logged and skipped, only failures to query the store are returned.
func (sweeper *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	var result Result

	batch := sweeper.config.Batch
	if batch <= 0 {
		batch = 10
	}

	failed, err := sweeper.store.ListRetryableFailed(ctx, sweeper.retryCap, uint64(batch))
	if err != nil {
		return result, fmt.Errorf("failed to list retryable tasks: %w", err)
	}

	for _, t := range failed {
		if err := sweeper.store.RequeueTask(ctx, t.ID); err != nil {
			log.Emit(logger.WARNING, "Unable to requeue %s: %v\n", t, err)
			continue
		}

		if err := sweeper.enqueuer.Enqueue(ctx, t.ID); err != nil {
			log.Emit(logger.ERROR, "Requeued %s but failed to submit it for processing: %v\n", t, err)
			continue
		}

		result.Requeued++
	}

	if sweeper.config.RetentionDays > 0 {
		cutoff := sweeper.now().AddDate(0, 0, -sweeper.config.RetentionDays)
		purged, err := sweeper.store.PurgeFailedTasks(ctx, cutoff)
		if err != nil {
			return result, fmt.Errorf("failed to purge failed tasks: %w", err)
		}
		result.Purged = purged
	}

	if result.Requeued > 0 || result.Purged > 0 {
		log.Emit(logger.INFO, "Sweep requeued %d and purged %d failed tasks\n", result.Requeued, result.Purged)
	}

	return result, nil
}
