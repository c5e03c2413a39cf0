package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const moveBatchSize = 128

// RunScheduler moves due tasks from the delayed set in to the stream on
// every tick of the configured interval, until the context is cancelled.
// Failures are logged and retried on the next tick.
func (queue *Queue) RunScheduler(ctx context.Context) error {
	ticker := time.NewTicker(queue.config.SchedulerInterval)
	defer ticker.Stop()

	for {
		if moved, err := queue.MoveDue(ctx); err != nil {
			log.Emit(logger.ERROR, "Failed to move due tasks: %v\n", err)
		} else if moved > 0 {
			log.Emit(logger.DEBUG, "Moved %d due task(s) in to the stream\n", moved)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// MoveDue moves every task whose delay has elapsed in to the stream. A task
// is only added to the stream by the caller that removed it from the delayed
// set, so multiple schedulers may run against the same redis safely.
func (queue *Queue) MoveDue(ctx context.Context) (int, error) {
	ids, err := queue.rdb.ZRangeByScore(ctx, queue.config.ScheduledZSet, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().UnixMilli(), 10),
		Count: moveBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, id := range ids {
		removed, err := queue.rdb.ZRem(ctx, queue.config.ScheduledZSet, id).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}

		if err := queue.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: queue.config.StreamKey,
			Values: map[string]any{taskIDField: id},
		}).Err(); err != nil {
			// Put the task back so it's not lost
			queue.rdb.ZAdd(ctx, queue.config.ScheduledZSet, redis.Z{Score: float64(time.Now().UnixMilli()), Member: id})
			return moved, err
		}

		moved++
	}

	return moved, nil
}
