package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const taskIDField = "task_id"

var log = logger.Get("Queue")

type (
	// Queue is a durable queue of task IDs, backed by a redis stream and
	// consumer group. Delayed tasks are held in a sorted set (scored by the
	// time they become due) until the scheduler moves them in to the stream.
	Queue struct {
		rdb    *redis.Client
		config Config
	}

	// Delivery is a single claimed task. It must be acknowledged once the
	// task has been processed.
	Delivery struct {
		TaskID   uuid.UUID
		StreamID string
	}
)

// NewClient constructs a redis client for the configured address.
func NewClient(config Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
}

func New(rdb *redis.Client, config Config) *Queue {
	return &Queue{rdb: rdb, config: config}
}

// Init ensures the redis server is reachable, and that the stream and
// consumer group exist.
func (queue *Queue) Init(ctx context.Context) error {
	if err := queue.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}

	err := queue.rdb.XGroupCreateMkStream(ctx, queue.config.StreamKey, queue.config.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.Emit(logger.SUCCESS, "Redis stream %s and consumer group %s ready\n", queue.config.StreamKey, queue.config.Group)
	return nil
}

// Enqueue submits the task for immediate processing.
func (queue *Queue) Enqueue(ctx context.Context, taskID uuid.UUID) error {
	if err := queue.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.config.StreamKey,
		Values: map[string]any{taskIDField: taskID.String()},
	}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task %s: %w", taskID, err)
	}

	log.Emit(logger.DEBUG, "Enqueued task %s\n", taskID)
	return nil
}

// EnqueueAfter submits the task for processing once the delay has
// elapsed. Re-scheduling a task which is already waiting replaces its
// due time.
func (queue *Queue) EnqueueAfter(ctx context.Context, taskID uuid.UUID, delay time.Duration) error {
	if delay <= 0 {
		return queue.Enqueue(ctx, taskID)
	}

	dueAt := time.Now().Add(delay)
	if err := queue.rdb.ZAdd(ctx, queue.config.ScheduledZSet, redis.Z{
		Score:  float64(dueAt.UnixMilli()),
		Member: taskID.String(),
	}).Err(); err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", taskID, err)
	}

	log.Emit(logger.DEBUG, "Scheduled task %s for %s\n", taskID, dueAt.Format(time.RFC3339))
	return nil
}

// Claim reads the next undelivered task for the consumer provided. If no
// task arrives within the configured block duration, nil is returned.
func (queue *Queue) Claim(ctx context.Context, consumer string) (*Delivery, error) {
	res, err := queue.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    queue.config.Group,
		Consumer: consumer,
		Streams:  []string{queue.config.StreamKey, ">"},
		Count:    1,
		Block:    queue.config.ClaimBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	if len(res) == 0 || len(res[0].Messages) == 0 {
		return nil, nil
	}

	msg := res[0].Messages[0]
	raw, _ := msg.Values[taskIDField].(string)
	taskID, err := uuid.Parse(raw)
	if err != nil {
		// A malformed message can never be processed, so it's acknowledged
		// to prevent it lingering in the pending entries list
		log.Emit(logger.ERROR, "Discarding malformed queue message %s (%v): %v\n", msg.ID, msg.Values, err)
		if ackErr := queue.rdb.XAck(ctx, queue.config.StreamKey, queue.config.Group, msg.ID).Err(); ackErr != nil {
			return nil, ackErr
		}
		return nil, nil
	}

	return &Delivery{TaskID: taskID, StreamID: msg.ID}, nil
}

func (queue *Queue) Ack(ctx context.Context, delivery *Delivery) error {
	return queue.rdb.XAck(ctx, queue.config.StreamKey, queue.config.Group, delivery.StreamID).Err()
}

// Scheduled returns the number of tasks waiting in the delayed set.
func (queue *Queue) Scheduled(ctx context.Context) (int64, error) {
	return queue.rdb.ZCard(ctx, queue.config.ScheduledZSet).Result()
}

func (queue *Queue) Close() error {
	return queue.rdb.Close()
}
