package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/queue"
	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/hbomb79/Cadence/pkg/worker"
)

var log = logger.Get("IngestServ")

type (
	Queue interface {
		Enqueue(ctx context.Context, taskID uuid.UUID) error
		EnqueueAfter(ctx context.Context, taskID uuid.UUID, delay time.Duration) error
		Claim(ctx context.Context, consumer string) (*queue.Delivery, error)
		Ack(ctx context.Context, delivery *queue.Delivery) error
	}

	Processor interface {
		Process(ctx context.Context, taskID uuid.UUID) error
	}

	// ingestService hosts the bounded pool of workers which claim task IDs
	// from the queue and hand them to the processor. Retries requested by the
	// processor are honoured by re-submitting the task to the queue with a
	// delay, workers never sleep for a backoff themselves.
	ingestService struct {
		sync.Mutex
		config     Config
		queue      Queue
		processor  Processor
		workerPool *worker.WorkerPool
		hostname   string
		ctx        context.Context
	}
)

func New(config Config, queue Queue, processor Processor) (*ingestService, error) {
	if config.DownloadWorkers <= 0 {
		return nil, fmt.Errorf("download worker count must be positive, got %d", config.DownloadWorkers)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "cadence"
	}

	service := &ingestService{
		config:     config,
		queue:      queue,
		processor:  processor,
		workerPool: worker.NewWorkerPool(),
		hostname:   hostname,
	}

	for i := 0; i < config.DownloadWorkers; i++ {
		label := fmt.Sprintf("download-worker-%d", i)
		if err := service.workerPool.PushWorker(worker.NewWorker(label, service.executeTask)); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// Run starts the worker pool, and wakes sleeping workers on the configured
// poll interval so they can check the queue for new work. When the context
// is cancelled no further tasks are claimed, and Run returns once every
// in-flight task has finished.
func (service *ingestService) Run(ctx context.Context) error {
	service.Lock()
	service.ctx = ctx
	service.Unlock()

	if err := service.workerPool.Start(); err != nil {
		return err
	}

	interval := service.config.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			service.wakeupWorkerPool()
		case <-ctx.Done():
			log.Emit(logger.STOP, "Waiting for %d in-flight download(s) to finish...\n", service.workerPool.Busy())
			service.workerPool.Close()
			return nil
		}
	}
}

// Enqueue submits the task for processing, and wakes any sleeping workers.
func (service *ingestService) Enqueue(ctx context.Context, taskID uuid.UUID) error {
	if err := service.queue.Enqueue(ctx, taskID); err != nil {
		return err
	}

	service.wakeupWorkerPool()
	return nil
}

// executeTask is the worker function for the services WorkerPool. It claims a
// single task from the queue and processes it. Processing is not interrupted
// when the service is stopped; cancellation only prevents new claims.
func (service *ingestService) executeTask(w worker.Worker) (bool, error) {
	ctx := service.context()
	if ctx.Err() != nil {
		return false, nil
	}

	delivery, err := service.queue.Claim(ctx, service.consumerName(w))
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim task: %w", err)
	}
	if delivery == nil {
		return false, nil
	}

	taskCtx := context.WithoutCancel(ctx)
	service.handleResult(taskCtx, delivery.TaskID, service.processor.Process(taskCtx, delivery.TaskID))

	if err := service.queue.Ack(taskCtx, delivery); err != nil {
		log.Emit(logger.ERROR, "Failed to acknowledge delivery %s of task %s: %v\n", delivery.StreamID, delivery.TaskID, err)
	}

	return true, nil
}

// handleResult re-submits the task if the processor requested a retry, or
// if processing failed for reasons outside of the tasks control.
func (service *ingestService) handleResult(ctx context.Context, taskID uuid.UUID, err error) {
	if err == nil {
		return
	}

	var delay time.Duration
	var retryErr *RetryError
	if errors.As(err, &retryErr) {
		delay = retryErr.Delay
	} else {
		delay = service.config.RecoveryDelay
		log.Emit(logger.ERROR, "Processing of task %s failed, re-submitting in %s: %v\n", taskID, delay, err)
	}

	if err := service.queue.EnqueueAfter(ctx, taskID, delay); err != nil {
		log.Emit(logger.ERROR, "Failed to re-submit task %s: %v\n", taskID, err)
	}
}

func (service *ingestService) context() context.Context {
	service.Lock()
	defer service.Unlock()
	if service.ctx == nil {
		return context.Background()
	}

	return service.ctx
}

func (service *ingestService) consumerName(w worker.Worker) string {
	return fmt.Sprintf("%s-%s", service.hostname, w.Label())
}

func (service *ingestService) wakeupWorkerPool() {
	if err := service.workerPool.WakeupWorkers(); err != nil {
		log.Emit(logger.DEBUG, "Unable to wake workers: %v\n", err)
	}
}
