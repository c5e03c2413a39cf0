package worker

import (
	"errors"
	"sync"
)

var (
	ErrPoolStarted    = errors.New("worker pool is already started")
	ErrPoolNotStarted = errors.New("worker pool is not started")
)

// WorkerPool owns a fixed set of workers, each of which runs in
// it's own goroutine once the pool is started.
type WorkerPool struct {
	sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
	started bool
}

func NewWorkerPool() *WorkerPool {
	return &WorkerPool{workers: make([]Worker, 0)}
}

// Start spawns a goroutine for every worker in the pool. It does not
// block, use Close to stop the workers and wait for them to exit.
func (pool *WorkerPool) Start() error {
	pool.Lock()
	defer pool.Unlock()
	if pool.started {
		return ErrPoolStarted
	}

	pool.started = true
	for _, w := range pool.workers {
		pool.wg.Add(1)
		go func(w Worker) {
			defer pool.wg.Done()
			w.Start()
		}(w)
	}

	return nil
}

// PushWorker inserts the workers provided in to the worker pool. Workers
// cannot be added once the pool has started.
func (pool *WorkerPool) PushWorker(workers ...Worker) error {
	pool.Lock()
	defer pool.Unlock()
	if pool.started {
		return ErrPoolStarted
	}

	pool.workers = append(pool.workers, workers...)
	return nil
}

func (pool *WorkerPool) Size() int {
	pool.Lock()
	defer pool.Unlock()
	return len(pool.workers)
}

// Busy returns the number of workers currently executing their task.
func (pool *WorkerPool) Busy() int {
	pool.Lock()
	defer pool.Unlock()

	busy := 0
	for _, w := range pool.workers {
		if w.Status() == Working {
			busy++
		}
	}

	return busy
}

// WakeupWorkers nudges every sleeping worker so that it re-runs it's
// task. Workers which are already awake are left alone.
func (pool *WorkerPool) WakeupWorkers() error {
	pool.Lock()
	defer pool.Unlock()
	if !pool.started {
		return ErrPoolNotStarted
	}

	for _, w := range pool.workers {
		if w.Status() == Sleeping {
			select {
			case w.WakeupChan() <- 1:
			default:
			}
		}
	}

	return nil
}

// Close closes every worker, and then blocks until each has finished
// it's current task and exited.
func (pool *WorkerPool) Close() {
	pool.Lock()
	if !pool.started {
		pool.Unlock()
		return
	}

	for _, w := range pool.workers {
		w.Close()
	}
	pool.started = false
	pool.Unlock()

	pool.wg.Wait()
}
