package worker

import (
	"sync/atomic"

	"github.com/hbomb79/Cadence/pkg/logger"
)

var workerLogger = logger.Get("Worker")

type (
	WorkerWakeupChan chan int
	WorkerStatus     int32

	// WorkerTask is the function a worker repeatedly executes. The boolean
	// return indicates whether work was found: a worker which finds
	// no work goes to sleep until it's woken by the pool.
	WorkerTask func(Worker) (bool, error)

	Worker interface {
		Start()
		Status() WorkerStatus
		WakeupChan() WorkerWakeupChan
		Label() string
		Sleep() bool
		Close()
	}

	taskWorker struct {
		label         string
		task          WorkerTask
		wakeupChan    WorkerWakeupChan
		currentStatus atomic.Int32
		closed        atomic.Bool
	}
)

const (
	Sleeping WorkerStatus = iota
	Working
	Finished
)

func (s WorkerStatus) String() string {
	switch s {
	case Sleeping:
		return "SLEEPING"
	case Working:
		return "WORKING"
	case Finished:
		return "FINISHED"
	}

	return "UNKNOWN"
}

func NewWorker(label string, task WorkerTask) *taskWorker {
	return &taskWorker{
		label:      label,
		task:       task,
		wakeupChan: make(WorkerWakeupChan),
	}
}

// Start runs the workers task in a loop until the worker is closed. Errors
// returned by the task are logged and do not stop the worker.
func (worker *taskWorker) Start() {
	workerLogger.Emit(logger.NEW, "Starting worker %s\n", worker.label)
	worker.setStatus(Working)
	defer func() {
		worker.setStatus(Finished)
		workerLogger.Emit(logger.STOP, "Worker %s has stopped\n", worker.label)
	}()

	for {
		if worker.closed.Load() {
			return
		}

		workDone, err := worker.task(worker)
		if err != nil {
			workerLogger.Emit(logger.ERROR, "Worker %s has reported an error(%T): %v\n", worker.label, err, err)
		}

		if !workDone && !worker.Sleep() {
			return
		}
	}
}

// Status returns the current status of this worker
func (worker *taskWorker) Status() WorkerStatus {
	return WorkerStatus(worker.currentStatus.Load())
}

func (worker *taskWorker) WakeupChan() WorkerWakeupChan {
	return worker.wakeupChan
}

// Close closes the Worker by closing the wakeup channel.
// Note that this does not interrupt a task which is currently running,
// the worker exits once that task returns.
func (worker *taskWorker) Close() {
	if worker.closed.CompareAndSwap(false, true) {
		close(worker.wakeupChan)
	}
}

// Label returns the label for this worker
func (worker *taskWorker) Label() string {
	return worker.label
}

// Sleep puts a worker to sleep until it's wakeupChan is
// signalled from another goroutine. Returns a boolean that
// is 'false' if the wakeup channel was closed - indicating
// the worker should quit.
func (worker *taskWorker) Sleep() (isAlive bool) {
	worker.setStatus(Sleeping)

	if _, isAlive = <-worker.wakeupChan; isAlive {
		worker.setStatus(Working)
	} else {
		workerLogger.Emit(logger.STOP, "Wakeup channel for worker '%v' has been closed - worker is exiting\n", worker.label)
		worker.setStatus(Finished)
	}

	return isAlive
}

func (worker *taskWorker) setStatus(status WorkerStatus) {
	worker.currentStatus.Store(int32(status))
}
