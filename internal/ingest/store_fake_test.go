package ingest_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/task"
)

// memoryTaskStore is an in-memory TaskStore which mirrors the semantics of
// the SQL store, and fails the test whenever a write would break one of the
// task invariants.
type memoryTaskStore struct {
	sync.Mutex
	t     *testing.T
	cap   int
	tasks map[uuid.UUID]*task.Task

	// Every percentage written for each task, reset when an attempt starts
	attemptPercents map[uuid.UUID][]int
	statuses        map[uuid.UUID][]task.Status

	failNextComplete error
}

func newMemoryTaskStore(t *testing.T, retryCap int) *memoryTaskStore {
	return &memoryTaskStore{
		t:               t,
		cap:             retryCap,
		tasks:           make(map[uuid.UUID]*task.Task),
		attemptPercents: make(map[uuid.UUID][]int),
		statuses:        make(map[uuid.UUID][]task.Status),
	}
}

func (store *memoryTaskStore) add(url string, format task.Format, quality string) *task.Task {
	store.Lock()
	defer store.Unlock()

	t := &task.Task{
		ID:            uuid.New(),
		URL:           url,
		OutputFormat:  format,
		OutputQuality: quality,
		Status:        task.Pending,
		CurrentStep:   "Queued",
		CreatedAt:     time.Now(),
	}
	store.tasks[t.ID] = t
	return store.snapshot(t.ID)
}

func (store *memoryTaskStore) snapshot(id uuid.UUID) *task.Task {
	clone := *store.tasks[id]
	return &clone
}

func (store *memoryTaskStore) get(id uuid.UUID) *task.Task {
	store.Lock()
	defer store.Unlock()
	return store.snapshot(id)
}

func (store *memoryTaskStore) mutate(id uuid.UUID, fn func(*task.Task)) error {
	store.Lock()
	defer store.Unlock()

	t, ok := store.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}

	fn(t)
	t.UpdatedAt = time.Now()
	store.statuses[id] = append(store.statuses[id], t.Status)

	if t.Status.IsTerminal() != (t.CompletedAt != nil) {
		store.t.Errorf("task %s has status %s but completed_at=%v", id, t.Status, t.CompletedAt)
	}
	if t.RetryCount > store.cap {
		store.t.Errorf("task %s retry count %d exceeds cap %d", id, t.RetryCount, store.cap)
	}
	if t.Percent < 0 || t.Percent > 100 {
		store.t.Errorf("task %s percent %d out of range", id, t.Percent)
	}

	return nil
}

func (store *memoryTaskStore) recordPercent(id uuid.UUID, percent int) {
	store.attemptPercents[id] = append(store.attemptPercents[id], percent)
}

func (store *memoryTaskStore) GetTask(_ context.Context, id uuid.UUID) (*task.Task, error) {
	store.Lock()
	defer store.Unlock()
	if _, ok := store.tasks[id]; !ok {
		return nil, task.ErrTaskNotFound
	}

	return store.snapshot(id), nil
}

func (store *memoryTaskStore) MarkTaskStarted(_ context.Context, id uuid.UUID) error {
	return store.mutate(id, func(t *task.Task) {
		t.Status, t.Percent, t.CurrentStep, t.CompletedAt = task.Processing, 0, "Starting", nil
		store.attemptPercents[id] = []int{0}
	})
}

func (store *memoryTaskStore) UpdateTaskProgress(_ context.Context, id uuid.UUID, percent int, step string) error {
	return store.mutate(id, func(t *task.Task) {
		store.recordPercent(id, percent)
		t.Percent, t.CurrentStep = max(t.Percent, percent), step
	})
}

func (store *memoryTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status task.Status, percent int, step string) error {
	if status.IsTerminal() {
		return errors.New("terminal status must be set via MarkTaskCompleted or MarkTaskFailed")
	}

	return store.mutate(id, func(t *task.Task) {
		store.recordPercent(id, percent)
		t.Status, t.Percent, t.CurrentStep, t.CompletedAt = status, max(t.Percent, percent), step, nil
	})
}

func (store *memoryTaskStore) SaveTaskSourceInfo(_ context.Context, id uuid.UUID, title string, artist string, durationSeconds int) error {
	return store.mutate(id, func(t *task.Task) {
		if title != "" {
			t.OriginalTitle = &title
		}
		if artist != "" {
			t.OriginalArtist = &artist
		}
		t.DurationSeconds = &durationSeconds
	})
}

func (store *memoryTaskStore) AppendTaskError(_ context.Context, id uuid.UUID, entry string) error {
	return store.mutate(id, func(t *task.Task) {
		entry = strings.ReplaceAll(entry, "\n", " ")
		if t.ErrorLog == "" {
			t.ErrorLog = entry
		} else {
			t.ErrorLog += "\n" + entry
		}
	})
}

func (store *memoryTaskStore) ScheduleTaskRetry(_ context.Context, id uuid.UUID, retryCount int, step string) error {
	return store.mutate(id, func(t *task.Task) {
		t.Status, t.RetryCount, t.CurrentStep, t.CompletedAt = task.Pending, max(t.RetryCount, retryCount), step, nil
	})
}

func (store *memoryTaskStore) MarkTaskCompleted(_ context.Context, id uuid.UUID, trackID uuid.UUID) error {
	if err := store.failNextComplete; err != nil {
		store.failNextComplete = nil
		return err
	}

	return store.mutate(id, func(t *task.Task) {
		now := time.Now()
		store.recordPercent(id, 100)
		t.Status, t.Percent, t.CurrentStep, t.TrackID, t.CompletedAt = task.Completed, 100, "Completed", &trackID, &now
	})
}

func (store *memoryTaskStore) MarkTaskFailed(_ context.Context, id uuid.UUID, step string) error {
	return store.mutate(id, func(t *task.Task) {
		now := time.Now()
		t.Status, t.CurrentStep, t.CompletedAt = task.Failed, step, &now
	})
}

// assertMonotonic fails the test if the percentages reported during the
// most recent attempt of the task ever decreased.
func (store *memoryTaskStore) assertMonotonic(t *testing.T, id uuid.UUID) {
	store.Lock()
	defer store.Unlock()

	percents := store.attemptPercents[id]
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Errorf("task %s progress decreased from %d to %d (history %v)", id, percents[i-1], percents[i], percents)
			return
		}
	}
}

func (store *memoryTaskStore) everHadStatus(id uuid.UUID, status task.Status) bool {
	store.Lock()
	defer store.Unlock()

	for _, s := range store.statuses[id] {
		if s == status {
			return true
		}
	}

	return false
}
