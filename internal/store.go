package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/hbomb79/Cadence/internal/database"
	"github.com/hbomb79/Cadence/internal/task"
)

type (
	// dataOrchestrator is responsible for linking the 'dumb' data stores to
	// the database instance. Consumers (the orchestrator, sweeper and API)
	// access persisted data through this type, rather than needing to know
	// which database handle a store method requires.
	dataOrchestrator struct {
		db           database.Manager
		TaskStore    *task.Store
		CatalogStore *catalog.Store
	}
)

func newDataOrchestrator(db database.Manager) *dataOrchestrator {
	return &dataOrchestrator{
		db:           db,
		TaskStore:    &task.Store{},
		CatalogStore: &catalog.Store{},
	}
}

func (rel *dataOrchestrator) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	return rel.TaskStore.Create(ctx, rel.db.GetSqlxDb(), req)
}

func (rel *dataOrchestrator) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return rel.TaskStore.Get(ctx, rel.db.GetSqlxDb(), id)
}

func (rel *dataOrchestrator) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	return rel.TaskStore.List(ctx, rel.db.GetSqlxDb(), filter)
}

func (rel *dataOrchestrator) MarkTaskStarted(ctx context.Context, id uuid.UUID) error {
	return rel.TaskStore.MarkStarted(ctx, rel.db.GetSqlxDb(), id)
}

func (rel *dataOrchestrator) UpdateTaskProgress(ctx context.Context, id uuid.UUID, percent int, step string) error {
	return rel.TaskStore.UpdateProgress(ctx, rel.db.GetSqlxDb(), id, percent, step)
}

func (rel *dataOrchestrator) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.Status, percent int, step string) error {
	return rel.TaskStore.UpdateStatus(ctx, rel.db.GetSqlxDb(), id, status, percent, step)
}

func (rel *dataOrchestrator) SaveTaskSourceInfo(ctx context.Context, id uuid.UUID, title string, artist string, durationSeconds int) error {
	return rel.TaskStore.SaveSourceInfo(ctx, rel.db.GetSqlxDb(), id, title, artist, durationSeconds)
}

func (rel *dataOrchestrator) AppendTaskError(ctx context.Context, id uuid.UUID, entry string) error {
	return rel.TaskStore.AppendError(ctx, rel.db.GetSqlxDb(), id, entry)
}

func (rel *dataOrchestrator) ScheduleTaskRetry(ctx context.Context, id uuid.UUID, retryCount int, step string) error {
	return rel.TaskStore.ScheduleRetry(ctx, rel.db.GetSqlxDb(), id, retryCount, step)
}

func (rel *dataOrchestrator) MarkTaskCompleted(ctx context.Context, id uuid.UUID, trackID uuid.UUID) error {
	return rel.TaskStore.MarkCompleted(ctx, rel.db.GetSqlxDb(), id, trackID)
}

func (rel *dataOrchestrator) MarkTaskFailed(ctx context.Context, id uuid.UUID, step string) error {
	return rel.TaskStore.MarkFailed(ctx, rel.db.GetSqlxDb(), id, step)
}

func (rel *dataOrchestrator) ListRetryableFailed(ctx context.Context, retryCap int, limit uint64) ([]*task.Task, error) {
	return rel.TaskStore.ListRetryableFailed(ctx, rel.db.GetSqlxDb(), retryCap, limit)
}

func (rel *dataOrchestrator) RequeueTask(ctx context.Context, id uuid.UUID) error {
	return rel.TaskStore.Requeue(ctx, rel.db.GetSqlxDb(), id)
}

func (rel *dataOrchestrator) PurgeFailedTasks(ctx context.Context, cutoff time.Time) (int64, error) {
	return rel.TaskStore.PurgeFailed(ctx, rel.db.GetSqlxDb(), cutoff)
}

func (rel *dataOrchestrator) GetTrack(ctx context.Context, id uuid.UUID) (*catalog.Track, error) {
	return rel.CatalogStore.GetTrack(ctx, rel.db.GetSqlxDb(), id)
}
