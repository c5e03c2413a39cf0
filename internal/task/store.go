package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/database"
)

const taskColumns = `id, user_id, url, output_format, output_quality, original_title, original_artist,
	duration_seconds, percent, current_step, status, retry_count, error_log, track_id,
	created_at, updated_at, completed_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type (
	// ListFilter restricts the tasks returned by Store.List.
	ListFilter struct {
		Status *Status
		Limit  uint64
	}

	// Store is the persistence layer for download tasks. Every mutation
	// is a single-row statement, so no cross-statement locking is needed.
	Store struct{}
)

func (store *Store) Create(ctx context.Context, db database.Queryable, req CreateRequest) (*Task, error) {
	quality := req.OutputQuality
	if quality == "" {
		quality = DefaultQuality
	}

	var task Task
	err := db.QueryRowxContext(ctx, `
		INSERT INTO download_task(id, user_id, url, output_format, output_quality, status, current_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'Queued', current_timestamp, current_timestamp)
		RETURNING `+taskColumns,
		uuid.New(), req.UserID, req.URL, req.OutputFormat, quality, Pending,
	).StructScan(&task)
	if err != nil {
		return nil, fmt.Errorf("failed to insert download task: %w", err)
	}

	return &task, nil
}

func (store *Store) Get(ctx context.Context, db database.Queryable, id uuid.UUID) (*Task, error) {
	var task Task
	if err := db.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM download_task WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}

		return nil, fmt.Errorf("failed to fetch download task %s: %w", id, err)
	}

	return &task, nil
}

// List returns the most recently created tasks, optionally filtered by status.
func (store *Store) List(ctx context.Context, db database.Queryable, filter ListFilter) ([]*Task, error) {
	query := psql.Select(taskColumns).From("download_task").OrderBy("created_at DESC")
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tasks []*Task
	if err := db.SelectContext(ctx, &tasks, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list download tasks: %w", err)
	}

	return tasks, nil
}

// MarkStarted moves the task in to the processing state for a new attempt. The
// percentage is reset, as progress is only monotonic within a single attempt.
func (store *Store) MarkStarted(ctx context.Context, db database.Queryable, id uuid.UUID) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, percent=0, current_step='Starting', completed_at=NULL, updated_at=current_timestamp
		WHERE id=$1`, id, Processing)
}

// UpdateProgress records the percentage and step label for the task. The
// stored percentage never decreases, a lower value only updates the label.
func (store *Store) UpdateProgress(ctx context.Context, db database.Queryable, id uuid.UUID, percent int, step string) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET percent=GREATEST(percent, $2), current_step=$3, updated_at=current_timestamp
		WHERE id=$1`, id, clampPercent(percent), step)
}

// UpdateStatus sets a non-terminal status alongside a progress checkpoint.
func (store *Store) UpdateStatus(ctx context.Context, db database.Queryable, id uuid.UUID, status Status, percent int, step string) error {
	if status.IsTerminal() {
		return fmt.Errorf("status %s is terminal and must be set via MarkCompleted or MarkFailed", status)
	}

	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, percent=GREATEST(percent, $3), current_step=$4, completed_at=NULL, updated_at=current_timestamp
		WHERE id=$1`, id, status, clampPercent(percent), step)
}

func (store *Store) SaveSourceInfo(ctx context.Context, db database.Queryable, id uuid.UUID, title string, artist string, durationSeconds int) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET original_title=NULLIF($2, ''), original_artist=NULLIF($3, ''), duration_seconds=$4, updated_at=current_timestamp
		WHERE id=$1`, id, title, artist, durationSeconds)
}

// AppendError adds a new entry to the end of the tasks error log. Existing
// entries are never overwritten.
func (store *Store) AppendError(ctx context.Context, db database.Queryable, id uuid.UUID, entry string) error {
	entry = strings.ReplaceAll(strings.TrimSpace(entry), "\n", " ")
	return execSingle(ctx, db, `
		UPDATE download_task
		SET error_log=CASE WHEN error_log='' THEN $2 ELSE error_log || E'\n' || $2 END, updated_at=current_timestamp
		WHERE id=$1`, id, entry)
}

// ScheduleRetry returns the task to the pending state, recording the
// new retry count.
func (store *Store) ScheduleRetry(ctx context.Context, db database.Queryable, id uuid.UUID, retryCount int, step string) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, retry_count=GREATEST(retry_count, $3), current_step=$4, completed_at=NULL, updated_at=current_timestamp
		WHERE id=$1`, id, Pending, retryCount, step)
}

func (store *Store) MarkCompleted(ctx context.Context, db database.Queryable, id uuid.UUID, trackID uuid.UUID) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, percent=100, current_step='Completed', track_id=$3, completed_at=current_timestamp, updated_at=current_timestamp
		WHERE id=$1`, id, Completed, trackID)
}

func (store *Store) MarkFailed(ctx context.Context, db database.Queryable, id uuid.UUID, step string) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, current_step=$3, completed_at=current_timestamp, updated_at=current_timestamp
		WHERE id=$1`, id, Failed, step)
}

// ListRetryableFailed returns up to 'limit' failed tasks whose retry count
// is still below the cap provided, oldest first.
func (store *Store) ListRetryableFailed(ctx context.Context, db database.Queryable, retryCap int, limit uint64) ([]*Task, error) {
	stmt, args, err := psql.Select(taskColumns).
		From("download_task").
		Where(squirrel.Eq{"status": Failed}).
		Where(squirrel.Lt{"retry_count": retryCap}).
		OrderBy("completed_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}

	var tasks []*Task
	if err := db.SelectContext(ctx, &tasks, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list retryable tasks: %w", err)
	}

	return tasks, nil
}

// Requeue resets a failed task so it can be processed again. The retry
// count is left untouched, a requeued task keeps the backoff retries it
// had remaining.
func (store *Store) Requeue(ctx context.Context, db database.Queryable, id uuid.UUID) error {
	return execSingle(ctx, db, `
		UPDATE download_task
		SET status=$2, percent=0, current_step='Queued', error_log='',
			completed_at=NULL, updated_at=current_timestamp
		WHERE id=$1 AND status=$3`, id, Pending, Failed)
}

// PurgeFailed deletes failed tasks which reached their terminal state
// before the cutoff provided, returning the number of rows removed.
func (store *Store) PurgeFailed(ctx context.Context, db database.Queryable, cutoff time.Time) (int64, error) {
	stmt, args, err := psql.Delete("download_task").
		Where(squirrel.Eq{"status": Failed}).
		Where(squirrel.Lt{"completed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge failed tasks: %w", err)
	}

	return res.RowsAffected()
}

func execSingle(ctx context.Context, db database.Queryable, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func clampPercent(percent int) int {
	return max(0, min(100, percent))
}
