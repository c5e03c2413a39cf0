package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/hbomb79/Cadence/internal/download"
	"github.com/hbomb79/Cadence/internal/event"
	"github.com/hbomb79/Cadence/internal/media"
	"github.com/hbomb79/Cadence/internal/progress"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/hbomb79/Cadence/pkg/logger"
)

const (
	unknownTitle = "Unknown Title"

	downloadLo = 15
	downloadHi = 80
)

type (
	TaskStore interface {
		GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
		MarkTaskStarted(ctx context.Context, id uuid.UUID) error
		UpdateTaskProgress(ctx context.Context, id uuid.UUID, percent int, step string) error
		UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.Status, percent int, step string) error
		SaveTaskSourceInfo(ctx context.Context, id uuid.UUID, title string, artist string, durationSeconds int) error
		AppendTaskError(ctx context.Context, id uuid.UUID, entry string) error
		ScheduleTaskRetry(ctx context.Context, id uuid.UUID, retryCount int, step string) error
		MarkTaskCompleted(ctx context.Context, id uuid.UUID, trackID uuid.UUID) error
		MarkTaskFailed(ctx context.Context, id uuid.UUID, step string) error
	}

	Resolver interface {
		Validate(ctx context.Context, url string) (bool, string)
	}

	Downloader interface {
		FetchInfo(ctx context.Context, url string) (*download.MediaInfo, error)
		Download(ctx context.Context, req download.Request, hook download.ProgressHook) (string, error)
		Cleanup(path string) error
	}

	MetadataExtractor interface {
		Extract(path string) *media.Metadata
	}

	CatalogWriter interface {
		UpsertArtist(ctx context.Context, name string) (*catalog.Artist, error)
		CreateEntry(ctx context.Context, fields catalog.EntryFields, localPath string) (*catalog.Track, error)
		FindEntryByTask(ctx context.Context, taskID uuid.UUID) (*catalog.Track, error)
	}

	// Orchestrator is the state machine which drives a single download task
	// from pending through to a terminal state. The orchestrator processing a
	// task is the only writer of that tasks progress and lifecycle fields.
	Orchestrator struct {
		store      TaskStore
		resolver   Resolver
		downloader Downloader
		extractor  MetadataExtractor
		catalog    CatalogWriter
		eventBus   event.EventDispatcher
		policy     RetryPolicy
		now        func() time.Time
	}
)

func NewOrchestrator(
	store TaskStore,
	resolver Resolver,
	downloader Downloader,
	extractor MetadataExtractor,
	catalog CatalogWriter,
	eventBus event.EventDispatcher,
	policy RetryPolicy,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		resolver:   resolver,
		downloader: downloader,
		extractor:  extractor,
		catalog:    catalog,
		eventBus:   eventBus,
		policy:     policy,
		now:        time.Now,
	}
}

// Process performs a single attempt of the task with the ID provided.
//
// A nil error is returned once the task reaches a terminal state (or if it
// already was in one). If the attempt failed with a retryable trouble, the
// task is returned to pending and a *RetryError describing the backoff is
// returned; the caller must re-submit the task once the delay has elapsed.
// Any other error indicates an infrastructure failure which prevented the
// task state from being recorded.
func (orchestrator *Orchestrator) Process(ctx context.Context, taskID uuid.UUID) error {
	t, err := orchestrator.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			log.Emit(logger.WARNING, "Task %s no longer exists, skipping\n", taskID)
			return nil
		}

		return fmt.Errorf("failed to load task %s: %w", taskID, err)
	}

	if t.Status.IsTerminal() {
		log.Emit(logger.INFO, "Task %s is already %s, skipping\n", taskID, t.Status)
		return nil
	}

	log.Emit(logger.NEW, "Processing %s (attempt %d)\n", t, t.RetryCount+1)
	if err := orchestrator.store.MarkTaskStarted(ctx, taskID); err != nil {
		return fmt.Errorf("failed to start task %s: %w", taskID, err)
	}
	orchestrator.dispatch(event.TASK_UPDATE, taskID)

	if err := orchestrator.checkpoint(ctx, taskID, 5, "Validating URL"); err != nil {
		return err
	}
	if ok, reason := orchestrator.resolver.Validate(ctx, t.URL); !ok {
		return orchestrator.fail(ctx, t, newTrouble(InvalidInput, fmt.Errorf("URL validation failed: %s", reason)))
	}

	if err := orchestrator.checkpoint(ctx, taskID, 10, "Fetching media info"); err != nil {
		return err
	}
	info, err := orchestrator.downloader.FetchInfo(ctx, t.URL)
	if err != nil {
		return orchestrator.fail(ctx, t, newTrouble(ExtractionFailure, fmt.Errorf("info extraction failed: %w", err)))
	}

	if err := orchestrator.store.SaveTaskSourceInfo(ctx, taskID, info.Title, info.Artist, info.DurationSeconds); err != nil {
		return fmt.Errorf("failed to save source info for task %s: %w", taskID, err)
	}
	t.OriginalTitle, t.OriginalArtist, t.DurationSeconds = nonEmpty(info.Title), nonEmpty(info.Artist), &info.DurationSeconds

	if trouble := orchestrator.ingest(ctx, t); trouble != nil {
		return orchestrator.retryOrFail(ctx, t, trouble)
	}

	return nil
}

// ingest performs the retryable stages of the task: downloading, metadata
// extraction and persisting the catalog entry. Any failure is returned as a
// trouble classifying the stage that failed.
func (orchestrator *Orchestrator) ingest(ctx context.Context, t *task.Task) *Trouble {
	if err := orchestrator.store.UpdateTaskStatus(ctx, t.ID, task.Downloading, downloadLo, "Starting download"); err != nil {
		return newTrouble(PersistenceFailure, err)
	}
	orchestrator.dispatch(event.TASK_UPDATE, t.ID)

	tracker := progress.New(downloadLo, downloadHi, func(percent int, label string) {
		if err := orchestrator.store.UpdateTaskProgress(ctx, t.ID, percent, label); err != nil {
			log.Emit(logger.WARNING, "Failed to record progress %d%% for task %s: %v\n", percent, t.ID, err)
			return
		}

		orchestrator.dispatch(event.TASK_PROGRESS, t.ID)
	})

	path, err := orchestrator.downloader.Download(ctx, download.Request{
		TaskID:  t.ID,
		URL:     t.URL,
		Format:  string(t.OutputFormat),
		Quality: t.OutputQuality,
	}, tracker.Handle)
	if err != nil {
		return newTrouble(TransientDownloadFailure, err)
	}

	if err := orchestrator.store.UpdateTaskStatus(ctx, t.ID, task.Processing, 85, "Extracting metadata"); err != nil {
		return newTrouble(PersistenceFailure, err)
	}
	orchestrator.dispatch(event.TASK_UPDATE, t.ID)

	metadata := orchestrator.extractor.Extract(path)
	if metadata == nil || metadata.IsEmpty() {
		log.Emit(logger.WARNING, "No metadata could be extracted from %s, using task values\n", path)
		metadata = &media.Metadata{}
	}

	if err := orchestrator.checkpoint(ctx, t.ID, 90, "Saving to library"); err != nil {
		return newTrouble(PersistenceFailure, err)
	}
	track, err := orchestrator.persist(ctx, t, metadata, path)
	if err != nil {
		return newTrouble(PersistenceFailure, err)
	}

	if err := orchestrator.checkpoint(ctx, t.ID, 95, "Cleaning up"); err != nil {
		return newTrouble(PersistenceFailure, err)
	}
	if err := orchestrator.downloader.Cleanup(path); err != nil {
		trouble := newTrouble(CleanupFailure, err)
		log.Emit(logger.WARNING, "Ignoring %s for task %s: %v\n", trouble.Type(), t.ID, trouble)
	}

	if err := orchestrator.store.MarkTaskCompleted(ctx, t.ID, track.ID); err != nil {
		return newTrouble(PersistenceFailure, err)
	}

	log.Emit(logger.SUCCESS, "Task %s completed, created track %s\n", t.ID, track.ID)
	orchestrator.dispatch(event.TASK_COMPLETE, t.ID)
	return nil
}

// persist creates the catalog entry for the downloaded file. If an earlier
// attempt of this task already created the entry (and failed afterwards), the
// existing entry is returned instead of creating a duplicate.
func (orchestrator *Orchestrator) persist(ctx context.Context, t *task.Task, metadata *media.Metadata, path string) (*catalog.Track, error) {
	existing, err := orchestrator.catalog.FindEntryByTask(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Emit(logger.INFO, "Task %s already has catalog entry %s, re-using it\n", t.ID, existing.ID)
		return existing, nil
	}

	artist, err := orchestrator.catalog.UpsertArtist(ctx, artistName(t, metadata))
	if err != nil {
		return nil, err
	}

	track, err := orchestrator.catalog.CreateEntry(ctx, catalog.EntryFields{
		Title:           trackTitle(t, metadata),
		ArtistID:        artist.ID,
		Album:           metadata.Album,
		Format:          string(t.OutputFormat),
		DurationSeconds: duration(t, metadata),
		BitrateKbps:     bitrate(t, metadata),
		SampleRateHz:    metadata.SampleRateHz,
		Channels:        metadata.Channels,
		SourceURL:       t.URL,
		TaskID:          &t.ID,
	}, path)
	if err != nil {
		return nil, err
	}

	orchestrator.dispatch(event.TRACK_CREATED, track.ID)
	return track, nil
}

// retryOrFail records the trouble in the tasks error log, and then either
// schedules the task for another attempt or, if the retry cap has been
// reached, moves the task to it's terminal failed state.
func (orchestrator *Orchestrator) retryOrFail(ctx context.Context, t *task.Task, trouble *Trouble) error {
	if !trouble.Type().Retryable() || t.RetryCount >= orchestrator.policy.Cap {
		return orchestrator.fail(ctx, t, trouble)
	}

	if err := orchestrator.store.AppendTaskError(ctx, t.ID, trouble.LogEntry(orchestrator.now())); err != nil {
		return fmt.Errorf("failed to record error for task %s: %w", t.ID, err)
	}

	attempt := t.RetryCount + 1
	delay := orchestrator.policy.Delay(attempt)
	step := fmt.Sprintf("Retrying in %ds (attempt %d/%d)", int(delay.Seconds()), attempt, orchestrator.policy.Cap)
	if err := orchestrator.store.ScheduleTaskRetry(ctx, t.ID, attempt, step); err != nil {
		return fmt.Errorf("failed to schedule retry for task %s: %w", t.ID, err)
	}

	log.Emit(logger.WARNING, "Task %s failed (%s), retry %d/%d in %s: %v\n", t.ID, trouble.Type(), attempt, orchestrator.policy.Cap, delay, trouble)
	orchestrator.dispatch(event.TASK_UPDATE, t.ID)
	return &RetryError{TaskID: t.ID, Attempt: attempt, Delay: delay, Cause: trouble}
}

// fail records the trouble in the tasks error log and moves the
// task to the terminal failed state.
func (orchestrator *Orchestrator) fail(ctx context.Context, t *task.Task, trouble *Trouble) error {
	if err := orchestrator.store.AppendTaskError(ctx, t.ID, trouble.LogEntry(orchestrator.now())); err != nil {
		return fmt.Errorf("failed to record error for task %s: %w", t.ID, err)
	}

	if err := orchestrator.store.MarkTaskFailed(ctx, t.ID, fmt.Sprintf("Failed: %s", trouble.Type())); err != nil {
		return fmt.Errorf("failed to mark task %s as failed: %w", t.ID, err)
	}

	log.Emit(logger.ERROR, "Task %s failed permanently (%s): %v\n", t.ID, trouble.Type(), trouble)
	orchestrator.dispatch(event.TASK_COMPLETE, t.ID)
	return nil
}

func (orchestrator *Orchestrator) checkpoint(ctx context.Context, taskID uuid.UUID, percent int, step string) error {
	if err := orchestrator.store.UpdateTaskProgress(ctx, taskID, percent, step); err != nil {
		return fmt.Errorf("failed to update progress of task %s: %w", taskID, err)
	}

	orchestrator.dispatch(event.TASK_PROGRESS, taskID)
	return nil
}

func (orchestrator *Orchestrator) dispatch(ev event.Event, id uuid.UUID) {
	if orchestrator.eventBus != nil {
		orchestrator.eventBus.Dispatch(ev, id)
	}
}

func artistName(t *task.Task, metadata *media.Metadata) string {
	if t.OriginalArtist != nil && strings.TrimSpace(*t.OriginalArtist) != "" {
		return *t.OriginalArtist
	}
	if metadata.Artist != "" {
		return metadata.Artist
	}

	return catalog.UnknownArtist
}

func trackTitle(t *task.Task, metadata *media.Metadata) string {
	if t.OriginalTitle != nil && strings.TrimSpace(*t.OriginalTitle) != "" {
		return *t.OriginalTitle
	}
	if metadata.Title != "" {
		return metadata.Title
	}

	return unknownTitle
}

// duration prefers the duration read from the downloaded file over
// the duration reported by the source.
func duration(t *task.Task, metadata *media.Metadata) int {
	if metadata.DurationSeconds > 0 {
		return metadata.DurationSeconds
	}
	if t.DurationSeconds != nil {
		return *t.DurationSeconds
	}

	return 0
}

// bitrate prefers the bitrate read from the downloaded file over the
// requested quality (e.g. '320k').
func bitrate(t *task.Task, metadata *media.Metadata) int {
	if metadata.BitrateKbps > 0 {
		return metadata.BitrateKbps
	}

	kbps, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(t.OutputQuality)), "k"))
	if err != nil {
		return 0
	}

	return kbps
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
