package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/database"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("Catalog")

type (
	// PayloadStore is the durable storage that audio files are
	// streamed in to when a catalog entry is created.
	PayloadStore interface {
		Save(ctx context.Context, r io.Reader, suggestedName string) (string, int64, error)
		Delete(ref string) error
	}

	// Writer creates artists and catalog entries, binding the downloaded
	// audio file to durable storage.
	Writer struct {
		db      database.Queryable
		store   *Store
		payload PayloadStore
	}
)

func NewWriter(db database.Queryable, payload PayloadStore) *Writer {
	return &Writer{db: db, store: &Store{}, payload: payload}
}

func (writer *Writer) UpsertArtist(ctx context.Context, name string) (*Artist, error) {
	return writer.store.UpsertArtist(ctx, writer.db, name)
}

// CreateEntry streams the local file in to storage and inserts a new
// catalog entry referencing it. A new entry is always created, entries are
// not de-duplicated across tasks. If the insert fails, the stored payload
// is removed again.
func (writer *Writer) CreateEntry(ctx context.Context, fields EntryFields, localPath string) (*Track, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	ref, size, err := writer.payload.Save(ctx, file, filepath.Base(localPath))
	if err != nil {
		return nil, err
	}

	track := &Track{
		Title:           fields.Title,
		ArtistID:        fields.ArtistID,
		Format:          fields.Format,
		DurationSeconds: fields.DurationSeconds,
		BitrateKbps:     fields.BitrateKbps,
		SampleRateHz:    fields.SampleRateHz,
		Channels:        fields.Channels,
		FileSize:        size,
		StorageRef:      ref,
		SourceURL:       fields.SourceURL,
		TaskID:          fields.TaskID,
	}
	if fields.Album != "" {
		track.Album = &fields.Album
	}

	if err := writer.store.CreateTrack(ctx, writer.db, track); err != nil {
		if delErr := writer.payload.Delete(ref); delErr != nil {
			log.Emit(logger.WARNING, "Failed to remove orphaned payload %s: %v\n", ref, delErr)
		}
		return nil, err
	}

	log.Emit(logger.SUCCESS, "Created catalog entry %s (%q) stored at %s\n", track.ID, track.Title, ref)
	return track, nil
}

func (writer *Writer) GetTrack(ctx context.Context, id uuid.UUID) (*Track, error) {
	return writer.store.GetTrack(ctx, writer.db, id)
}

// FindEntryByTask returns the entry previously created for the task,
// or nil if the task has not yet produced one.
func (writer *Writer) FindEntryByTask(ctx context.Context, taskID uuid.UUID) (*Track, error) {
	track, err := writer.store.GetTrackForTask(ctx, writer.db, taskID)
	if errors.Is(err, ErrTrackNotFound) {
		return nil, nil
	}

	return track, err
}
