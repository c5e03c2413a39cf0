package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/database"
)

const trackSelect = `
	SELECT t.id, t.title, t.artist_id, a.name AS artist_name, t.album, t.format, t.duration_seconds,
		t.bitrate_kbps, t.sample_rate_hz, t.channels, t.file_size, t.storage_ref, t.source_url,
		t.task_id, t.created_at
	FROM track t
	INNER JOIN artist a ON a.id = t.artist_id`

type Store struct{}

// UpsertArtist returns the artist with the exact (case-sensitive) name
// provided, creating it if it does not already exist. Concurrent
// upserts of the same name resolve to a single row.
func (store *Store) UpsertArtist(ctx context.Context, db database.Queryable, name string) (*Artist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyArtist
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO artist(id, name, created_at)
		VALUES ($1, $2, current_timestamp)
		ON CONFLICT (name) DO NOTHING`, uuid.New(), name,
	); err != nil {
		return nil, fmt.Errorf("failed to insert artist %q: %w", name, err)
	}

	var artist Artist
	if err := db.GetContext(ctx, &artist, `SELECT id, name, created_at FROM artist WHERE name=$1`, name); err != nil {
		return nil, fmt.Errorf("failed to fetch artist %q: %w", name, err)
	}

	return &artist, nil
}

// CreateTrack inserts the track provided. The ID and creation time of the
// track are populated by this method.
func (store *Store) CreateTrack(ctx context.Context, db database.Queryable, track *Track) error {
	track.ID = uuid.New()
	err := db.QueryRowxContext(ctx, `
		INSERT INTO track(id, title, artist_id, album, format, duration_seconds, bitrate_kbps, sample_rate_hz,
			channels, file_size, storage_ref, source_url, task_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, current_timestamp)
		RETURNING created_at`,
		track.ID, track.Title, track.ArtistID, track.Album, track.Format, track.DurationSeconds, track.BitrateKbps,
		track.SampleRateHz, track.Channels, track.FileSize, track.StorageRef, track.SourceURL, track.TaskID,
	).Scan(&track.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

func (store *Store) GetTrack(ctx context.Context, db database.Queryable, id uuid.UUID) (*Track, error) {
	return store.getTrackWhere(ctx, db, `t.id=$1`, id)
}

// GetTrackForTask returns the track created by the task provided, if any.
func (store *Store) GetTrackForTask(ctx context.Context, db database.Queryable, taskID uuid.UUID) (*Track, error) {
	return store.getTrackWhere(ctx, db, `t.task_id=$1`, taskID)
}

func (store *Store) getTrackWhere(ctx context.Context, db database.Queryable, where string, arg any) (*Track, error) {
	var track Track
	if err := db.GetContext(ctx, &track, trackSelect+` WHERE `+where+` ORDER BY t.created_at LIMIT 1`, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackNotFound
		}

		return nil, fmt.Errorf("failed to fetch track: %w", err)
	}

	return &track, nil
}
