package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const UnknownArtist = "Unknown Artist"

var (
	ErrTrackNotFound = errors.New("track does not exist")
	ErrEmptyArtist   = errors.New("artist name must not be empty")
)

type (
	Artist struct {
		ID        uuid.UUID `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}

	// Track is a catalog entry: one playable audio file in the library.
	Track struct {
		ID              uuid.UUID  `db:"id"`
		Title           string     `db:"title"`
		ArtistID        uuid.UUID  `db:"artist_id"`
		ArtistName      string     `db:"artist_name"`
		Album           *string    `db:"album"`
		Format          string     `db:"format"`
		DurationSeconds int        `db:"duration_seconds"`
		BitrateKbps     int        `db:"bitrate_kbps"`
		SampleRateHz    int        `db:"sample_rate_hz"`
		Channels        int        `db:"channels"`
		FileSize        int64      `db:"file_size"`
		StorageRef      string     `db:"storage_ref"`
		SourceURL       string     `db:"source_url"`
		TaskID          *uuid.UUID `db:"task_id"`
		CreatedAt       time.Time  `db:"created_at"`
	}

	// EntryFields are the caller supplied fields used to create a
	// new catalog entry.
	EntryFields struct {
		Title           string
		ArtistID        uuid.UUID
		Album           string
		Format          string
		DurationSeconds int
		BitrateKbps     int
		SampleRateHz    int
		Channels        int
		SourceURL       string
		TaskID          *uuid.UUID
	}
)
