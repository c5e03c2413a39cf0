package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	Status string
	Format string

	// Task is a single URL to catalog-entry conversion request. The progress
	// and lifecycle fields are only ever mutated by the ingest orchestrator
	// processing the task.
	Task struct {
		ID              uuid.UUID  `db:"id"`
		UserID          *uuid.UUID `db:"user_id"`
		URL             string     `db:"url"`
		OutputFormat    Format     `db:"output_format"`
		OutputQuality   string     `db:"output_quality"`
		OriginalTitle   *string    `db:"original_title"`
		OriginalArtist  *string    `db:"original_artist"`
		DurationSeconds *int       `db:"duration_seconds"`
		Percent         int        `db:"percent"`
		CurrentStep     string     `db:"current_step"`
		Status          Status     `db:"status"`
		RetryCount      int        `db:"retry_count"`
		ErrorLog        string     `db:"error_log"`
		TrackID         *uuid.UUID `db:"track_id"`
		CreatedAt       time.Time  `db:"created_at"`
		UpdatedAt       time.Time  `db:"updated_at"`
		CompletedAt     *time.Time `db:"completed_at"`
	}

	// CreateRequest contains the caller supplied fields
	// required to create a new task.
	CreateRequest struct {
		URL           string
		OutputFormat  Format
		OutputQuality string
		UserID        *uuid.UUID
	}
)

const (
	Pending     Status = "pending"
	Downloading Status = "downloading"
	Processing  Status = "processing"
	Completed   Status = "completed"
	Failed      Status = "failed"
)

const (
	MP3  Format = "mp3"
	FLAC Format = "flac"
	OGG  Format = "ogg"
	M4A  Format = "m4a"
	WAV  Format = "wav"
)

const DefaultQuality = "320k"

var (
	ErrTaskNotFound  = errors.New("download task does not exist")
	ErrUnknownFormat = errors.New("output format is not supported")

	formats = []Format{MP3, FLAC, OGG, M4A, WAV}
)

// IsTerminal returns true for the states from which no
// further transitions occur.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// Formats returns every supported output format.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

func ParseFormat(raw string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, f := range formats {
		if f == candidate {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// LastError returns the most recent entry of the tasks error log, or
// an empty string if no errors have been recorded.
func (task *Task) LastError() string {
	log := strings.TrimRight(task.ErrorLog, "\n")
	if idx := strings.LastIndex(log, "\n"); idx >= 0 {
		return log[idx+1:]
	}

	return log
}

// ErrorEntries splits the error log in to it's individual entries.
func (task *Task) ErrorEntries() []string {
	if task.ErrorLog == "" {
		return []string{}
	}

	return strings.Split(strings.TrimRight(task.ErrorLog, "\n"), "\n")
}

func (task *Task) String() string {
	return fmt.Sprintf("Task{id=%s status=%s percent=%d retries=%d}", task.ID, task.Status, task.Percent, task.RetryCount)
}
