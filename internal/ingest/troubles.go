package ingest

import (
	"fmt"
	"time"
)

type (
	TroubleType int

	// Trouble is a classified failure raised while processing a task. The
	// type of trouble determines whether the task may be retried.
	Trouble struct {
		error
		tType TroubleType
	}
)

const (
	// The URL is unsupported, or the media it points to can never be downloaded
	InvalidInput TroubleType = iota
	// The backend could not resolve information about the media
	ExtractionFailure
	// A network or backend failure while downloading or converting
	TransientDownloadFailure
	// Writing the catalog entry, it's payload, or the task state failed
	PersistenceFailure
	// The temporary download could not be removed. Never affects the task
	CleanupFailure
)

func newTrouble(tType TroubleType, err error) *Trouble {
	return &Trouble{error: err, tType: tType}
}

func (t *Trouble) Type() TroubleType { return t.tType }
func (t *Trouble) Unwrap() error     { return t.error }

// LogEntry formats the trouble as a single line suitable for
// appending to a tasks error log.
func (t *Trouble) LogEntry(at time.Time) string {
	return fmt.Sprintf("[%s] %s: %s", at.UTC().Format(time.RFC3339), t.tType, t.Error())
}

// Retryable returns true if a task which encountered this type of
// trouble may be attempted again.
func (t TroubleType) Retryable() bool {
	return t == TransientDownloadFailure || t == PersistenceFailure
}

func (t TroubleType) String() string {
	switch t {
	case InvalidInput:
		return "INVALID_INPUT"
	case ExtractionFailure:
		return "EXTRACTION_FAILURE"
	case TransientDownloadFailure:
		return "TRANSIENT_DOWNLOAD_FAILURE"
	case PersistenceFailure:
		return "PERSISTENCE_FAILURE"
	case CleanupFailure:
		return "CLEANUP_FAILURE"
	default:
		return fmt.Sprintf("UNKNOWN[%d]", int(t))
	}
}
