package download

import (
	"fmt"
	"strings"
)

type (
	// ExtractionError is returned when the backend could not resolve
	// information about the media at a URL.
	ExtractionError struct {
		URL string
		Err error
	}

	// DownloadError is returned when retrieving or converting the media
	// failed due to a network or backend failure.
	DownloadError struct {
		URL   string
		Phase string
		Err   error
	}

	// FileNotFoundError is returned when the backend reported success but
	// no output file with a recognised audio extension could be found.
	FileNotFoundError struct {
		Dir string
		ID  string
	}
)

func (err *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract media info from %s: %s", err.URL, err.Err)
}

func (err *ExtractionError) Unwrap() error { return err.Err }

func (err *DownloadError) Error() string {
	return fmt.Sprintf("%s of %s failed: %s", err.Phase, err.URL, err.Err)
}

func (err *DownloadError) Unwrap() error { return err.Err }

func (err *FileNotFoundError) Error() string {
	return fmt.Sprintf("no output file matching %s.{%s} found in %s", err.ID, strings.Join(outputExtensions, ","), err.Dir)
}
