package download

import (
	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/progress"
)

type (
	// MediaInfo is the information the backend was able to resolve about a
	// URL, without downloading the media itself.
	MediaInfo struct {
		ID              string
		Title           string
		Artist          string
		DurationSeconds int
		Thumbnail       string
		Description     string
	}

	Request struct {
		TaskID  uuid.UUID
		URL     string
		Format  string
		Quality string
	}

	// ProgressHook is called synchronously for every progress event raised
	// while a download is running.
	ProgressHook func(progress.Event)
)

// The extensions which are recognised as a finished download output.
var outputExtensions = []string{"mp3", "flac", "wav", "m4a", "ogg"}
