package media

import (
	"math"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/hbomb79/Cadence/internal/ffmpeg"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("Metadata")

type (
	// Metadata is the information read from a downloaded audio file. Any
	// field which could not be determined is left zeroed, and callers are
	// expected to fall back to their own values.
	Metadata struct {
		DurationSeconds int
		BitrateKbps     int
		SampleRateHz    int
		Channels        int
		Title           string
		Artist          string
		Album           string
	}

	Prober interface {
		Probe(path string) (*ffmpeg.AudioProbe, error)
	}

	// Extractor reads stream information (using ffprobe) and tags
	// from audio files.
	Extractor struct {
		prober Prober
	}
)

func NewExtractor(prober Prober) *Extractor {
	return &Extractor{prober: prober}
}

// Extract reads the metadata for the audio file at the path provided. This
// method never fails; if the file cannot be opened or probed the
// returned metadata will be empty.
func (extractor *Extractor) Extract(path string) *Metadata {
	output := &Metadata{}

	// Use ffprobe to extract reliable stream information
	if probe, err := extractor.prober.Probe(path); err != nil {
		log.Emit(logger.WARNING, "Failed to probe %s: %v\n", path, err)
	} else {
		output.DurationSeconds = int(math.Round(probe.DurationSeconds))
		output.BitrateKbps = probe.BitrateKbps
		output.SampleRateHz = probe.SampleRate
		output.Channels = probe.Channels
	}

	if err := extractTags(path, output); err != nil {
		log.Emit(logger.DEBUG, "No tags read from %s: %v\n", path, err)
	}

	return output
}

// IsEmpty returns true if no information at all could be extracted.
func (metadata *Metadata) IsEmpty() bool {
	return *metadata == Metadata{}
}

func extractTags(path string, output *Metadata) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return err
	}

	output.Title = strings.TrimSpace(tags.Title())
	output.Artist = strings.TrimSpace(tags.Artist())
	if output.Artist == "" {
		output.Artist = strings.TrimSpace(tags.AlbumArtist())
	}
	output.Album = strings.TrimSpace(tags.Album())

	return nil
}
