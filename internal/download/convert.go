package download

import (
	"context"
	"strings"

	"github.com/hbomb79/Cadence/internal/ffmpeg"
)

type (
	// Converter transcodes a fetched source file in to the requested
	// output format, and probes media for it's stream information.
	Converter interface {
		Transcode(ctx context.Context, input string, output string, opts ffmpeg.AudioOptions, onProgress func(float64)) error
		Probe(path string) (*ffmpeg.AudioProbe, error)
	}

	ffmpegConverter struct {
		config ffmpeg.Config
	}
)

var codecs = map[string]string{
	"mp3":  "libmp3lame",
	"flac": "flac",
	"wav":  "pcm_s16le",
	"m4a":  "aac",
	"ogg":  "libvorbis",
}

// ffmpeg muxer names, where they differ from the file extension
var muxers = map[string]string{
	"m4a": "ipod",
}

var lossless = map[string]bool{"flac": true, "wav": true}

func NewFfmpegConverter(config ffmpeg.Config) Converter {
	return &ffmpegConverter{config: config}
}

func (c *ffmpegConverter) Transcode(ctx context.Context, input string, output string, opts ffmpeg.AudioOptions, onProgress func(float64)) error {
	return ffmpeg.NewCmd(input, output, c.config).Run(ctx, opts, func(prog *ffmpeg.Progress) {
		if onProgress != nil {
			onProgress(prog.Progress)
		}
	})
}

func (c *ffmpegConverter) Probe(path string) (*ffmpeg.AudioProbe, error) {
	return ffmpeg.ProbeFile(c.config, path)
}

// audioOptions builds the ffmpeg options for the format and quality
// requested. Quality is ignored for lossless formats.
func audioOptions(format string, quality string) ffmpeg.AudioOptions {
	opts := ffmpeg.AudioOptions{Format: format, Codec: codecs[format]}
	if muxer, ok := muxers[format]; ok {
		opts.Format = muxer
	}
	if !lossless[format] {
		opts.Bitrate = normaliseBitrate(quality)
	}

	return opts
}

// normaliseBitrate converts a quality label such as '320' or '320K'
// in to the form ffmpeg expects ('320k').
func normaliseBitrate(quality string) string {
	quality = strings.ToLower(strings.TrimSpace(quality))
	if quality == "" {
		return ""
	}
	if !strings.HasSuffix(quality, "k") {
		quality += "k"
	}

	return quality
}
