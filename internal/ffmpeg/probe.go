package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// AudioProbe is the subset of ffprobe output relevant to an audio file. Any
// value which ffprobe did not report is left zeroed.
type AudioProbe struct {
	DurationSeconds float64
	BitrateKbps     int
	SampleRate      int
	Channels        int
	Codec           string
	SizeBytes       int64
}

// probeOutput mirrors the parts of `ffprobe -print_format json` we read.
// Numeric values are reported by ffprobe as strings, except for channels.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		BitRate    string `json:"bit_rate"`
	} `json:"streams"`
}

// ProbeFile runs ffprobe against the path (or URL) provided.
func ProbeFile(config Config, path string) (*AudioProbe, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(config.FfprobeBinPath, "-v", "error", "-print_format", "json", "-show_format", "-show_streams", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to extract file metadata information using ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeOutput(stdout.Bytes())
}

func parseProbeOutput(raw []byte) (*AudioProbe, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode ffprobe output: %w", err)
	}

	probe := &AudioProbe{
		DurationSeconds: parseFloat(out.Format.Duration),
		BitrateKbps:     int(parseFloat(out.Format.BitRate) / 1000),
		SizeBytes:       int64(parseFloat(out.Format.Size)),
	}

	for _, stream := range out.Streams {
		if stream.CodecType != "audio" {
			continue
		}

		probe.Codec = stream.CodecName
		probe.SampleRate = int(parseFloat(stream.SampleRate))
		probe.Channels = stream.Channels
		if probe.BitrateKbps == 0 {
			probe.BitrateKbps = int(parseFloat(stream.BitRate) / 1000)
		}
		break
	}

	return probe, nil
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}

	return f
}
