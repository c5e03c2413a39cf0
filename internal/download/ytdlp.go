package download

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hbomb79/Cadence/pkg/logger"
)

const progressPrefix = "download:"

var ansiMatcher = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type (
	// Extractor is the media extraction backend used for platform URLs.
	Extractor interface {
		// Info resolves the media information for the URL without
		// downloading the media payload.
		Info(ctx context.Context, url string) (*MediaInfo, error)

		// Fetch downloads the best available audio stream for the URL in
		// to the directory provided, returning the path of the file written.
		// onProgress is called with the raw completion percentage.
		Fetch(ctx context.Context, url string, dir string, onProgress func(float64)) (string, error)
	}

	ytdlp struct {
		bin string
	}

	ytdlpInfo struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Track       string  `json:"track"`
		Artist      string  `json:"artist"`
		Uploader    string  `json:"uploader"`
		Duration    float64 `json:"duration"`
		Thumbnail   string  `json:"thumbnail"`
		Description string  `json:"description"`
	}
)

// NewYtdlp returns an Extractor which drives the yt-dlp binary at the path provided.
func NewYtdlp(bin string) Extractor {
	return &ytdlp{bin: bin}
}

func (y *ytdlp) Info(ctx context.Context, url string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, y.bin, "--dump-single-json", "--skip-download", "--no-playlist", "--no-warnings", url)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, commandError(err, stderr.String())
	}

	return parseInfo(out)
}

func (y *ytdlp) Fetch(ctx context.Context, url string, dir string, onProgress func(float64)) (string, error) {
	cmd := exec.CommandContext(ctx, y.bin,
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-colors",
		"--newline",
		"--no-simulate",
		"--progress",
		"--progress-template", progressPrefix+"%(progress._percent_str)s",
		"--print", "after_move:filepath",
		"-o", filepath.Join(dir, "source.%(ext)s"),
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}

	log.Emit(logger.DEBUG, "Starting yt-dlp fetch of %s in to %s\n", url, dir)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	path := scanFetchOutput(stdout, onProgress)
	if err := cmd.Wait(); err != nil {
		return "", commandError(err, stderr.String())
	}

	if path == "" {
		return "", errors.New("yt-dlp did not report the path of the downloaded file")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("yt-dlp reported output %s but it could not be found: %w", path, err)
	}

	return path, nil
}

// scanFetchOutput consumes the stdout of a yt-dlp fetch. Progress lines are
// forwarded to the callback, and the last non-progress line (the path printed
// after the file is moved in to place) is returned.
func scanFetchOutput(r io.Reader, onProgress func(float64)) string {
	var path string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(ansiMatcher.ReplaceAllString(scanner.Text(), ""))
		if line == "" {
			continue
		}

		if percent, ok := parseProgressLine(line); ok {
			if onProgress != nil {
				onProgress(percent)
			}
			continue
		}

		path = line
	}

	return path
}

func parseProgressLine(line string) (float64, bool) {
	if !strings.HasPrefix(line, progressPrefix) {
		return 0, false
	}

	value := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, progressPrefix)), "%")
	percent, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(percent) {
		// 'N/A' is reported when the total size is unknown
		return 0, false
	}

	return math.Max(0, math.Min(100, percent)), true
}

func parseInfo(raw []byte) (*MediaInfo, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	title := info.Title
	if title == "" {
		title = info.Track
	}
	artist := info.Artist
	if artist == "" {
		artist = info.Uploader
	}

	return &MediaInfo{
		ID:              info.ID,
		Title:           title,
		Artist:          artist,
		DurationSeconds: int(math.Round(info.Duration)),
		Thumbnail:       info.Thumbnail,
		Description:     info.Description,
	}, nil
}

// commandError extracts the most useful line of yt-dlp's stderr, which
// contains the 'ERROR:' message when the tool fails.
func commandError(err error, stderr string) error {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.HasPrefix(line, "ERROR:") {
			return fmt.Errorf("%s (%w)", strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")), err)
		}
	}

	if msg := strings.TrimSpace(lines[len(lines)-1]); msg != "" {
		return fmt.Errorf("%s (%w)", msg, err)
	}

	return err
}
