package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbomb79/Cadence/internal/progress"
	"github.com/hbomb79/Cadence/internal/source"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("Downloader")

// The share of the overall download progress given to fetching the source
// media. The remainder is given to the conversion.
const fetchWeight = 70.0

// Downloader retrieves media from a URL and converts it to the requested
// audio format. Each download takes place in an isolated working directory
// so that concurrent downloads never collide.
type Downloader struct {
	config    Config
	extractor Extractor
	converter Converter
	client    *http.Client
}

func New(config Config, extractor Extractor, converter Converter) *Downloader {
	return &Downloader{
		config:    config,
		extractor: extractor,
		converter: converter,
		client:    &http.Client{Timeout: config.HTTPTimeout},
	}
}

// FetchInfo resolves information about the media at the URL, without
// downloading it. Failures are returned as an *ExtractionError.
func (downloader *Downloader) FetchInfo(ctx context.Context, url string) (*MediaInfo, error) {
	var (
		info *MediaInfo
		err  error
	)
	if source.Identify(url) == source.DirectAudio {
		info, err = downloader.directInfo(ctx, url)
	} else {
		info, err = downloader.extractor.Info(ctx, url)
	}

	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}

	return info, nil
}

// Probe satisfies source.Prober, allowing the Downloader to be used
// to validate URLs.
func (downloader *Downloader) Probe(ctx context.Context, url string) (*source.ProbeResult, error) {
	info, err := downloader.FetchInfo(ctx, url)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return nil, extractionErr.Err
		}
		return nil, err
	}

	return &source.ProbeResult{Title: info.Title, DurationSeconds: info.DurationSeconds}, nil
}

// Download fetches the media for the request and converts it, returning the
// path of the converted file. Progress is reported to the hook as the download
// runs, with the fetch and conversion phases sharing a single 0-100 scale.
//
// If a converted output for the task already exists in the working directory
// (for example, from an earlier attempt that failed after downloading) it
// is returned without downloading the media again.
func (downloader *Downloader) Download(ctx context.Context, req Request, hook ProgressHook) (string, error) {
	if hook == nil {
		hook = func(progress.Event) {}
	}

	id := req.TaskID.String()
	dir := downloader.workDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &DownloadError{URL: req.URL, Phase: "setup", Err: err}
	}

	if existing := findOutput(dir, id); existing != "" {
		log.Emit(logger.INFO, "Re-using existing download output %s for task %s\n", existing, id)
		hook(progress.Finished{})
		return existing, nil
	}

	fail := func(phase string, err error) (string, error) {
		hook(progress.Failed{Message: err.Error()})
		return "", &DownloadError{URL: req.URL, Phase: phase, Err: err}
	}

	onFetch := func(p float64) {
		hook(progress.Downloading{Percent: p * fetchWeight / 100, Phase: progress.PhaseDownload})
	}

	var (
		sourcePath string
		err        error
	)
	if source.Identify(req.URL) == source.DirectAudio {
		sourcePath, err = downloader.fetchDirect(ctx, req.URL, dir, onFetch)
	} else {
		sourcePath, err = downloader.extractor.Fetch(ctx, req.URL, dir, onFetch)
	}
	if err != nil {
		return fail("download", err)
	}

	// Conversion writes to a '.part' file so an interrupted or failed
	// transcode is never picked up by findOutput on a later attempt. The
	// muxer is always set explicitly, so the extension is not relied upon.
	output := filepath.Join(dir, fmt.Sprintf("%s.%s", id, strings.ToLower(req.Format)))
	partial := output + ".part"
	onConvert := func(p float64) {
		hook(progress.Downloading{Percent: fetchWeight + p*(100-fetchWeight)/100, Phase: progress.PhaseConvert})
	}
	if err := downloader.converter.Transcode(ctx, sourcePath, partial, audioOptions(strings.ToLower(req.Format), req.Quality), onConvert); err != nil {
		removePartial(partial)
		return fail("conversion", err)
	}

	if err := os.Remove(sourcePath); err != nil && !os.IsNotExist(err) {
		log.Emit(logger.WARNING, "Failed to remove fetched source %s: %v\n", sourcePath, err)
	}

	if _, err := os.Stat(partial); err != nil {
		err := &FileNotFoundError{Dir: dir, ID: id}
		hook(progress.Failed{Message: err.Error()})
		return "", err
	}
	if err := os.Rename(partial, output); err != nil {
		removePartial(partial)
		return fail("conversion", err)
	}

	path := findOutput(dir, id)
	if path == "" {
		err := &FileNotFoundError{Dir: dir, ID: id}
		hook(progress.Failed{Message: err.Error()})
		return "", err
	}

	hook(progress.Finished{})
	return path, nil
}

// Cleanup removes a downloaded file, and the working directory it was
// downloaded in to. A file which does not exist is not an error.
func (downloader *Downloader) Cleanup(path string) error {
	var errs []error
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}

	dir := filepath.Dir(path)
	if downloader.isWorkDir(dir) {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Emit(logger.WARNING, "Cleanup of %s failed: %v\n", path, err)
		return err
	}

	log.Emit(logger.DEBUG, "Cleaned up %s\n", path)
	return nil
}

func (downloader *Downloader) workDir(id string) string {
	return filepath.Join(downloader.config.TempDir, id)
}

// isWorkDir returns true if the dir provided is a direct child of the
// configured temp directory.
func (downloader *Downloader) isWorkDir(dir string) bool {
	root, err := filepath.Abs(downloader.config.TempDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}

	return filepath.Dir(abs) == root && abs != root
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Emit(logger.WARNING, "Failed to remove partial conversion output %s: %v\n", path, err)
	}
}

// findOutput searches the directory for a file named after the ID
// with one of the recognised output extensions.
func findOutput(dir string, id string) string {
	for _, ext := range outputExtensions {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", id, ext))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}
