package download_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/download"
	"github.com/hbomb79/Cadence/internal/ffmpeg"
	"github.com/hbomb79/Cadence/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fakeExtractor struct {
	info       *download.MediaInfo
	infoErr    error
	fetchErr   error
	fetchCalls int
}

func (f *fakeExtractor) Info(_ context.Context, _ string) (*download.MediaInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeExtractor) Fetch(_ context.Context, _ string, dir string, onProgress func(float64)) (string, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return "", f.fetchErr
	}

	for _, p := range []float64{0, 25, 50, 100} {
		onProgress(p)
	}

	path := filepath.Join(dir, "source.webm")
	return path, os.WriteFile(path, []byte("source"), 0o644)
}

type fakeConverter struct {
	writeOutput bool
	err         error
	probe       *ffmpeg.AudioProbe
	lastOpts    ffmpeg.AudioOptions
	calls       int

	// truncatedFailures is the number of calls which write partial output
	// before failing, as ffmpeg does when it dies mid-conversion.
	truncatedFailures int
}

func (f *fakeConverter) Transcode(_ context.Context, _ string, output string, opts ffmpeg.AudioOptions, onProgress func(float64)) error {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return f.err
	}
	if f.truncatedFailures > 0 {
		f.truncatedFailures--
		if err := os.WriteFile(output, []byte("trunc"), 0o644); err != nil {
			return err
		}
		return errors.New("ffmpeg exited with code 1")
	}

	onProgress(50)
	onProgress(100)
	if f.writeOutput {
		return os.WriteFile(output, []byte("converted"), 0o644)
	}

	return nil
}

func (f *fakeConverter) Probe(_ string) (*ffmpeg.AudioProbe, error) {
	if f.probe == nil {
		return nil, errors.New("no probe")
	}

	return f.probe, nil
}

func newDownloader(t *testing.T, extractor download.Extractor, converter download.Converter) (*download.Downloader, string) {
	dir := t.TempDir()
	return download.New(download.Config{TempDir: dir}, extractor, converter), dir
}

func collect(events *[]progress.Event) download.ProgressHook {
	return func(ev progress.Event) { *events = append(*events, ev) }
}

func TestDownload_ComposesPhasesAndFinishes(t *testing.T) {
	converter := &fakeConverter{writeOutput: true}
	downloader, root := newDownloader(t, &fakeExtractor{}, converter)
	taskID := uuid.New()

	var events []progress.Event
	path, err := downloader.Download(ctx, download.Request{TaskID: taskID, URL: "https://youtu.be/abc", Format: "mp3", Quality: "320k"}, collect(&events))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, taskID.String(), taskID.String()+".mp3"), path)
	assert.NoFileExists(t, filepath.Join(root, taskID.String(), "source.webm"), "fetched source should be removed after conversion")
	assert.Equal(t, "libmp3lame", converter.lastOpts.Codec)
	assert.Equal(t, "320k", converter.lastOpts.Bitrate)

	require.NotEmpty(t, events)
	assert.Equal(t, progress.Finished{}, events[len(events)-1])

	last := -1.0
	for _, ev := range events[:len(events)-1] {
		downloading, ok := ev.(progress.Downloading)
		require.True(t, ok, "expected only downloading events before finish, got %T", ev)
		assert.GreaterOrEqual(t, downloading.Percent, last)
		last = downloading.Percent
	}
	assert.Equal(t, progress.Downloading{Percent: 70, Phase: progress.PhaseDownload}, events[3])
	assert.Equal(t, progress.Downloading{Percent: 85, Phase: progress.PhaseConvert}, events[4])
	assert.Equal(t, 100.0, last)
}

func TestDownload_FetchFailure(t *testing.T) {
	downloader, _ := newDownloader(t, &fakeExtractor{fetchErr: errors.New("HTTP Error 403")}, &fakeConverter{writeOutput: true})

	var events []progress.Event
	_, err := downloader.Download(ctx, download.Request{TaskID: uuid.New(), URL: "https://youtu.be/abc", Format: "mp3"}, collect(&events))

	var downloadErr *download.DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, "download", downloadErr.Phase)
	assert.Equal(t, progress.Failed{Message: "HTTP Error 403"}, events[len(events)-1])
}

func TestDownload_MissingOutput(t *testing.T) {
	downloader, _ := newDownloader(t, &fakeExtractor{}, &fakeConverter{writeOutput: false})

	_, err := downloader.Download(ctx, download.Request{TaskID: uuid.New(), URL: "https://youtu.be/abc", Format: "mp3"}, nil)

	var notFound *download.FileNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDownload_FailedConversionIsNotReused(t *testing.T) {
	extractor := &fakeExtractor{}
	converter := &fakeConverter{writeOutput: true, truncatedFailures: 1}
	downloader, root := newDownloader(t, extractor, converter)
	taskID := uuid.New()
	req := download.Request{TaskID: taskID, URL: "https://youtu.be/abc", Format: "m4a", Quality: "192"}
	output := filepath.Join(root, taskID.String(), taskID.String()+".m4a")

	_, err := downloader.Download(ctx, req, nil)
	var downloadErr *download.DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, "conversion", downloadErr.Phase)
	assert.NoFileExists(t, output)
	assert.NoFileExists(t, output+".part", "partial conversion output must be removed")
	assert.Equal(t, "ipod", converter.lastOpts.Format, "muxer must be explicit since the target has a .part extension")

	path, err := downloader.Download(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, output, path)
	assert.Equal(t, 2, extractor.fetchCalls, "retry must fetch again rather than reuse the failed attempt")
	assert.Equal(t, 2, converter.calls)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(contents))
	assert.NoFileExists(t, output+".part")
}

func TestDownload_ReusesExistingOutput(t *testing.T) {
	extractor := &fakeExtractor{}
	downloader, root := newDownloader(t, extractor, &fakeConverter{writeOutput: true})
	taskID := uuid.New()

	existing := filepath.Join(root, taskID.String(), taskID.String()+".flac")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("flac"), 0o644))

	var events []progress.Event
	path, err := downloader.Download(ctx, download.Request{TaskID: taskID, URL: "https://youtu.be/abc", Format: "flac"}, collect(&events))
	require.NoError(t, err)
	assert.Equal(t, existing, path)
	assert.Zero(t, extractor.fetchCalls)
	assert.Equal(t, []progress.Event{progress.Finished{}}, events)
}

func TestDownload_DirectAudio(t *testing.T) {
	payload := []byte("not really audio, but the converter doesn't mind")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		if r.Method == http.MethodGet {
			_, _ = w.Write(payload)
		}
	}))
	defer server.Close()

	extractor := &fakeExtractor{}
	converter := &fakeConverter{writeOutput: true, probe: &ffmpeg.AudioProbe{DurationSeconds: 199.6}}
	downloader, root := newDownloader(t, extractor, converter)
	taskID := uuid.New()
	url := server.URL + "/audio/My%20Song.mp3"

	info, err := downloader.FetchInfo(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "My Song", info.Title)
	assert.Equal(t, 200, info.DurationSeconds)

	var events []progress.Event
	path, err := downloader.Download(ctx, download.Request{TaskID: taskID, URL: url, Format: "flac", Quality: "320k"}, collect(&events))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, taskID.String(), taskID.String()+".flac"), path)
	assert.Zero(t, extractor.fetchCalls)
	assert.Empty(t, converter.lastOpts.Bitrate, "lossless output should not be given a bitrate")
	assert.NoFileExists(t, filepath.Join(root, taskID.String(), "source.mp3.part"))
	assert.Equal(t, progress.Finished{}, events[len(events)-1])
}

func TestDownload_DirectAudioHttpFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	downloader, _ := newDownloader(t, &fakeExtractor{}, &fakeConverter{writeOutput: true})

	_, err := downloader.FetchInfo(ctx, server.URL+"/missing.mp3")
	var extractionErr *download.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)

	_, err = downloader.Download(ctx, download.Request{TaskID: uuid.New(), URL: server.URL + "/missing.mp3", Format: "mp3"}, nil)
	var downloadErr *download.DownloadError
	assert.ErrorAs(t, err, &downloadErr)
}

func TestFetchInfoAndProbe(t *testing.T) {
	extractor := &fakeExtractor{info: &download.MediaInfo{ID: "abc", Title: "Song", Artist: "Band", DurationSeconds: 200}}
	downloader, _ := newDownloader(t, extractor, &fakeConverter{})

	info, err := downloader.FetchInfo(ctx, "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, "Band", info.Artist)

	probe, err := downloader.Probe(ctx, "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, "Song", probe.Title)
	assert.Equal(t, 200, probe.DurationSeconds)

	extractor.infoErr = errors.New("Unsupported URL")
	_, err = downloader.FetchInfo(ctx, "https://youtu.be/abc")
	var extractionErr *download.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.EqualError(t, extractionErr.Unwrap(), "Unsupported URL")

	_, err = downloader.Probe(ctx, "https://youtu.be/abc")
	assert.EqualError(t, err, "Unsupported URL")
}

func TestCleanup(t *testing.T) {
	downloader, root := newDownloader(t, &fakeExtractor{}, &fakeConverter{})

	workDir := filepath.Join(root, uuid.NewString())
	require.NoError(t, os.MkdirAll(workDir, 0o755))
	file := filepath.Join(workDir, "out.mp3")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, downloader.Cleanup(file))
	assert.NoDirExists(t, workDir)
	assert.DirExists(t, root, "temp root must never be removed")

	assert.NoError(t, downloader.Cleanup(file), "cleaning a missing file is not an error")
}
