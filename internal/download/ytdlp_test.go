package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		line     string
		expected float64
		ok       bool
	}{
		{"download:  42.3%", 42.3, true},
		{"download:100.0%", 100, true},
		{"download:   N/A", 0, false},
		{"/tmp/cadence/abc/source.webm", 0, false},
	}

	for _, test := range tests {
		percent, ok := parseProgressLine(test.line)
		assert.Equal(t, test.ok, ok, test.line)
		assert.InDelta(t, test.expected, percent, 0.001, test.line)
	}
}

func TestScanFetchOutput(t *testing.T) {
	output := strings.Join([]string{
		"download:   0.0%",
		"\x1b[0;94mdownload:  50.0%\x1b[0m",
		"download: 100.0%",
		"",
		"/tmp/work/source.webm",
	}, "\n")

	var seen []float64
	path := scanFetchOutput(strings.NewReader(output), func(p float64) { seen = append(seen, p) })
	assert.Equal(t, "/tmp/work/source.webm", path)
	assert.Equal(t, []float64{0, 50, 100}, seen)
}

func TestParseInfo(t *testing.T) {
	info, err := parseInfo([]byte(`{"id":"dQw4w9WgXcQ","title":"Never Gonna Give You Up","uploader":"Rick Astley","duration":212.4,"thumbnail":"https://i.ytimg.com/x.jpg"}`))
	require.NoError(t, err)
	assert.Equal(t, &MediaInfo{
		ID:              "dQw4w9WgXcQ",
		Title:           "Never Gonna Give You Up",
		Artist:          "Rick Astley",
		DurationSeconds: 212,
		Thumbnail:       "https://i.ytimg.com/x.jpg",
	}, info)

	_, err = parseInfo([]byte("not json"))
	assert.Error(t, err)
}

func TestCommandError(t *testing.T) {
	exit := errors.New("exit status 1")
	err := commandError(exit, "WARNING: something\nERROR: [youtube] abc: Video unavailable\n")
	assert.ErrorIs(t, err, exit)
	assert.Contains(t, err.Error(), "[youtube] abc: Video unavailable")

	assert.Same(t, exit, commandError(exit, ""))
}

func TestYtdlpFetchUsingScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}

	workDir := t.TempDir()
	script := filepath.Join(t.TempDir(), "yt-dlp")
	body := "#!/bin/sh\n" +
		"echo 'download:  10.0%'\n" +
		"echo 'download: 100.0%'\n" +
		"touch " + filepath.Join(workDir, "source.m4a") + "\n" +
		"echo " + filepath.Join(workDir, "source.m4a") + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	var seen []float64
	path, err := NewYtdlp(script).Fetch(context.Background(), "https://youtu.be/abc", workDir, func(p float64) { seen = append(seen, p) })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, "source.m4a"), path)
	assert.Equal(t, []float64{10, 100}, seen)
}

func TestYtdlpInfoFailureUsingScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}

	script := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'ERROR: Unsupported URL' >&2\nexit 1\n"), 0o755))

	_, err := NewYtdlp(script).Info(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported URL")
}

func TestAudioOptions(t *testing.T) {
	assert.Equal(t, "320k", audioOptions("mp3", "320").Bitrate)
	assert.Equal(t, "ipod", audioOptions("m4a", "256k").Format)
	assert.Equal(t, "aac", audioOptions("m4a", "256k").Codec)
	assert.Empty(t, audioOptions("wav", "320k").Bitrate)
}
