package download

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// progressWriter counts the bytes written through it and reports the
// completion percentage when the total size is known.
type progressWriter struct {
	total      int64
	written    int64
	onProgress func(float64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.total > 0 && w.onProgress != nil {
		w.onProgress(math.Min(100, float64(w.written)*100/float64(w.total)))
	}

	return len(p), nil
}

// fetchDirect retrieves a direct-audio URL using an HTTP GET. The body is
// written to a '.part' file which is renamed in to place once complete, so a
// partially downloaded file is never mistaken for a finished one.
func (downloader *Downloader) fetchDirect(ctx context.Context, rawURL string, dir string, onProgress func(float64)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := downloader.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status %s", resp.Status)
	}

	target := filepath.Join(dir, "source"+directExtension(rawURL))
	partial := target + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return "", err
	}

	_, copyErr := io.Copy(file, io.TeeReader(resp.Body, &progressWriter{total: resp.ContentLength, onProgress: onProgress}))
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(partial)
		if copyErr != nil {
			return "", copyErr
		}
		return "", closeErr
	}

	if err := os.Rename(partial, target); err != nil {
		return "", err
	}

	return target, nil
}

// directInfo resolves the media information for a direct-audio URL. A HEAD
// request confirms the URL is reachable, and ffprobe is used to read the
// duration of the remote file.
func (downloader *Downloader) directInfo(ctx context.Context, rawURL string) (*MediaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := downloader.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected response status %s", resp.Status)
	}

	probe, err := downloader.converter.Probe(rawURL)
	if err != nil {
		return nil, err
	}

	name := directName(rawURL)
	return &MediaInfo{
		ID:              name,
		Title:           name,
		DurationSeconds: int(math.Round(probe.DurationSeconds)),
	}, nil
}

func directExtension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(path.Ext(parsed.Path))
}

func directName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	base := path.Base(parsed.Path)
	name, _ := url.PathUnescape(strings.TrimSuffix(base, path.Ext(base)))
	return name
}
