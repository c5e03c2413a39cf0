package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbomb79/Cadence/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStore(storage.Config{RootPath: root})

	ref, size, err := store.Save(context.Background(), strings.NewReader("audio payload"), "Some Song.MP3")
	require.NoError(t, err)
	assert.EqualValues(t, len("audio payload"), size)

	dir, name := filepath.Split(filepath.FromSlash(ref))
	assert.Len(t, filepath.Clean(dir), 2)
	assert.True(t, strings.HasPrefix(name, filepath.Clean(dir)))
	assert.Equal(t, ".mp3", filepath.Ext(name))
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(ref)))
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(ref))+".part")

	file, err := store.Open(ref)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "audio payload", string(content))

	require.NoError(t, store.Delete(ref))
	assert.NoFileExists(t, store.Path(ref))
	assert.NoError(t, store.Delete(ref))
}

func TestLocalStore_UniqueRefs(t *testing.T) {
	store := storage.NewLocalStore(storage.Config{RootPath: t.TempDir()})

	a, _, err := store.Save(context.Background(), strings.NewReader("a"), "same.flac")
	require.NoError(t, err)
	b, _, err := store.Save(context.Background(), strings.NewReader("b"), "same.flac")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalStore_CancelledContext(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStore(storage.Config{RootPath: root})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Save(ctx, strings.NewReader("payload"), "x.mp3")
	assert.ErrorIs(t, err, context.Canceled)

	// No partial files may be left behind
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			t.Errorf("unexpected file left in storage: %s", path)
		}
		return err
	})
	assert.NoError(t, err)
}

func TestLocalStore_RejectsEscapingRefs(t *testing.T) {
	store := storage.NewLocalStore(storage.Config{RootPath: t.TempDir()})

	for _, ref := range []string{"", "../etc/passwd", "/abs/path.mp3", "ab/../../x.mp3"} {
		_, err := store.Open(ref)
		assert.ErrorIs(t, err, storage.ErrInvalidRef, ref)
		assert.ErrorIs(t, store.Delete(ref), storage.ErrInvalidRef, ref)
	}
}
