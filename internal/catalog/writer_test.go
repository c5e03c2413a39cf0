package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/hbomb79/Cadence/internal/storage"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/hbomb79/Cadence/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newWriter(t *testing.T) (*catalog.Writer, *storage.LocalStore, *task.Task) {
	db := helpers.RequireDatabase(t)
	payload := storage.NewLocalStore(storage.Config{RootPath: t.TempDir()})

	owner, err := (&task.Store{}).Create(ctx, db, task.CreateRequest{URL: "https://youtu.be/abc", OutputFormat: task.MP3})
	require.NoError(t, err)

	return catalog.NewWriter(db, payload), payload, owner
}

func TestUpsertArtist_SameNameSameIdentity(t *testing.T) {
	writer, _, _ := newWriter(t)

	first, err := writer.UpsertArtist(ctx, "X")
	require.NoError(t, err)
	second, err := writer.UpsertArtist(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	lower, err := writer.UpsertArtist(ctx, "x")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lower.ID, "artist names are case-sensitive")

	_, err = writer.UpsertArtist(ctx, "  ")
	assert.ErrorIs(t, err, catalog.ErrEmptyArtist)
}

func TestCreateEntry(t *testing.T) {
	writer, payload, owner := newWriter(t)
	artist, err := writer.UpsertArtist(ctx, "Rick Astley")
	require.NoError(t, err)

	local := helpers.TempFileWithContent(t, owner.ID.String()+".mp3", []byte("mp3 payload"))

	existing, err := writer.FindEntryByTask(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, existing)

	track, err := writer.CreateEntry(ctx, catalog.EntryFields{
		Title:           "Never Gonna Give You Up",
		ArtistID:        artist.ID,
		Format:          "mp3",
		DurationSeconds: 212,
		BitrateKbps:     320,
		SourceURL:       owner.URL,
		TaskID:          &owner.ID,
	}, local)
	require.NoError(t, err)
	assert.NotEmpty(t, track.StorageRef)
	assert.EqualValues(t, len("mp3 payload"), track.FileSize)
	assert.FileExists(t, payload.Path(track.StorageRef))
	assert.FileExists(t, local, "the local file is owned by the caller")

	fetched, err := writer.GetTrack(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rick Astley", fetched.ArtistName)
	assert.Equal(t, 212, fetched.DurationSeconds)
	assert.Nil(t, fetched.Album)

	byTask, err := writer.FindEntryByTask(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, byTask)
	assert.Equal(t, track.ID, byTask.ID)

	// A second entry is always created, even for identical fields
	again, err := writer.CreateEntry(ctx, catalog.EntryFields{Title: "Never Gonna Give You Up", ArtistID: artist.ID, Format: "mp3"}, local)
	require.NoError(t, err)
	assert.NotEqual(t, track.ID, again.ID)
	assert.NotEqual(t, track.StorageRef, again.StorageRef)

	_, err = writer.GetTrack(ctx, uuid.New())
	assert.ErrorIs(t, err, catalog.ErrTrackNotFound)
}

func TestCreateEntry_FailedInsertRemovesPayload(t *testing.T) {
	writer, payload, _ := newWriter(t)
	local := helpers.TempFileWithContent(t, "song.flac", []byte("flac payload"))

	_, err := writer.CreateEntry(ctx, catalog.EntryFields{Title: "Orphan", ArtistID: uuid.New(), Format: "flac"}, local)
	require.Error(t, err)

	var stored []string
	require.NoError(t, filepath.Walk(payload.Path(""), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			stored = append(stored, path)
		}
		return err
	}))
	assert.Empty(t, stored)
}

func TestCreateEntry_MissingLocalFile(t *testing.T) {
	writer, _, _ := newWriter(t)
	artist, err := writer.UpsertArtist(ctx, "Someone")
	require.NoError(t, err)

	_, err = writer.CreateEntry(ctx, catalog.EntryFields{Title: "Gone", ArtistID: artist.ID, Format: "mp3"}, filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}
