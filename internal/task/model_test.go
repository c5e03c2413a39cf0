package task_test

import (
	"testing"

	"github.com/hbomb79/Cadence/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	for _, raw := range []string{"mp3", "FLAC", " ogg ", "m4a", "wav"} {
		f, err := task.ParseFormat(raw)
		assert.NoError(t, err, raw)
		assert.Contains(t, task.Formats(), f)
	}

	_, err := task.ParseFormat("aiff")
	assert.ErrorIs(t, err, task.ErrUnknownFormat)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, task.Completed.IsTerminal())
	assert.True(t, task.Failed.IsTerminal())
	assert.False(t, task.Pending.IsTerminal())
	assert.False(t, task.Downloading.IsTerminal())
	assert.False(t, task.Processing.IsTerminal())
}

func TestTask_ErrorLogHelpers(t *testing.T) {
	empty := &task.Task{}
	assert.Empty(t, empty.LastError())
	assert.Empty(t, empty.ErrorEntries())

	single := &task.Task{ErrorLog: "only"}
	assert.Equal(t, "only", single.LastError())

	multi := &task.Task{ErrorLog: "one\ntwo\nthree\n"}
	assert.Equal(t, "three", multi.LastError())
	assert.Equal(t, []string{"one", "two", "three"}, multi.ErrorEntries())
}
