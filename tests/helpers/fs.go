package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TempDirWithFiles(t *testing.T, files []string) (string, []string) {
	dirPath := t.TempDir()
	filePaths := make([]string, 0, len(files))
	for _, filename := range files {
		file, err := os.CreateTemp(dirPath, "*"+filename)
		assert.Nil(t, err, "failed to create temporary file in temporary dir")
		filePaths = append(filePaths, file.Name())
		_ = file.Close()
	}

	assert.Len(t, filePaths, len(files), "Expected file paths recorded to match length of requested files")
	return dirPath, filePaths
}

// TempFileWithContent writes the content provided to a file with the
// exact name given inside a fresh temporary directory.
func TempFileWithContent(t *testing.T, name string, content []byte) string {
	path := filepath.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(path, content, 0o644), "failed to write temporary file")
	return path
}
