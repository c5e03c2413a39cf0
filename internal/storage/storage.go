package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var (
	log = logger.Get("Storage")

	ErrInvalidRef = errors.New("invalid storage reference")
)

type Config struct {
	RootPath string `yaml:"root" env:"STORAGE_ROOT" env-default:"/var/lib/cadence/library"`
}

// LocalStore persists audio payloads beneath a root directory on the local
// filesystem. Payloads are stored under a UUID based reference of the form
// '<uuid[0:2]>/<uuid><ext>', which spreads files across sub-directories.
type LocalStore struct {
	root string
}

func NewLocalStore(config Config) *LocalStore {
	return &LocalStore{root: config.RootPath}
}

// Save streams the content from the reader in to a new file in the
// store, returning the durable reference for the file and the number of
// bytes written. The extension of the suggested name is preserved. The
// content is written to a temporary '.part' file which is only moved
// in to place once fully written.
func (store *LocalStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, int64, error) {
	id := uuid.NewString()
	ref := path.Join(id[:2], id+strings.ToLower(filepath.Ext(suggestedName)))
	target := store.Path(ref)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create storage directory: %w", err)
	}

	partial := target + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create storage file: %w", err)
	}

	written, copyErr := io.Copy(file, &contextReader{ctx: ctx, r: r})
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(partial)
		return "", 0, fmt.Errorf("failed to write %s to storage: %w", suggestedName, err)
	}

	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return "", 0, fmt.Errorf("failed to commit %s to storage: %w", suggestedName, err)
	}

	log.Emit(logger.DEBUG, "Stored %s as %s (%d bytes)\n", suggestedName, ref, written)
	return ref, written, nil
}

func (store *LocalStore) Open(ref string) (*os.File, error) {
	if !validRef(ref) {
		return nil, ErrInvalidRef
	}

	return os.Open(store.Path(ref))
}

// Delete removes the stored file. Deleting a reference which does
// not exist is not an error.
func (store *LocalStore) Delete(ref string) error {
	if !validRef(ref) {
		return ErrInvalidRef
	}

	if err := os.Remove(store.Path(ref)); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (store *LocalStore) Path(ref string) string {
	return filepath.Join(store.root, filepath.FromSlash(ref))
}

// validRef ensures the reference can not escape the storage root.
func validRef(ref string) bool {
	if ref == "" || path.IsAbs(ref) {
		return false
	}

	clean := path.Clean(ref)
	return clean == ref && !strings.HasPrefix(clean, "..")
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
