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
)

// URLPrefix is the public route under which LocalStore files are served.
const URLPrefix = "/uploads/"

// LocalStore writes photos below a directory on disk. References look like
// /uploads/<prefix>/<uuid><ext>.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir is the root served at URLPrefix.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, prefix string, u Upload) (string, error) {
	ext, err := extension(u.Filename)
	if err != nil {
		return "", err
	}
	data, err := readLimited(u, s.maxBytes)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, prefix)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body(data)); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}
	return URLPrefix + path.Join(prefix, name), nil
}

// Delete removes the file behind ref. Unknown or foreign refs are ignored.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, URLPrefix)
	if !ok {
		return nil
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete photo %s: %w", ref, err)
	}
	return nil
}
