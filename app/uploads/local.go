// Package uploads stores tea pictures, either on local disk or in a Google
// Cloud Storage bucket.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Dir is where pictures live, relative to the storage root. Stored paths
// start with it, e.g. /images/uploads/<file>.
const Dir = "images/uploads"

// ErrInvalidPath is returned when a path does not point inside Dir.
var ErrInvalidPath = errors.New("invalid upload path")

// LocalStore keeps pictures on disk under root. Root is also what the HTTP
// server exposes as static files, so stored paths double as URLs.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(Dir)), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root is the directory served as static files.
func (s *LocalStore) Root() string {
	return s.root
}

// Save writes content to a new uniquely named file and returns its path
// relative to the root.
func (s *LocalStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	stored := "/" + path.Join(Dir, storedName(filename))
	full := filepath.Join(s.root, filepath.FromSlash(stored))

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", err
	}
	return stored, nil
}

// Delete removes a stored picture. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, stored string) error {
	rel, err := relPath(stored)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// relPath validates a stored path and returns it without the leading slash.
func relPath(stored string) (string, error) {
	clean := path.Clean("/" + stored)
	if !strings.HasPrefix(clean, "/"+Dir+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, stored)
	}
	return strings.TrimPrefix(clean, "/"), nil
}

// storedName derives a collision free file name that keeps the extension
// of the uploaded file.
func storedName(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filepath.ToSlash(filename))), ".")
	if ext == "" || strings.ContainsFunc(ext, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}
