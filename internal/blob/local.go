package blob

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

// URLPrefix is where the HTTP server mounts the upload directory.
const URLPrefix = "/uploads/"

var _ Store = (*Local)(nil)

// Local writes images to a directory on disk.
type Local struct {
	dir string
}

// NewLocal creates dir if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creating upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Dir is the directory images are written to.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Save(ctx context.Context, u Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + extension(u)
	full := filepath.Join(l.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("blob: creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, u.Body); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("blob: writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("blob: closing %s: %w", name, err)
	}

	return URLPrefix + name, nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, URLPrefix) {
		return fmt.Errorf("blob: %q is not a local upload url", url)
	}
	// Only the base name is trusted; "/uploads/../x" must not escape dir.
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("blob: %q has no file name", url)
	}

	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blob: removing %s: %w", name, err)
	}
	return nil
}
