package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Dir fetches sources from a file tree. Sources are slash-separated paths
// relative to the root; a leading slash is ignored.
type Dir struct {
	FS       fs.FS
	MaxBytes int64 // 0 means no limit
}

// NewDir creates a Dir rooted at a directory on disk.
func NewDir(root string, maxBytes int64) *Dir {
	return &Dir{FS: os.DirFS(root), MaxBytes: maxBytes}
}

// Fetch implements Fetcher. Paths that escape the root are rejected.
func (d *Dir) Fetch(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Source: source, Err: err}
	}

	name := strings.TrimPrefix(source, "/")
	if !fs.ValidPath(name) {
		return "", &Error{Source: source, Err: fs.ErrInvalid}
	}

	f, err := d.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Source: source, Status: http.StatusNotFound}
		}
		return "", &Error{Source: source, Err: err}
	}
	defer f.Close()

	return readLimited(source, f, d.MaxBytes)
}
