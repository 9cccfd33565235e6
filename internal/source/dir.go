package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir reads files from a local directory.
type Dir struct {
	root string
}

// NewDir returns a Source rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) String() string {
	return "dir:" + d.root
}

// Open opens root/name. Names escaping the root are rejected.
func (d *Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid source name %q", name)
	}

	f, err := os.Open(filepath.Join(d.root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}
