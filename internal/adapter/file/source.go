// Package file reads NOAA source files from disk and writes the assembled
// dataset document.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
)

// SourceDir reads source files relative to a directory.
// It implements pipeline.SourceReader.
type SourceDir struct {
	fsys fs.FS
}

// NewSourceDir reads sources from dir on the local filesystem.
func NewSourceDir(dir string) *SourceDir {
	return NewSourceFS(os.DirFS(dir))
}

// NewSourceFS reads sources from fsys.
func NewSourceFS(fsys fs.FS) *SourceDir {
	return &SourceDir{fsys: fsys}
}

// ReadSource returns the full contents of the named file.
func (s *SourceDir) ReadSource(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", name, err)
	}
	return data, nil
}
