package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// Writer writes the dataset document to a JSON file.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Load serializes datasets and replaces the output file. The document is
// written to a temporary file in the same directory and renamed into place so
// readers never see a partial file.
func (w *Writer) Load(ctx context.Context, datasets []*domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if datasets == nil {
		datasets = []*domain.Dataset{}
	}
	data, err := json.Marshal(datasets)
	if err != nil {
		return fmt.Errorf("serialize datasets: %w", err)
	}

	if err := writeAtomic(w.path, data); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}

	w.logger.Info("dataset document written", "path", w.path, "datasets", len(datasets), "bytes", len(data))
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck // write error takes precedence
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	return nil
}
