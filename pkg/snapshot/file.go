package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vango-dev/reflex/internal/errors"
)

// FileSource reads and writes a snapshot file.
type FileSource struct {
	// Path is the snapshot file. Its extension selects the format.
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and decodes the file. A missing file fails with E302.
func (f *FileSource) Load(_ context.Context) (Snapshot, error) {
	format, err := FormatFromPath(f.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E302").WithDetail(f.Path).Wrap(err)
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", f.Path, err)
	}
	return Decode(format, data)
}

// Save encodes snap and replaces the file. The file is written to a
// temporary name in the same directory and renamed into place.
func (f *FileSource) Save(_ context.Context, snap Snapshot) error {
	format, err := FormatFromPath(f.Path)
	if err != nil {
		return err
	}
	data, err := Encode(format, snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("snapshot: chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("snapshot: rename to %s: %w", f.Path, err)
	}
	return nil
}
