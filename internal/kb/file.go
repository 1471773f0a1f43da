package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileRepository persists the knowledge base as a single JSON file.
//
// Save writes the new collection to a temporary file in the same directory
// and renames it over the target, so the previous base survives any crash
// before the rename. The rename is atomic on POSIX filesystems as long as
// the temporary file is on the same volume, which same-directory placement
// guarantees.
type FileRepository struct {
	path string
}

// NewFileRepository returns a repository backed by the JSON file at path.
// The file does not need to exist yet.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads all samples from the file. A missing file is an empty base.
func (r *FileRepository) Load() ([]Sample, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Sample{}, nil
		}
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	return samples, nil
}

// Save atomically replaces the file contents with the given collection.
func (r *FileRepository) Save(samples []Sample) error {
	if samples == nil {
		samples = []Sample{}
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge base: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create knowledge base directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp opens the file 0600; the base is plain shared data and
	// keeps regular file permissions after the rename.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set knowledge base permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write knowledge base: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace knowledge base: %w", err)
	}
	return nil
}
