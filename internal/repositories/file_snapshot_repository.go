package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSnapshotRepository keeps one pretty-printed JSON array per collection in a directory.
type FileSnapshotRepository struct {
	dir string
}

// NewFileSnapshotRepository creates a FileSnapshotRepository rooted at dir.
// The directory is created lazily on the first save.
func NewFileSnapshotRepository(dir string) *FileSnapshotRepository {
	return &FileSnapshotRepository{dir: dir}
}

func (r *FileSnapshotRepository) path(name string) string {
	return filepath.Join(r.dir, name+".json")
}

// LoadCollection reads <dir>/<name>.json into dst
func (r *FileSnapshotRepository) LoadCollection(ctx context.Context, name string, dst any) error {
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCollectionNotFound
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// SaveCollection rewrites <dir>/<name>.json. The write goes through a temp file
// and a rename so a reader never sees a half-written array.
func (r *FileSnapshotRepository) SaveCollection(ctx context.Context, name string, src any) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(r.dir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path(name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ SnapshotRepository = (*FileSnapshotRepository)(nil)
