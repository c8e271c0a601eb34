package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"radiostore/internal/domain"
	"radiostore/internal/logging"
)

// FileMedium implements domain.StorageMedium on the local filesystem.
// This is a secondary adapter.
type FileMedium struct{}

// NewFileMedium creates a filesystem storage medium.
func NewFileMedium() domain.StorageMedium {
	return &FileMedium{}
}

// ReadAll reads the whole file at path.
func (f *FileMedium) ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logging.Debugf("file %s read, size: %s", path, humanize.Bytes(uint64(len(data))))
	return data, nil
}

// WriteAll replaces the file at path with data.
func (f *FileMedium) WriteAll(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	// Atomic write
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("open %s in write mode: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	logging.Debugf("file %s written, size: %s", path, humanize.Bytes(uint64(len(data))))
	return nil
}
