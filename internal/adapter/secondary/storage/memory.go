package storage

import (
	"fmt"
	"os"
	"sync"
)

// MemoryMedium implements domain.StorageMedium with an in-memory file table.
// Useful for testing and dry runs.
type MemoryMedium struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int
}

// NewMemoryMedium creates an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{files: make(map[string][]byte)}
}

// Put stores data at path without counting as a write.
func (m *MemoryMedium) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
}

// Has reports whether path exists.
func (m *MemoryMedium) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// Writes returns how many WriteAll calls succeeded.
func (m *MemoryMedium) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// ReadAll returns a copy of the bytes stored at path.
func (m *MemoryMedium) ReadAll(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteAll stores a copy of data at path.
func (m *MemoryMedium) WriteAll(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	m.writes++
	return nil
}
