package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"radiostore/internal/domain"
)

// FileRepository implements domain.PreferencesRepository using a YAML file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based preferences repository.
func NewFileRepository(path string) (domain.PreferencesRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// persistedData represents the YAML structure on disk.
type persistedData struct {
	Board    string `yaml:"board"`
	Firmware string `yaml:"firmware"`
}

// Load reads the preferences from disk, returning defaults when the file is absent.
func (f *FileRepository) Load() (domain.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultPreferences(), nil
		}
		return domain.Preferences{}, fmt.Errorf("read config: %w", err)
	}

	var persisted persistedData
	if err := yaml.Unmarshal(data, &persisted); err != nil {
		return domain.Preferences{}, fmt.Errorf("unmarshal config %s: %w", f.path, err)
	}

	// Apply defaults if necessary
	prefs := domain.DefaultPreferences()
	if persisted.Board != "" {
		prefs.Board = domain.BoardType(persisted.Board)
	}
	if persisted.Firmware != "" {
		prefs.Firmware = domain.Firmware(persisted.Firmware)
	}

	return prefs, nil
}

// Save persists the preferences to disk.
func (f *FileRepository) Save(prefs domain.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(persistedData{
		Board:    string(prefs.Board),
		Firmware: string(prefs.Firmware),
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "radiostore", "config.yaml")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "radiostore-config.yaml")
}
