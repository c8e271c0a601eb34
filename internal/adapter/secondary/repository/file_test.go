package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiostore/internal/domain"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "config.yaml"))
	require.NoError(t, err)

	prefs, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	want := domain.Preferences{Board: domain.BoardX9D, Firmware: domain.FirmwareOpenTX23}
	require.NoError(t, repo.Save(want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "board: x9d")

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: x7\n"), 0o644))

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	prefs, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.BoardX7, prefs.Board)
	assert.Equal(t, domain.DefaultPreferences().Firmware, prefs.Firmware)
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: [x7\n"), 0o644))

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	_, err = repo.Load()
	assert.ErrorContains(t, err, "unmarshal config")
}

func TestNewFileRepositoryRequiresPath(t *testing.T) {
	_, err := NewFileRepository("")
	assert.Error(t, err)
}
