package usecase

import (
	"errors"
	"fmt"
	"sync"

	"radiostore/internal/board"
	"radiostore/internal/domain"
	"radiostore/internal/yamlformat"
)

// SessionUseCase is the primary port for working on one radio configuration.
type SessionUseCase interface {
	Load(path string) domain.Outcome
	Write(path string) domain.Outcome
	Snapshot() domain.RadioData
	Reset()
	CurrentBoard() (domain.Board, error)
	SetPreferences(prefs domain.Preferences) error
	SetOverride(override Override)
}

// Override replaces parts of the persisted preferences for this session.
type Override struct {
	Board    domain.BoardType
	Firmware domain.Firmware
}

// sessionInteractor implements SessionUseCase.
// It owns one RadioData and serializes every load and write against it.
type sessionInteractor struct {
	repo   domain.PreferencesRepository
	format *yamlformat.Format

	mu       sync.Mutex
	override Override
	radio    domain.RadioData
}

// NewSessionUseCase creates a session with an empty radio.
// Dependencies are injected (secondary ports).
func NewSessionUseCase(
	repo domain.PreferencesRepository,
	storage domain.StorageMedium,
	resolver domain.CapabilityResolver,
	override Override,
) (SessionUseCase, error) {
	if repo == nil || storage == nil || resolver == nil {
		return nil, errors.New("repository, storage and resolver are required")
	}
	return &sessionInteractor{
		repo:     repo,
		format:   yamlformat.New(storage, resolver),
		override: override,
	}, nil
}

// CurrentBoard resolves the target board from preferences and overrides.
// It is re-read on every call so a changed target is never served stale.
func (s *sessionInteractor) CurrentBoard() (domain.Board, error) {
	prefs, err := s.repo.Load()
	if err != nil {
		return domain.Board{}, err
	}

	s.mu.Lock()
	override := s.override
	s.mu.Unlock()

	if override.Board != "" {
		prefs.Board = override.Board
	}
	if override.Firmware != "" {
		prefs.Firmware = override.Firmware
	}
	return prefs.Identity(), nil
}

// SetOverride replaces the session overrides.
func (s *sessionInteractor) SetOverride(override Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = override
}

// Load imports path into the session radio.
func (s *sessionInteractor) Load(path string) domain.Outcome {
	b, err := s.CurrentBoard()
	if err != nil {
		return domain.Failed(fmt.Errorf("resolve board for %s: %w", path, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format.Load(path, b, &s.radio)
}

// Write stores the session radio at path.
func (s *sessionInteractor) Write(path string) domain.Outcome {
	b, err := s.CurrentBoard()
	if err != nil {
		return domain.Failed(fmt.Errorf("resolve board for %s: %w", path, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format.Write(path, b, &s.radio)
}

// Snapshot returns a deep copy of the session radio.
func (s *sessionInteractor) Snapshot() domain.RadioData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.radio.Clone()
}

// Reset discards the session radio.
func (s *sessionInteractor) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radio = domain.RadioData{}
}

// SetPreferences validates and persists new preferences.
func (s *sessionInteractor) SetPreferences(prefs domain.Preferences) error {
	if err := board.Validate(prefs.Identity()); err != nil {
		return err
	}
	return s.repo.Save(prefs)
}
