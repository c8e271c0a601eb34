package domain

// StorageMedium is a secondary port for raw byte access to named paths.
// This interface is defined in the domain layer and implemented by adapters.
type StorageMedium interface {
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
}

// CapabilityResolver is a secondary port answering per-board feature questions.
// Implementations must be pure: the same board yields the same answer.
type CapabilityResolver interface {
	Resolve(board Board) (Capabilities, error)
	SupportsCategories(board Board) bool
}

// PreferencesRepository is a secondary port that persists user preferences.
type PreferencesRepository interface {
	Load() (Preferences, error)
	Save(prefs Preferences) error
}
