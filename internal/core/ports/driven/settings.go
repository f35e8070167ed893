package driven

import "github.com/custodia-labs/odiscan/internal/core/domain"

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load returns the effective settings: defaults, then the file, then
	// environment overrides. The result is validated.
	Load() (domain.Settings, error)

	// Save writes settings to the configuration file.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}

// LexiconStore loads the keyword configuration.
type LexiconStore interface {
	// Load returns a validated lexicon. Lists missing from the
	// configuration keep their built-in defaults.
	Load() (*domain.Lexicon, error)
}
