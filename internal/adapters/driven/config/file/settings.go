package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// Environment variables that override file settings.
const (
	EnvConfigDir   = "ODISCAN_CONFIG_DIR"
	EnvLLMProvider = "ODISCAN_LLM_PROVIDER"
	EnvLLMModel    = "ODISCAN_LLM_MODEL"
	EnvLLMBaseURL  = "ODISCAN_LLM_BASE_URL"
	EnvLLMAPIKey   = "ODISCAN_LLM_API_KEY"
	EnvLLMEnabled  = "ODISCAN_LLM_ENABLED"
	EnvCacheDir    = "ODISCAN_CACHE_DIR"
	EnvOutputDir   = "ODISCAN_OUTPUT_DIR"
)

const configFile = "config.toml"

// fileSettings mirrors the TOML layout.
type fileSettings struct {
	LLM        llmSection        `toml:"llm"`
	Cache      cacheSection      `toml:"cache"`
	Extraction extractionSection `toml:"extraction"`
	Output     outputSection     `toml:"output"`
	Lexicon    lexiconSection    `toml:"lexicon"`
}

type llmSection struct {
	Enabled           bool    `toml:"enabled"`
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Project           string  `toml:"project"`
	Region            string  `toml:"region"`
	MaxTokens         int     `toml:"max_tokens"`
	Temperature       float64 `toml:"temperature"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxRetries        int     `toml:"max_retries"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type cacheSection struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

type extractionSection struct {
	RuleFallback bool `toml:"rule_fallback"`
	MaxTextChars int  `toml:"max_text_chars"`
}

type outputSection struct {
	Dir         string `toml:"dir"`
	Format      string `toml:"format"`
	MetricsFile string `toml:"metrics_file"`
}

type lexiconSection struct {
	File string `toml:"file"`
}

// SettingsStore is a TOML-backed implementation of driven.SettingsStore.
type SettingsStore struct {
	configDir string
	filePath  string
}

// NewSettingsStore creates a settings store.
// If configDir is empty, ODISCAN_CONFIG_DIR is used, then ~/.odiscan.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		configDir = os.Getenv(EnvConfigDir)
	}
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".odiscan")
	}

	return &SettingsStore{
		configDir: configDir,
		filePath:  filepath.Join(configDir, configFile),
	}, nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Dir returns the configuration directory.
func (s *SettingsStore) Dir() string {
	return s.configDir
}

// Load returns defaults overlaid with the file and the environment.
// A missing file is not an error.
func (s *SettingsStore) Load() (domain.Settings, error) {
	raw := toFile(s.defaults())

	data, err := os.ReadFile(s.filePath)
	switch {
	case err == nil:
		// Keys absent from the file keep their default values.
		if err := toml.Unmarshal(data, &raw); err != nil {
			return domain.Settings{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return domain.Settings{}, fmt.Errorf("read %s: %w", s.filePath, err)
	}

	settings := fromFile(raw)
	if err := applyEnv(&settings); err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save writes settings to the configuration file with restricted permissions.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Exists reports whether the configuration file is present.
func (s *SettingsStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// defaults returns the built-in settings with paths rooted in the config
// directory.
func (s *SettingsStore) defaults() domain.Settings {
	d := domain.DefaultSettings()
	d.Cache.Dir = filepath.Join(s.configDir, "cache")
	return d
}

func applyEnv(s *domain.Settings) error {
	if v, ok := os.LookupEnv(EnvLLMProvider); ok {
		s.LLM.Provider = domain.AIProvider(v)
	}
	if v, ok := os.LookupEnv(EnvLLMModel); ok {
		s.LLM.Model = v
	}
	if v, ok := os.LookupEnv(EnvLLMBaseURL); ok {
		s.LLM.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvLLMAPIKey); ok {
		s.LLM.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvLLMEnabled); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvLLMEnabled, v)
		}
		s.LLM.Enabled = b
	}
	if v, ok := os.LookupEnv(EnvCacheDir); ok {
		s.Cache.Dir = v
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		s.Output.Dir = v
	}
	return nil
}

func toFile(s domain.Settings) fileSettings {
	return fileSettings{
		LLM: llmSection{
			Enabled:           s.LLM.Enabled,
			Provider:          string(s.LLM.Provider),
			Model:             s.LLM.Model,
			BaseURL:           s.LLM.BaseURL,
			APIKey:            s.LLM.APIKey,
			Project:           s.LLM.Project,
			Region:            s.LLM.Region,
			MaxTokens:         s.LLM.MaxTokens,
			Temperature:       s.LLM.Temperature,
			TimeoutSeconds:    int(s.LLM.Timeout / time.Second),
			MaxRetries:        s.LLM.MaxRetries,
			RetryDelaySeconds: int(s.LLM.RetryDelay / time.Second),
			RequestsPerSecond: s.LLM.RequestsPerSecond,
		},
		Cache: cacheSection{
			Enabled: s.Cache.Enabled,
			Backend: string(s.Cache.Backend),
			Dir:     s.Cache.Dir,
		},
		Extraction: extractionSection{
			RuleFallback: s.Extraction.RuleFallback,
			MaxTextChars: s.Extraction.MaxTextChars,
		},
		Output: outputSection{
			Dir:         s.Output.Dir,
			Format:      string(s.Output.Format),
			MetricsFile: s.Output.MetricsFile,
		},
		Lexicon: lexiconSection{File: s.LexiconFile},
	}
}

func fromFile(f fileSettings) domain.Settings {
	return domain.Settings{
		LLM: domain.LLMSettings{
			Enabled:           f.LLM.Enabled,
			Provider:          domain.AIProvider(f.LLM.Provider),
			Model:             f.LLM.Model,
			BaseURL:           f.LLM.BaseURL,
			APIKey:            f.LLM.APIKey,
			Project:           f.LLM.Project,
			Region:            f.LLM.Region,
			MaxTokens:         f.LLM.MaxTokens,
			Temperature:       f.LLM.Temperature,
			Timeout:           time.Duration(f.LLM.TimeoutSeconds) * time.Second,
			MaxRetries:        f.LLM.MaxRetries,
			RetryDelay:        time.Duration(f.LLM.RetryDelaySeconds) * time.Second,
			RequestsPerSecond: f.LLM.RequestsPerSecond,
		},
		Cache: domain.CacheSettings{
			Enabled: f.Cache.Enabled,
			Backend: domain.CacheBackend(f.Cache.Backend),
			Dir:     f.Cache.Dir,
		},
		Extraction: domain.ExtractionSettings{
			RuleFallback: f.Extraction.RuleFallback,
			MaxTextChars: f.Extraction.MaxTextChars,
		},
		Output: domain.OutputSettings{
			Dir:         f.Output.Dir,
			Format:      domain.OutputFormat(f.Output.Format),
			MetricsFile: f.Output.MetricsFile,
		},
		LexiconFile: f.Lexicon.File,
	}
}
