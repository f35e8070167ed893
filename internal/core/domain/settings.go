package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a text-completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible chat completions API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderVertex is Google Vertex AI (Gemini models).
	AIProviderVertex AIProvider = "vertex"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderVertex:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// Vertex authenticates through application default credentials.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this is a local provider.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible API"
	case AIProviderAnthropic:
		return "Anthropic"
	case AIProviderVertex:
		return "Google Vertex AI"
	default:
		return unknownDescription
	}
}

// CacheBackend selects where model responses are cached.
type CacheBackend string

// Available cache backends.
const (
	CacheBackendFile   CacheBackend = "file"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendMemory CacheBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendMemory:
		return true
	default:
		return false
	}
}

// OutputFormat selects the export file format.
type OutputFormat string

// Available output formats.
const (
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is recognised.
func (f OutputFormat) IsValid() bool {
	return f == OutputFormatCSV || f == OutputFormatJSON
}

// LLMSettings configures the completion service and the model adapter.
type LLMSettings struct {
	// Enabled turns the model path on. When false, extraction is rule-only.
	Enabled bool

	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Project and Region are used by the Vertex provider only.
	Project string
	Region  string

	MaxTokens   int
	Temperature float64

	// Timeout bounds a single outbound call.
	Timeout time.Duration

	// MaxRetries is the total number of attempts per prompt.
	MaxRetries int

	// RetryDelay is the backoff base; attempt n waits RetryDelay*n.
	RetryDelay time.Duration

	// RequestsPerSecond limits outbound calls.
	RequestsPerSecond float64
}

// IsConfigured returns true if the model path is enabled and the provider
// has the credentials it needs.
func (s LLMSettings) IsConfigured() bool {
	if !s.Enabled || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	if s.Provider == AIProviderVertex && s.Project == "" {
		return false
	}
	return true
}

// CacheSettings configures the response cache.
type CacheSettings struct {
	Enabled bool
	Backend CacheBackend
	Dir     string
}

// ExtractionSettings configures the hybrid extractor.
type ExtractionSettings struct {
	// RuleFallback fills blank model fields from the rule record.
	RuleFallback bool

	// MaxTextChars bounds the document prefix embedded in prompts.
	MaxTextChars int
}

// OutputSettings configures the export sink.
type OutputSettings struct {
	Dir         string
	Format      OutputFormat
	MetricsFile string
}

// Settings is the complete application configuration.
type Settings struct {
	LLM         LLMSettings
	Cache       CacheSettings
	Extraction  ExtractionSettings
	Output      OutputSettings
	LexiconFile string
}

// Default model settings. The OpenAI-compatible provider points at the
// Zhipu GLM endpoint out of the box.
const (
	DefaultLLMBaseURL        = "https://open.bigmodel.cn/api/paas/v4"
	DefaultLLMModel          = "glm-4"
	DefaultMaxTokens         = 4096
	DefaultTemperature       = 0.1
	DefaultTimeout           = 120 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 2 * time.Second
	DefaultRequestsPerSecond = 1.0
	DefaultMaxTextChars      = 8000
)

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			Enabled:           true,
			Provider:          AIProviderOpenAI,
			Model:             DefaultLLMModel,
			BaseURL:           DefaultLLMBaseURL,
			MaxTokens:         DefaultMaxTokens,
			Temperature:       DefaultTemperature,
			Timeout:           DefaultTimeout,
			MaxRetries:        DefaultMaxRetries,
			RetryDelay:        DefaultRetryDelay,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Cache: CacheSettings{
			Enabled: true,
			Backend: CacheBackendFile,
		},
		Extraction: ExtractionSettings{
			RuleFallback: true,
			MaxTextChars: DefaultMaxTextChars,
		},
		Output: OutputSettings{
			Dir:    "output",
			Format: OutputFormatCSV,
		},
	}
}

// Validate checks the settings for values that cannot work.
func (s Settings) Validate() error {
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm.provider %q", ErrUnsupportedType, s.LLM.Provider)
	}
	if s.LLM.MaxRetries < 1 {
		return fmt.Errorf("%w: llm.max_retries must be at least 1", ErrInvalidInput)
	}
	if s.LLM.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: llm.requests_per_second must be positive", ErrInvalidInput)
	}
	if s.LLM.RetryDelay < 0 || s.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm durations must not be negative", ErrInvalidInput)
	}
	if s.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: llm.max_tokens must not be negative", ErrInvalidInput)
	}
	if !s.Cache.Backend.IsValid() {
		return fmt.Errorf("%w: cache.backend %q", ErrUnsupportedType, s.Cache.Backend)
	}
	if !s.Output.Format.IsValid() {
		return fmt.Errorf("%w: output.format %q", ErrUnsupportedType, s.Output.Format)
	}
	if s.Extraction.MaxTextChars <= 0 {
		return fmt.Errorf("%w: extraction.max_text_chars must be positive", ErrInvalidInput)
	}
	return nil
}
