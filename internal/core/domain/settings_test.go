package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider AIProvider
		valid    bool
		needsKey bool
		local    bool
	}{
		{AIProviderOpenAI, true, true, false},
		{AIProviderAnthropic, true, true, false},
		{AIProviderOllama, true, false, true},
		{AIProviderVertex, true, false, false},
		{AIProvider("bogus"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.local, tt.provider.IsLocal())
			if tt.valid {
				assert.NotEqual(t, unknownDescription, tt.provider.Description())
			} else {
				assert.Equal(t, unknownDescription, tt.provider.Description())
			}
		})
	}
}

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, AIProviderOpenAI, s.LLM.Provider)
	assert.Equal(t, DefaultMaxTextChars, s.Extraction.MaxTextChars)
	assert.True(t, s.Extraction.RuleFallback)
	assert.True(t, s.Cache.Enabled)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		target error
	}{
		{"provider", func(s *Settings) { s.LLM.Provider = "x" }, ErrUnsupportedType},
		{"retries", func(s *Settings) { s.LLM.MaxRetries = 0 }, ErrInvalidInput},
		{"rate", func(s *Settings) { s.LLM.RequestsPerSecond = 0 }, ErrInvalidInput},
		{"delay", func(s *Settings) { s.LLM.RetryDelay = -1 }, ErrInvalidInput},
		{"backend", func(s *Settings) { s.Cache.Backend = "redis" }, ErrUnsupportedType},
		{"format", func(s *Settings) { s.Output.Format = "xlsx" }, ErrUnsupportedType},
		{"text chars", func(s *Settings) { s.Extraction.MaxTextChars = 0 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		want     bool
	}{
		{"disabled", LLMSettings{Provider: AIProviderOllama}, false},
		{"ollama without key", LLMSettings{Enabled: true, Provider: AIProviderOllama}, true},
		{"openai without key", LLMSettings{Enabled: true, Provider: AIProviderOpenAI}, false},
		{"openai with key", LLMSettings{Enabled: true, Provider: AIProviderOpenAI, APIKey: "k"}, true},
		{"anthropic without key", LLMSettings{Enabled: true, Provider: AIProviderAnthropic}, false},
		{"vertex without project", LLMSettings{Enabled: true, Provider: AIProviderVertex}, false},
		{"vertex with project", LLMSettings{Enabled: true, Provider: AIProviderVertex, Project: "p"}, true},
		{"unknown provider", LLMSettings{Enabled: true, Provider: "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}
