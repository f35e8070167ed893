package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anthropicllm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/odiscan/internal/core/domain"
)

func TestCreateCompletionClient(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "disabled returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama},
			wantNil:  true,
		},
		{
			name:     "openai without key returns nil",
			settings: &domain.LLMSettings{Enabled: true, Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name: "openai provider creates client",
			settings: &domain.LLMSettings{
				Enabled:  true,
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "glm-4",
			},
		},
		{
			name: "anthropic provider creates client",
			settings: &domain.LLMSettings{
				Enabled:  true,
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
		},
		{
			name:     "ollama provider creates client",
			settings: &domain.LLMSettings{Enabled: true, Provider: domain.AIProviderOllama},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := CreateCompletionClient(context.Background(), tt.settings)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, client)
				return
			}
			require.NotNil(t, client)
			assert.NoError(t, client.Close())
		})
	}
}

func TestCreateCompletionClient_ProviderDefaults(t *testing.T) {
	settings := domain.DefaultSettings().LLM

	settings.Provider = domain.AIProviderOllama
	client, err := CreateCompletionClient(context.Background(), &settings)
	require.NoError(t, err)
	assert.Equal(t, ollamallm.DefaultModel, client.ModelName())

	settings.Provider = domain.AIProviderAnthropic
	settings.APIKey = "k"
	client, err = CreateCompletionClient(context.Background(), &settings)
	require.NoError(t, err)
	assert.Equal(t, anthropicllm.DefaultModel, client.ModelName())

	settings.Provider = domain.AIProviderOpenAI
	client, err = CreateCompletionClient(context.Background(), &settings)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLLMModel, client.ModelName())
}

func TestCreateAndValidateCompletionClient(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := CreateAndValidateCompletionClient(context.Background(), &domain.LLMSettings{
			Enabled:  true,
			Provider: domain.AIProviderOpenAI,
			APIKey:   "k",
			BaseURL:  server.URL,
		})

		require.NoError(t, err)
		require.NotNil(t, client)
		assert.Equal(t, openaillm.DefaultModel, client.ModelName())
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := CreateAndValidateCompletionClient(context.Background(), &domain.LLMSettings{
			Enabled:  true,
			Provider: domain.AIProviderOpenAI,
			APIKey:   "bad",
			BaseURL:  server.URL,
		})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("not configured", func(t *testing.T) {
		client, err := CreateAndValidateCompletionClient(context.Background(), &domain.LLMSettings{})

		assert.NoError(t, err)
		assert.Nil(t, client)
	})
}
