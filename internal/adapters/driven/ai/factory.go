// Package ai provides factory functions for creating completion clients.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/openai"
	vertexllm "github.com/custodia-labs/odiscan/internal/adapters/driven/llm/vertex"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateCompletionClient creates a completion client and
// validates connectivity. Returns nil without error when the model path is
// not configured.
func CreateAndValidateCompletionClient(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionClient, error) {
	client, err := CreateCompletionClient(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'odiscan config show' to check the llm section",
			domain.ErrLLMUnavailable, err)
	}
	if client == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return client, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a client and pinging it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	client, err := CreateCompletionClient(ctx, settings)
	if err != nil {
		return err
	}
	if client == nil {
		return nil
	}
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx)
}

// CreateCompletionClient creates the completion client for the configured
// provider. Returns nil if the model path is disabled or lacks credentials.
func CreateCompletionClient(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionClient, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewClient(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewClient(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: nonDefault(settings.BaseURL, domain.DefaultLLMBaseURL),
			Model:   nonDefault(settings.Model, domain.DefaultLLMModel),
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewClient(ollamallm.Config{
			BaseURL: nonDefault(settings.BaseURL, domain.DefaultLLMBaseURL),
			Model:   nonDefault(settings.Model, domain.DefaultLLMModel),
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderVertex:
		return vertexllm.NewClient(ctx, vertexllm.Config{
			Project: settings.Project,
			Region:  settings.Region,
			Model:   nonDefault(settings.Model, domain.DefaultLLMModel),
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// nonDefault drops values inherited from the OpenAI-compatible defaults so
// other providers fall back to their own.
func nonDefault(value, openAIDefault string) string {
	if value == openAIDefault {
		return ""
	}
	return value
}
