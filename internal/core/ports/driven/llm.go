package driven

import "context"

// CompletionClient sends one prompt to an external text-completion model.
//
// Implementations may include:
//   - OpenAI-compatible APIs (OpenAI, Zhipu GLM, LM Studio)
//   - Anthropic (Claude)
//   - Ollama (local models)
//   - Google Vertex AI (Gemini)
//
// Transport failures must wrap domain.ErrRateLimited, domain.ErrTimeout or
// domain.ErrTransport so callers can tell retryable failures apart. Any other
// error is treated as final.
type CompletionClient interface {
	// Complete returns the model's text response.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	// SystemPrompt sets model behaviour. May be empty.
	SystemPrompt string

	// Prompt is the user message.
	Prompt string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
