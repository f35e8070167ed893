// Package vertex provides a completion client for Gemini models on Google
// Vertex AI. Authentication uses application default credentials.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/llm"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CompletionClient = (*Client)(nil)

const provider = "vertex"

// Default configuration values.
const (
	DefaultRegion = "us-central1"
	DefaultModel  = "gemini-1.5-pro"
)

// Config holds configuration for the Vertex client.
type Config struct {
	// Project is the Google Cloud project ID (required).
	Project string

	// Region is the Vertex AI region (default: us-central1).
	Region string

	// Model is the Gemini model name (default: gemini-1.5-pro).
	Model string

	// Timeout bounds each call. Zero leaves the caller's deadline alone.
	Timeout time.Duration
}

// Client sends prompts through the Vertex AI genai SDK.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new Vertex client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("vertex: project is required")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, cfg.Project, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("vertex: create client: %w", err)
	}
	return &Client{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Complete sends one prompt and returns the text parts of the first candidate.
func (c *Client) Complete(ctx context.Context, r driven.CompletionRequest) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if r.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(r.SystemPrompt)},
		}
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(r.Temperature)),
	}
	if r.MaxTokens > 0 {
		model.GenerationConfig.MaxOutputTokens = genai.Ptr(int32(r.MaxTokens))
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(r.Prompt))
	if err != nil {
		return "", classify(err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("vertex: no text content returned")
	}
	return text, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// classify maps gRPC status codes onto the completion error sentinels.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTimeout, err)
	}
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrRateLimited, err)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTimeout, err)
	case codes.Unavailable, codes.Internal, codes.Aborted, codes.Unknown:
		return llm.TransportError(provider, err)
	default:
		return fmt.Errorf("%s: %w", provider, err)
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// ModelName returns the name of the model being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping counts the tokens of a short prompt, which checks credentials and
// model access without generating output.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.client.GenerativeModel(c.model).CountTokens(ctx, genai.Text("ping")); err != nil {
		return classify(err)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
