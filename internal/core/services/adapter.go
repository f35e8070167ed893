package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// ModelCaller returns the raw model response for a prompt. The second
// return value is false when no usable response could be obtained.
type ModelCaller interface {
	Extract(ctx context.Context, prompt, systemPrompt string) (string, bool)
}

// Ensure ModelAdapter implements the interface.
var _ ModelCaller = (*ModelAdapter)(nil)

// ModelAdapter wraps a completion client with rate limiting, a response
// cache and bounded retries.
type ModelAdapter struct {
	client  driven.CompletionClient
	cache   driven.ResponseCache
	limiter *rate.Limiter
	logger  *zap.Logger

	maxRetries  int
	retryDelay  time.Duration
	maxTokens   int
	temperature float64

	// sleep waits between attempts. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewModelAdapter creates an adapter over client. cache may be nil to
// disable caching.
func NewModelAdapter(
	client driven.CompletionClient,
	cache driven.ResponseCache,
	settings domain.LLMSettings,
	logger *zap.Logger,
) *ModelAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := settings.RequestsPerSecond
	if rps <= 0 {
		rps = domain.DefaultRequestsPerSecond
	}
	retries := settings.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &ModelAdapter{
		client:      client,
		cache:       cache,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		logger:      logger,
		maxRetries:  retries,
		retryDelay:  settings.RetryDelay,
		maxTokens:   settings.MaxTokens,
		temperature: settings.Temperature,
		sleep:       sleepContext,
		now:         time.Now,
	}
}

// CacheKey returns the cache key for a prompt.
func CacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Extract returns the model response for prompt, consulting the cache first.
func (a *ModelAdapter) Extract(ctx context.Context, prompt, systemPrompt string) (string, bool) {
	key := CacheKey(prompt)
	if resp, ok := a.cached(ctx, key); ok {
		a.logger.Debug("using cached model response", zap.String("key", key[:12]))
		return resp, true
	}

	req := driven.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		MaxTokens:    a.maxTokens,
		Temperature:  a.temperature,
	}

	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		if err := a.limiter.Wait(ctx); err != nil {
			a.logger.Warn("rate limiter wait aborted", zap.Error(err))
			return "", false
		}

		resp, err := a.client.Complete(ctx, req)
		if err == nil {
			resp = strings.TrimSpace(resp)
			if resp == "" {
				a.logger.Warn("model returned an empty response", zap.String("model", a.client.ModelName()))
				return "", false
			}
			a.store(ctx, key, resp)
			a.logger.Debug("model call succeeded",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", a.maxRetries),
				zap.Int("response_chars", runeLen(resp)),
			)
			return resp, true
		}

		if !domain.IsRetryable(err) || ctx.Err() != nil {
			a.logger.Error("model call failed", zap.Error(err))
			return "", false
		}

		a.logger.Warn("model call failed, will retry",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxRetries),
			zap.Error(err),
		)
		if attempt == a.maxRetries {
			break
		}
		if err := a.sleep(ctx, a.retryDelay*time.Duration(attempt)); err != nil {
			return "", false
		}
	}

	a.logger.Error("model call retries exhausted", zap.Int("attempts", a.maxRetries))
	return "", false
}

func (a *ModelAdapter) cached(ctx context.Context, key string) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	entry, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logger.Warn("read cached response", zap.Error(err))
		}
		return "", false
	}
	if entry.Response == "" {
		return "", false
	}
	return entry.Response, true
}

func (a *ModelAdapter) store(ctx context.Context, key, resp string) {
	if a.cache == nil {
		return
	}
	entry := driven.CachedResponse{Response: resp, Timestamp: a.now()}
	if err := a.cache.Put(ctx, key, entry); err != nil {
		a.logger.Warn("save cached response", zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
