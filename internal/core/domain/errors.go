package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the completion service is not configured.
	// Extraction degrades to rule-only mode.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Completion Errors.
	//
	// Completion clients wrap transport failures in one of these so the
	// model adapter can decide whether an attempt is worth repeating.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request did not complete within the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrTransport indicates a generic API or connection failure.
	ErrTransport = errors.New("transport error")
)

// IsRetryable reports whether err is a completion failure that may succeed
// on a later attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrTransport)
}
