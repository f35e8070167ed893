// Package llm holds helpers shared by the completion client adapters.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept in the message.
const maxErrorBody = 300

// StatusError converts a non-2xx response into an error wrapping
// domain.ErrRateLimited, domain.ErrTimeout or domain.ErrTransport.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(msg) > maxErrorBody {
		msg = string([]rune(msg)[:maxErrorBody]) + "..."
	}

	var kind error
	switch status {
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.ErrTimeout
	default:
		kind = domain.ErrTransport
	}
	return fmt.Errorf("%s error (status %d): %w: %s", provider, status, kind, msg)
}

// TransportError converts an HTTP client failure into a completion error.
// Cancellation by the caller is not retryable and is returned unclassified.
func TransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: send request: %w", provider, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: send request: %w: %w", provider, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: send request: %w: %w", provider, domain.ErrTransport, err)
}
