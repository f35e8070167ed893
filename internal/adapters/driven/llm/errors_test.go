package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusGatewayTimeout, domain.ErrTimeout},
		{http.StatusRequestTimeout, domain.ErrTimeout},
		{http.StatusInternalServerError, domain.ErrTransport},
		{http.StatusUnauthorized, domain.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := StatusError("openai", tt.status, []byte(`{"error":"x"}`))

			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsRetryable(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}
}

func TestStatusError_TruncatesBody(t *testing.T) {
	err := StatusError("openai", http.StatusBadGateway, []byte(strings.Repeat("错", 1000)))

	assert.Less(t, len([]rune(err.Error())), 400)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestTransportError(t *testing.T) {
	assert.ErrorIs(t, TransportError("ollama", context.DeadlineExceeded), domain.ErrTimeout)
	assert.ErrorIs(t, TransportError("ollama", timeoutErr{}), domain.ErrTimeout)
	assert.ErrorIs(t, TransportError("ollama", errors.New("connection refused")), domain.ErrTransport)

	cancelled := TransportError("ollama", context.Canceled)
	assert.ErrorIs(t, cancelled, context.Canceled)
	assert.False(t, domain.IsRetryable(cancelled))
}
