package mcp

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing classifier returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: &mockPipeline{}}, "test")
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingClassifier)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Classifier: &mockClassifier{},
			Pipeline:   &mockPipeline{},
		}, "test")
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingClassifier)
	})

	t.Run("missing pipeline", func(t *testing.T) {
		ports := &Ports{Classifier: &mockClassifier{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingPipeline)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{Classifier: &mockClassifier{}, Pipeline: &mockPipeline{}}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_InstructionsSentOnInitialize(t *testing.T) {
	server := newTestServer(t, &mockClassifier{}, &mockPipeline{})
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	result := cs.InitializeResult()
	require.NotNil(t, result)
	assert.Equal(t, "odiscan", result.ServerInfo.Name)
	assert.Contains(t, result.Instructions, "classify_document")
	assert.Contains(t, result.Instructions, "odiscan://schema")
}

func TestServer_Handler_Health(t *testing.T) {
	server := newTestServer(t, &mockClassifier{}, &mockPipeline{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestServer_Handler_UnknownPath(t *testing.T) {
	server := newTestServer(t, &mockClassifier{}, &mockPipeline{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Serve(t *testing.T) {
	server := newTestServer(t, &mockClassifier{}, &mockPipeline{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + HealthPath)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: base + MCPPath, MaxRetries: -1}, nil)
	require.NoError(t, err)
	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"classify_document", "extract_document"}, names)
	require.NoError(t, cs.Close())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServer_RunHTTP_BadAddress(t *testing.T) {
	server := newTestServer(t, &mockClassifier{}, &mockPipeline{})

	err := server.RunHTTP(context.Background(), "not-an-address")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on not-an-address")
}
