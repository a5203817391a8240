package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared by all http_request executions to reuse TCP connections.
var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Input defines the arguments for the http_request runner.
type Input struct {
	URL     string            `hcl:"url"`
	Method  string            `hcl:"method,optional"`
	Body    string            `hcl:"body,optional"`
	Headers map[string]string `hcl:"headers,optional"`
}

// OnRunHttpRequest is the handler for the 'http_request' runner. The step's
// context bounds the whole request, so timeouts cancel it mid-flight.
func OnRunHttpRequest(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("runner", "http_request")

	method := input.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if input.Body != "" {
		body = strings.NewReader(input.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range input.Headers {
		req.Header.Set(key, value)
	}

	logger.Info("Making HTTP request", "method", method, "url", input.URL)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        string(bodyBytes),
	}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("http_request", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunHttpRequest,
	})
}
