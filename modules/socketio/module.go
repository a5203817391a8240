package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio runner.
type Input struct {
	URL                string         `hcl:"url"`
	Namespace          string         `hcl:"namespace,optional"`
	OnEvent            string         `hcl:"on_event"`
	EmitEvent          string         `hcl:"emit_event,optional"`
	EmitData           map[string]any `hcl:"emit_data,optional"`
	Timeout            string         `hcl:"timeout,optional"`
	InsecureSkipVerify bool           `hcl:"insecure_skip_verify,optional"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// OnRunSocketIO is the handler for the 'socketio' runner. It connects,
// optionally emits one event, and returns the payload of the first on_event
// message.
func OnRunSocketIO(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("runner", "socketio", "url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	var isConnected atomic.Bool

	timeout := 10 * time.Second
	if input.Timeout != "" {
		parsed, err := time.ParseDuration(input.Timeout)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default 10s", "inputTimeout", input.Timeout, "error", err)
		} else {
			timeout = parsed
		}
	}

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)

	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			jsonData, _ := json.Marshal(input.EmitData)
			logger.Info("Emitting event", "event", input.EmitEvent, "data", string(jsonData))
			io.Emit(input.EmitEvent, input.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		done <- opResult{value: responseData}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("socketio", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunSocketIO,
	})
}
