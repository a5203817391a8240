package testutil

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single runner handler.
type SimpleModule struct {
	RunnerName string
	Runner     *registry.RegisteredRunner
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.RunnerName != "" && m.Runner != nil {
		r.RegisterRunner(m.RunnerName, m.Runner)
	}
}

// NoOpModule registers a single "noop" runner that takes no arguments and
// does nothing. It's useful for tests that should fail before execution
// begins but still need valid HCL that can pass registry validation.
type NoOpModule struct{}

// Register registers the "noop" runner.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterRunner("noop", &registry.RegisteredRunner{
		Fn: func(ctx context.Context, input *struct{}) (any, error) {
			return nil, nil
		},
	})
}

// FailingModule registers a "failing" runner whose handler always returns
// the configured error message.
type FailingModule struct {
	Message string
}

// Register registers the "failing" runner.
func (m *FailingModule) Register(r *registry.Registry) {
	message := m.Message
	if message == "" {
		message = "intentional failure"
	}
	r.RegisterRunner("failing", &registry.RegisteredRunner{
		Fn: func(ctx context.Context, input *struct{}) (any, error) {
			return nil, fmt.Errorf("%s", message)
		},
	})
}
