package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sleep runner.
type Input struct {
	Duration string `hcl:"duration"`
}

// OnRunSleep is the handler for the 'sleep' runner. It cooperates with
// cancellation, so step and group timeouts cut it short.
func OnRunSleep(ctx context.Context, input *Input) (any, error) {
	duration, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", input.Duration, err)
	}

	ctxlog.FromContext(ctx).Debug("Sleeping.", "runner", "sleep", "duration", duration)

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return input.Duration, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("sleep", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunSleep,
	})
}
