package print

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Message string `hcl:"message"`
}

// OnRunPrint is the handler for the 'print' runner. It writes the message to
// stdout and returns it, so later steps can reference the printed value.
func OnRunPrint(ctx context.Context, input *Input) (any, error) {
	ctxlog.FromContext(ctx).Debug("Printing message.", "runner", "print")
	fmt.Println(input.Message)
	return input.Message, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunPrint,
	})
}
