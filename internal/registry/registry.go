package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vk/flowgridgo/internal/ctxlog"
)

// RegisteredRunner holds the compiled Go parts of a runner.
type RegisteredRunner struct {
	// NewInput allocates a fresh input struct for argument decoding. Nil
	// means the runner takes no arguments.
	NewInput func() any
	// Fn is the handler, of shape
	// func(ctx context.Context, input *T) (any, error).
	Fn any
}

// Module is the interface every runner module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the runner handlers for one application instance.
type Registry struct {
	Handlers map[string]*RegisteredRunner
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{Handlers: make(map[string]*RegisteredRunner)}
}

// RegisterRunner registers a handler under a runner type name. Double
// registration is a programmer error and panics.
func (r *Registry) RegisterRunner(runnerType string, handler *RegisteredRunner) {
	if _, exists := r.Handlers[runnerType]; exists {
		panic(fmt.Sprintf("runner %q already registered", runnerType))
	}
	slog.Debug("Registering runner handler.", "runner", runnerType)
	r.Handlers[runnerType] = handler
}

// Handler looks up the handler for a runner type.
func (r *Registry) Handler(runnerType string) (*RegisteredRunner, bool) {
	h, ok := r.Handlers[runnerType]
	return h, ok
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Validate checks every registered handler's signature so that shape
// mismatches surface at startup rather than when a step runs.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for runnerType, handler := range r.Handlers {
		fnType := reflect.TypeOf(handler.Fn)
		if fnType == nil || fnType.Kind() != reflect.Func {
			return fmt.Errorf("runner %q: handler is not a function", runnerType)
		}
		if fnType.NumIn() != 2 || fnType.NumOut() != 2 {
			return fmt.Errorf("runner %q: handler must be func(ctx, input) (value, error)", runnerType)
		}
		if !fnType.In(0).Implements(ctxType) && fnType.In(0) != ctxType {
			return fmt.Errorf("runner %q: first parameter must be context.Context", runnerType)
		}
		if !fnType.Out(1).Implements(errType) {
			return fmt.Errorf("runner %q: second return value must be error", runnerType)
		}

		if handler.NewInput != nil {
			input := handler.NewInput()
			if got, want := reflect.TypeOf(input), fnType.In(1); got != want {
				return fmt.Errorf("runner %q: NewInput returns %s but handler expects %s",
					runnerType, got, want)
			}
		}
	}

	logger.Debug("Registry validation passed.", "runners", len(r.Handlers))
	return nil
}
