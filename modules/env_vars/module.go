package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the env_vars runner.
type Input struct {
	// Names restricts the result to the listed variables. Empty means all.
	Names []string `hcl:"names,optional"`
}

// OnRunEnvVars is the handler for the 'env_vars' runner.
func OnRunEnvVars(ctx context.Context, input *Input) (any, error) {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}

	if len(input.Names) == 0 {
		return envMap, nil
	}

	filtered := make(map[string]string, len(input.Names))
	for _, name := range input.Names {
		if value, ok := envMap[name]; ok {
			filtered[name] = value
		}
	}
	return filtered, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("env_vars", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunEnvVars,
	})
}
