package jsonquery

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the jsonquery runner.
type Input struct {
	// JSON is the document to query, typically the body of an earlier
	// http_request step.
	JSON string `hcl:"json"`
	// Path is a gjson path expression, e.g. "items.#.name".
	Path string `hcl:"path"`
	// Required makes a missing path an error instead of a null result.
	Required bool `hcl:"required,optional"`
}

// OnRunJsonQuery is the handler for the 'jsonquery' runner.
func OnRunJsonQuery(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("runner", "jsonquery", "path", input.Path)

	if !gjson.Valid(input.JSON) {
		return nil, fmt.Errorf("document is not valid JSON")
	}

	result := gjson.Get(input.JSON, input.Path)
	if !result.Exists() {
		if input.Required {
			return nil, fmt.Errorf("path %q not found in document", input.Path)
		}
		logger.Debug("Path not found, returning null.")
		return nil, nil
	}

	logger.Debug("Query matched.", "type", result.Type.String())
	return result.Value(), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("jsonquery", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunJsonQuery,
	})
}
