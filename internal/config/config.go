package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of everything loaded from
// configuration: a single plan definition.
type Model struct {
	Plan *Plan
}

// Plan is the declared top-level node sequence, in source order.
type Plan struct {
	Name  string
	Nodes []*Node
}

// Node is the configuration-level tagged union of a step and a parallel
// group. Exactly one field is set.
type Node struct {
	Step  *Step
	Group *Group
}

// Step is the format-agnostic representation of a `step` block. Arguments
// stay as unevaluated expressions; they are bound against the run's results
// when the step executes.
type Step struct {
	RunnerType string
	Name       string
	Timeout    string
	Arguments  map[string]hcl.Expression
}

// Group is the format-agnostic representation of a `parallel` block.
type Group struct {
	Name    string
	Timeout string
	Nodes   []*Node
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads plan configuration from the given paths, translates it
	// into the agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter bridges raw configuration values and the Go types used by
// runner modules.
type Converter interface {
	// DecodeArguments evaluates a step's argument expressions against the
	// eval context and populates the handler's input struct.
	DecodeArguments(
		ctx context.Context,
		inputStruct any,
		args map[string]hcl.Expression,
		evalCtx *hcl.EvalContext,
	) error

	// ToCtyValue converts a native Go value (including map[string]any
	// trees produced by runners) into its cty equivalent for use in
	// argument expressions.
	ToCtyValue(v any) (cty.Value, error)
}
