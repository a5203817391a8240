package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/fsutil"
	"github.com/vk/flowgridgo/internal/schema"
)

// Loader implements config.Loader for HCL plan files.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and translates the
// single plan block into the agnostic model. Node order follows source
// order, which is the plan's execution order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve plan path %q: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no .hcl plan files found in %v", paths)
	}
	logger.Debug("Found plan files to load.", "files", files)

	parser := hclparse.NewParser()
	var plan *config.Plan

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		content, diags := hclFile.Body.Content(schema.PlanFile)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("invalid plan file %s: %w", file, diags)
		}

		for _, block := range content.Blocks {
			if plan != nil {
				return nil, nil, fmt.Errorf("%s: more than one plan block across plan files", file)
			}
			decoded, err := l.decodePlan(block)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
			plan = decoded
		}
	}

	if plan == nil {
		return nil, nil, fmt.Errorf("no plan block found in %v", files)
	}

	logger.Debug("Plan configuration loaded.", "plan", plan.Name, "nodes", len(plan.Nodes))
	return &config.Model{Plan: plan}, NewConverter(), nil
}

func (l *Loader) decodePlan(block *hcl.Block) (*config.Plan, error) {
	name := block.Labels[0]
	nodes, _, err := l.decodeNodes(block.Body, schema.PlanBody)
	if err != nil {
		return nil, fmt.Errorf("plan %q: %w", name, err)
	}
	return &config.Plan{Name: name, Nodes: nodes}, nil
}

// decodeNodes walks a plan or parallel body and returns its nodes in source
// order, plus the body's own timeout attribute when the schema allows one.
func (l *Loader) decodeNodes(body hcl.Body, bodySchema *hcl.BodySchema) ([]*config.Node, string, error) {
	content, diags := body.Content(bodySchema)
	if diags.HasErrors() {
		return nil, "", fmt.Errorf("invalid block contents: %w", diags)
	}

	timeout, err := stringAttribute(content.Attributes, "timeout")
	if err != nil {
		return nil, "", err
	}

	var nodes []*config.Node
	for _, block := range content.Blocks {
		switch block.Type {
		case "step":
			step, err := l.decodeStep(block)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, &config.Node{Step: step})
		case "parallel":
			group, err := l.decodeGroup(block)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, &config.Node{Group: group})
		}
	}
	return nodes, timeout, nil
}

func (l *Loader) decodeStep(block *hcl.Block) (*config.Step, error) {
	step := &config.Step{
		RunnerType: block.Labels[0],
		Name:       block.Labels[1],
	}

	content, diags := block.Body.Content(schema.StepBody)
	if diags.HasErrors() {
		return nil, fmt.Errorf("step %q: %w", step.Name, diags)
	}

	timeout, err := stringAttribute(content.Attributes, "timeout")
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", step.Name, err)
	}
	step.Timeout = timeout

	for _, inner := range content.Blocks {
		if inner.Type == "arguments" {
			step.Arguments = extractBodyAttributes(inner.Body)
		}
	}
	return step, nil
}

func (l *Loader) decodeGroup(block *hcl.Block) (*config.Group, error) {
	name := block.Labels[0]
	nodes, timeout, err := l.decodeNodes(block.Body, schema.GroupBody)
	if err != nil {
		return nil, fmt.Errorf("parallel %q: %w", name, err)
	}
	return &config.Group{Name: name, Timeout: timeout, Nodes: nodes}, nil
}

// stringAttribute evaluates an optional constant string attribute.
func stringAttribute(attrs hcl.Attributes, name string) (string, error) {
	attr, ok := attrs[name]
	if !ok {
		return "", nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid %s attribute: %w", name, diags)
	}
	if val.Type() != cty.String {
		return "", fmt.Errorf("%s attribute must be a string, got %s", name, val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

// extractBodyAttributes lifts an arguments block into a map of unevaluated
// expressions keyed by argument name.
func extractBodyAttributes(body hcl.Body) map[string]hcl.Expression {
	if body == nil {
		return nil
	}
	attrs, _ := body.JustAttributes()
	if len(attrs) == 0 {
		return nil
	}
	exprMap := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap
}
