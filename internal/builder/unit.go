package builder

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/workflow"
)

// runnerUnit binds a configured step to its registered handler. Argument
// expressions are kept unevaluated until Execute, when the snapshot's
// results are available.
type runnerUnit struct {
	cfg     *config.Step
	handler *registry.RegisteredRunner
	conv    config.Converter
}

func newRunnerUnit(cfg *config.Step, handler *registry.RegisteredRunner, conv config.Converter) *runnerUnit {
	return &runnerUnit{cfg: cfg, handler: handler, conv: conv}
}

// Execute evaluates the step's arguments against the snapshot and invokes
// the handler.
func (u *runnerUnit) Execute(ctx context.Context, snap *workflow.Snapshot) (any, error) {
	logger := ctxlog.FromContext(ctx)

	evalCtx, err := u.buildEvalContext(snap)
	if err != nil {
		return nil, fmt.Errorf("building evaluation scope: %w", err)
	}

	var input any
	if u.handler.NewInput != nil {
		input = u.handler.NewInput()
		if err := u.conv.DecodeArguments(ctx, input, u.cfg.Arguments, evalCtx); err != nil {
			return nil, fmt.Errorf("decoding arguments: %w", err)
		}
	}

	logger.Debug("Invoking runner handler.", "runner", u.cfg.RunnerType)
	return u.invoke(ctx, input)
}

// invoke calls the handler function via reflection. The registry validated
// its shape at startup, so the call itself cannot mismatch.
func (u *runnerUnit) invoke(ctx context.Context, input any) (any, error) {
	fnVal := reflect.ValueOf(u.handler.Fn)
	fnType := fnVal.Type()

	inputVal := reflect.ValueOf(input)
	if input == nil {
		inputVal = reflect.Zero(fnType.In(1))
	}

	out := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), inputVal})

	var err error
	if !out[1].IsNil() {
		err = out[1].Interface().(error)
	}
	value := out[0].Interface()
	return value, err
}

// buildEvalContext exposes two variables to argument expressions: `input`,
// the run's initial payload, and `result`, a nested object keyed by node
// name. A qualified name like "research.hn" becomes result.research.hn.
func (u *runnerUnit) buildEvalContext(snap *workflow.Snapshot) (*hcl.EvalContext, error) {
	inputVal, err := u.conv.ToCtyValue(snap.Input())
	if err != nil {
		return nil, fmt.Errorf("input value: %w", err)
	}

	results, err := u.buildResultTree(snap)
	if err != nil {
		return nil, err
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"input":  inputVal,
			"result": results,
		},
	}, nil
}

func (u *runnerUnit) buildResultTree(snap *workflow.Snapshot) (cty.Value, error) {
	tree := map[string]any{}
	for _, name := range snap.Names() {
		value, ok := snap.Value(name)
		if !ok {
			continue
		}
		insert(tree, strings.Split(name, "."), value)
	}
	return u.conv.ToCtyValue(tree)
}

// insert places value at the path, creating intermediate maps. A leaf that
// is itself a map (a group aggregate) merges with any children already
// placed under the same path.
func insert(tree map[string]any, path []string, value any) {
	if len(path) == 1 {
		if aggregate, ok := value.(map[string]any); ok {
			if existing, ok := tree[path[0]].(map[string]any); ok {
				for k, v := range aggregate {
					if _, taken := existing[k]; !taken {
						existing[k] = v
					}
				}
				return
			}
		}
		tree[path[0]] = value
		return
	}

	child, ok := tree[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		tree[path[0]] = child
	}
	insert(child, path[1:], value)
}
