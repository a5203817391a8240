package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/workflow"
)

// Build turns the configuration model into an executable plan. Unknown
// runner types and malformed timeouts are reported here, before anything
// runs.
func Build(ctx context.Context, model *config.Model, reg *registry.Registry, conv config.Converter) (*workflow.Plan, error) {
	if model == nil || model.Plan == nil {
		return nil, fmt.Errorf("configuration contains no plan")
	}

	nodes, err := buildNodes(model.Plan.Nodes, reg, conv)
	if err != nil {
		return nil, fmt.Errorf("plan %q: %w", model.Plan.Name, err)
	}

	plan := workflow.NewPlan(model.Plan.Name, nodes...)
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func buildNodes(configured []*config.Node, reg *registry.Registry, conv config.Converter) ([]workflow.Node, error) {
	nodes := make([]workflow.Node, 0, len(configured))
	for _, node := range configured {
		switch {
		case node.Step != nil:
			step, err := buildStep(node.Step, reg, conv)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, step)
		case node.Group != nil:
			group, err := buildGroup(node.Group, reg, conv)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, group)
		default:
			return nil, fmt.Errorf("configuration node is neither step nor group")
		}
	}
	return nodes, nil
}

func buildStep(cfg *config.Step, reg *registry.Registry, conv config.Converter) (*workflow.Step, error) {
	handler, ok := reg.Handler(cfg.RunnerType)
	if !ok {
		return nil, fmt.Errorf("step %q: unknown runner type %q", cfg.Name, cfg.RunnerType)
	}

	timeout, err := parseTimeout(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", cfg.Name, err)
	}

	return &workflow.Step{
		Name:    cfg.Name,
		Unit:    newRunnerUnit(cfg, handler, conv),
		Timeout: timeout,
	}, nil
}

func buildGroup(cfg *config.Group, reg *registry.Registry, conv config.Converter) (*workflow.Group, error) {
	timeout, err := parseTimeout(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parallel %q: %w", cfg.Name, err)
	}

	members, err := buildNodes(cfg.Nodes, reg, conv)
	if err != nil {
		return nil, fmt.Errorf("parallel %q: %w", cfg.Name, err)
	}

	return &workflow.Group{Name: cfg.Name, Timeout: timeout, Members: members}, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	return d, nil
}
