// Package schema declares the HCL block shapes of plan files. The loader
// walks block bodies with these schemas so that step and parallel blocks
// keep their interleaved source order, which is the plan's execution order.
package schema

import "github.com/hashicorp/hcl/v2"

// PlanFile matches the top level of a plan file: exactly one plan block.
var PlanFile = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "plan", LabelNames: []string{"name"}},
	},
}

// PlanBody matches the contents of a `plan` block: an ordered mix of step
// and parallel blocks.
var PlanBody = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "step", LabelNames: []string{"runner_type", "instance_name"}},
		{Type: "parallel", LabelNames: []string{"name"}},
	},
}

// GroupBody matches the contents of a `parallel` block: an optional timeout
// plus the same ordered node mix as the plan body.
var GroupBody = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "timeout"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "step", LabelNames: []string{"runner_type", "instance_name"}},
		{Type: "parallel", LabelNames: []string{"name"}},
	},
}

// StepBody matches the contents of a `step` block.
var StepBody = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "timeout"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arguments"},
	},
}
