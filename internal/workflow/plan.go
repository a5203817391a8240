package workflow

import (
	"fmt"
	"strings"
	"time"
)

// Node is a single entry in a plan: either a *Step or a *Group. The
// interface is sealed so the scheduler can switch over the two concrete
// types exhaustively.
type Node interface {
	// NodeName returns the node's declared name, unqualified.
	NodeName() string

	node()
}

// Step names exactly one unit of work. A zero Timeout means the step only
// inherits the scheduler's default per-step bound, if any. Steps are
// immutable once handed to a plan.
type Step struct {
	Name    string
	Unit    Unit
	Timeout time.Duration
}

// NewStep creates a step wrapping the given unit.
func NewStep(name string, unit Unit) *Step {
	return &Step{Name: name, Unit: unit}
}

// NodeName implements Node.
func (s *Step) NodeName() string { return s.Name }

func (*Step) node() {}

// Group names an ordered collection of members that are dispatched
// concurrently and joined at a barrier before the plan advances. Members may
// themselves be groups; their results are keyed hierarchically
// ("group.member"). A zero Timeout inherits the scheduler's default
// per-group bound.
type Group struct {
	Name    string
	Timeout time.Duration
	Members []Node
}

// NewGroup creates a parallel group from the given members, in declaration
// order.
func NewGroup(name string, members ...Node) *Group {
	return &Group{Name: name, Members: members}
}

// NodeName implements Node.
func (g *Group) NodeName() string { return g.Name }

func (*Group) node() {}

// Plan is the ordered top-level sequence of nodes defining a run. Nodes
// execute strictly in declaration order; a node never starts before its
// predecessor is fully terminal.
type Plan struct {
	Name  string
	Nodes []Node
}

// NewPlan creates a plan from the given nodes, in declaration order.
func NewPlan(name string, nodes ...Node) *Plan {
	return &Plan{Name: name, Nodes: nodes}
}

// Validate checks the structural invariants of the plan: at least one node,
// non-empty names without the "." separator, unique names per scope,
// non-nil units, and non-empty groups. Violations are construction-time
// programmer errors, reported before anything executes.
func (p *Plan) Validate() error {
	if p == nil || len(p.Nodes) == 0 {
		return fmt.Errorf("%w: plan has no nodes", ErrInvalidPlan)
	}
	return validateScope("", p.Nodes)
}

func validateScope(scope string, nodes []Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		name := n.NodeName()
		if name == "" {
			return fmt.Errorf("%w: unnamed node in scope %q", ErrInvalidPlan, scopeLabel(scope))
		}
		if strings.Contains(name, ".") {
			return fmt.Errorf("%w: node name %q must not contain '.'", ErrInvalidPlan, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate node name %q in scope %q", ErrInvalidPlan, name, scopeLabel(scope))
		}
		seen[name] = struct{}{}

		switch v := n.(type) {
		case *Step:
			if v.Unit == nil {
				return fmt.Errorf("%w: step %q has no unit", ErrInvalidPlan, QualifyName(scope, name))
			}
		case *Group:
			if len(v.Members) == 0 {
				return fmt.Errorf("%w: group %q has no members", ErrInvalidPlan, QualifyName(scope, name))
			}
			if err := validateScope(QualifyName(scope, name), v.Members); err != nil {
				return err
			}
		}
	}
	return nil
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "<plan>"
	}
	return scope
}

// QualifyName joins a scope prefix and a node name into the hierarchical
// result key ("research.hn"). An empty scope yields the bare name.
func QualifyName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}
