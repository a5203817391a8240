package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/workflow"
)

// Options configures a Scheduler.
type Options struct {
	// StepTimeout bounds every step that does not declare its own timeout.
	// Zero means unbounded.
	StepTimeout time.Duration
	// GroupTimeout bounds every group that does not declare its own
	// timeout. Zero means unbounded.
	GroupTimeout time.Duration
	// AbortOnError stops dispatching further plan nodes after the first
	// node with a failure. The failing node itself is always drained to
	// its barrier first.
	AbortOnError bool
	// Emitter receives per-node lifecycle events. Nil disables emission.
	Emitter workflow.Emitter
}

// Scheduler executes workflow plans. It is stateless across runs and safe
// to reuse.
type Scheduler struct {
	opts    Options
	emitter workflow.Emitter
}

// New creates a scheduler with the given options.
func New(opts Options) *Scheduler {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = workflow.NopEmitter{}
	}
	return &Scheduler{opts: opts, emitter: emitter}
}

// Run executes the plan top to bottom and always returns both the execution
// context and the failure report. The returned error is non-nil only for
// run-fatal conditions: an invalid plan, a result name conflict, or a
// cancelled run context. Unit failures and timeouts land in the report and
// never unwind the run unless AbortOnError is set.
func (s *Scheduler) Run(ctx context.Context, plan *workflow.Plan, input any) (*workflow.ExecutionContext, *workflow.Report, error) {
	execCtx := workflow.NewExecutionContext(input)
	report := &workflow.Report{}

	if err := plan.Validate(); err != nil {
		return execCtx, report, err
	}

	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "run_id", runID, "plan", plan.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Info("🚀 Starting plan execution...", "nodes", len(plan.Nodes))

	for _, node := range plan.Nodes {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run context cancelled, stopping dispatch.", "error", err)
			return execCtx, report, err
		}

		var failures []workflow.Failure

		switch n := node.(type) {
		case *workflow.Step:
			res := s.runStep(ctx, "", n, execCtx.Snapshot())
			if err := execCtx.Write(res); err != nil {
				return execCtx, report, err
			}
			if res.Failed() {
				failures = []workflow.Failure{{Name: res.Name, Err: res.Err}}
			}
		case *workflow.Group:
			results, groupFailures := s.runGroup(ctx, "", n, execCtx.Snapshot())
			for _, res := range results {
				if err := execCtx.Write(res); err != nil {
					return execCtx, report, err
				}
			}
			failures = groupFailures
		default:
			return execCtx, report, fmt.Errorf("%w: unknown node type %T", workflow.ErrInvalidPlan, node)
		}

		report.Merge(failures)

		if len(failures) > 0 && s.opts.AbortOnError {
			logger.Warn("Aborting plan after node failure.",
				"node", node.NodeName(), "failures", len(failures))
			break
		}
	}

	logger.Info("🏁 Plan execution finished.",
		"results", len(execCtx.Names()), "failures", len(report.Failures))
	return execCtx, report, nil
}

func (s *Scheduler) stepTimeout(step *workflow.Step) time.Duration {
	if step.Timeout > 0 {
		return step.Timeout
	}
	return s.opts.StepTimeout
}

func (s *Scheduler) groupTimeout(group *workflow.Group) time.Duration {
	if group.Timeout > 0 {
		return group.Timeout
	}
	return s.opts.GroupTimeout
}
