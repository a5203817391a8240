package app

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/builder"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/scheduler"
	"github.com/vk/flowgridgo/internal/workflow"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	a.logger.Debug("Building executable plan from config model...")
	plan, err := builder.Build(ctx, a.config, a.registry, a.converter)
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}
	a.logger.Debug("Executable plan built.", "nodes", len(plan.Nodes))

	a.logger.Info("Runner handlers registered:", "count", len(a.registry.Handlers))

	sched := scheduler.New(scheduler.Options{
		StepTimeout:  appConfig.StepTimeout,
		GroupTimeout: appConfig.GroupTimeout,
		AbortOnError: appConfig.AbortOnError,
		Emitter:      &logEmitter{logger: a.logger},
	})

	execCtx, report, err := sched.Run(ctx, plan, appConfig.Input)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.writeSummary(plan.Name, execCtx, report)

	a.logger.Debug("App.Run method finished.")
	return report.Err()
}

// writeSummary prints a per-node outcome table to the application's output
// writer, in the order results were recorded.
func (a *App) writeSummary(planName string, execCtx *workflow.ExecutionContext, report *workflow.Report) {
	fmt.Fprintf(a.outW, "\nPlan %q: %d results, %d failures\n", planName, len(execCtx.Names()), len(report.Failures))
	for _, name := range execCtx.Names() {
		res, ok := execCtx.Get(name)
		if !ok {
			continue
		}
		status := "ok"
		if res.Failed() {
			status = fmt.Sprintf("failed: %v", res.Err)
		}
		fmt.Fprintf(a.outW, "  %-30s %12s  %s\n", res.Name, res.Duration().Round(timePrecision), status)
	}
}
