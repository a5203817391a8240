package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/workflow"
)

// stepOutcome carries a unit's return values out of its goroutine.
type stepOutcome struct {
	value any
	err   error
}

// runStep executes one step against the given snapshot and always produces
// a terminal result. The unit runs in its own goroutine; on timeout or
// cancellation the wrapper stops waiting and the abandoned unit writes into
// a buffered channel nobody reads, so it can never corrupt the run after
// the scheduler has moved on.
func (s *Scheduler) runStep(ctx context.Context, scope string, step *workflow.Step, snap *workflow.Snapshot) *workflow.Result {
	name := workflow.QualifyName(scope, step.Name)
	logger := ctxlog.FromContext(ctx).With("step", name)

	runCtx := ctx
	timeout := s.stepTimeout(step)
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.emitter.StepStarted(name)
	logger.Debug("▶️ Step started.")

	res := &workflow.Result{Name: name, Start: time.Now()}

	done := make(chan stepOutcome, 1)
	go func() {
		value, err := step.Unit.Execute(runCtx, snap)
		done <- stepOutcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		res.Value = out.value
		res.Err = out.err
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			res.Err = fmt.Errorf("%w after %s", workflow.ErrTimeout, time.Since(res.Start).Round(time.Millisecond))
		} else {
			res.Err = runCtx.Err()
		}
	}
	res.End = time.Now()

	if res.Failed() {
		logger.Warn("Step failed.", "error", res.Err, "duration", res.Duration())
	} else {
		logger.Debug("✅ Step finished.", "duration", res.Duration())
	}
	s.emitter.StepFinished(res)

	return res
}
