package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/workflow"
)

// branchOutcome is the terminal state of one group member. A step member
// contributes one result; a nested group contributes its members' results
// plus its own aggregate.
type branchOutcome struct {
	results  []*workflow.Result
	failures []workflow.Failure
}

// runGroup dispatches every member concurrently and blocks at the barrier
// until all branches are terminal. Results and failures are assembled from
// per-member slots in declaration order, which makes the merged output
// independent of completion order. The returned results end with the
// group's own aggregate result.
func (s *Scheduler) runGroup(ctx context.Context, scope string, group *workflow.Group, snap *workflow.Snapshot) ([]*workflow.Result, []workflow.Failure) {
	name := workflow.QualifyName(scope, group.Name)
	logger := ctxlog.FromContext(ctx).With("group", name)

	groupCtx := ctx
	timeout := s.groupTimeout(group)
	if timeout > 0 {
		var cancel context.CancelFunc
		groupCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.emitter.GroupStarted(name, len(group.Members))
	logger.Info("Dispatching parallel group.", "members", len(group.Members))
	start := time.Now()

	slots := make([]branchOutcome, len(group.Members))
	var wg sync.WaitGroup
	for i, member := range group.Members {
		wg.Add(1)
		go func(i int, member workflow.Node) {
			defer wg.Done()
			switch m := member.(type) {
			case *workflow.Step:
				res := s.runStep(groupCtx, name, m, snap)
				slots[i].results = []*workflow.Result{res}
				if res.Failed() {
					slots[i].failures = []workflow.Failure{{Name: res.Name, Err: res.Err}}
				}
			case *workflow.Group:
				slots[i].results, slots[i].failures = s.runGroup(groupCtx, name, m, snap)
			}
		}(i, member)
	}

	// Barrier: every branch is terminal before the group resolves. A group
	// timeout drains quickly because each in-flight step stops waiting as
	// soon as groupCtx expires.
	wg.Wait()
	elapsed := time.Since(start)

	var results []*workflow.Result
	var failures []workflow.Failure
	for i := range slots {
		results = append(results, slots[i].results...)
		failures = append(failures, slots[i].failures...)
	}

	// The group's own result aggregates the direct members' values under
	// their unqualified names.
	aggregate := make(map[string]any, len(group.Members))
	byName := make(map[string]*workflow.Result, len(results))
	for _, res := range results {
		byName[res.Name] = res
	}
	for _, member := range group.Members {
		res, ok := byName[workflow.QualifyName(name, member.NodeName())]
		if ok && !res.Failed() {
			aggregate[member.NodeName()] = res.Value
		}
	}
	results = append(results, &workflow.Result{
		Name:  name,
		Value: aggregate,
		Start: start,
		End:   start.Add(elapsed),
	})

	if len(failures) > 0 {
		logger.Warn("Parallel group finished with failures.",
			"failures", len(failures), "duration", elapsed)
	} else {
		logger.Info("✅ Parallel group finished.", "duration", elapsed)
	}
	s.emitter.GroupFinished(name, elapsed, len(failures))

	return results, failures
}
