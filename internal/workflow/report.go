package workflow

import (
	"fmt"
	"strings"
)

// Failure ties one error to the hierarchical name of the node it came from.
type Failure struct {
	Name string
	Err  error
}

// Report collects every failure of a run in declaration order. Failures are
// keyed by name, never by completion order, so the report is deterministic
// regardless of which parallel branch failed first. An empty report means
// the run fully succeeded; otherwise the run partially failed and the
// surviving results are still in the ExecutionContext.
type Report struct {
	Failures []Failure
}

// OK reports whether the run completed without any failure.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Add appends a failure. Callers append in declaration order.
func (r *Report) Add(name string, err error) {
	r.Failures = append(r.Failures, Failure{Name: name, Err: err})
}

// Merge appends another set of failures, preserving their order.
func (r *Report) Merge(failures []Failure) {
	r.Failures = append(r.Failures, failures...)
}

// Err folds the report into a single error, or nil when the report is
// empty. The first failure is wrapped as the root cause; all failed names
// are listed.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	names := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		names[i] = f.Name
	}
	return fmt.Errorf("execution failed for %s: %w", strings.Join(names, ", "), r.Failures[0].Err)
}
