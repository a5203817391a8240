// Package scheduler walks a workflow plan and executes it: standalone steps
// run synchronously in declared order, parallel groups fan out one goroutine
// per member and join at a barrier before the plan advances. Results are
// merged into the run's execution context keyed by hierarchical name, so the
// aggregate is identical regardless of which branch finished first. Failures
// are isolated per branch and collected into a declaration-ordered report.
package scheduler
