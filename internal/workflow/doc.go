// Package workflow defines the core data model of the orchestration engine:
// the opaque work unit, steps and parallel groups, the ordered execution
// plan, the write-once execution context shared across a run, and the
// declaration-ordered failure report.
//
// The package is deliberately free of scheduling logic. It only describes
// what a plan looks like and what a run produces; the `scheduler` package
// decides how and when nodes execute.
package workflow
