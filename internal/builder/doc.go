// Package builder assembles an executable workflow.Plan from the loaded
// configuration model, the runner registry, and a format converter. Each
// configured step becomes a workflow step whose unit evaluates its argument
// expressions at execution time against the run's snapshot, so later steps
// can reference `input` and `result.<name>` from earlier ones.
package builder
