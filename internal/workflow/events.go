package workflow

import "time"

// Emitter receives per-node lifecycle events during a run. The engine only
// emits; formatting, display, and transport belong to the collaborator layer
// (logging, progress output). Implementations must be safe for concurrent
// use, since parallel branches emit from their own goroutines.
type Emitter interface {
	StepStarted(name string)
	StepFinished(res *Result)
	GroupStarted(name string, members int)
	GroupFinished(name string, elapsed time.Duration, failed int)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) StepStarted(string) {}

func (NopEmitter) StepFinished(*Result) {}

func (NopEmitter) GroupStarted(string, int) {}

func (NopEmitter) GroupFinished(string, time.Duration, int) {}
