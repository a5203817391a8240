package workflow

import (
	"fmt"
	"sync"
	"time"
)

// Result is the terminal record of one step or group.
type Result struct {
	// Name is the hierarchical result key ("synthesis", "research.hn").
	Name string
	// Value is whatever the unit returned. For a group it is a
	// map[string]any of the direct members' values.
	Value any
	// Err is nil on success, the unit's own error on failure, or wraps
	// ErrTimeout when the step or its group exceeded a bound.
	Err error

	Start time.Time
	End   time.Time
}

// Duration returns the wall time the node was in flight.
func (r *Result) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Failed reports whether the node reached a failure state.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// ExecutionContext is the per-run, append-only store of results. Each name
// is written exactly once; a second write fails with ErrConflict. It is the
// only structure shared across concurrent branches, and branches only ever
// see it through immutable snapshots taken before they were dispatched.
type ExecutionContext struct {
	input any

	mu      sync.Mutex
	order   []string
	results map[string]*Result
}

// NewExecutionContext creates an empty context for a single run. The input
// value is visible to every unit via the snapshot.
func NewExecutionContext(input any) *ExecutionContext {
	return &ExecutionContext{
		input:   input,
		results: make(map[string]*Result),
	}
}

// Input returns the run's initial input value.
func (c *ExecutionContext) Input() any { return c.input }

// Write registers a result under its name. Writing a name twice is a
// programmer error and fails with ErrConflict.
func (c *ExecutionContext) Write(res *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[res.Name]; exists {
		return fmt.Errorf("%w: %q written twice", ErrConflict, res.Name)
	}
	c.results[res.Name] = res
	c.order = append(c.order, res.Name)
	return nil
}

// Get returns the result recorded under name. Absent names report
// (nil, false) rather than blocking; plan ordering guarantees a
// predecessor's name is present by the time a successor runs.
func (c *ExecutionContext) Get(name string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.results[name]
	return res, ok
}

// Names returns every recorded name in write order.
func (c *ExecutionContext) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Snapshot captures an immutable view of everything recorded so far. Units
// dispatched afterwards read this view, so in-flight siblings can never
// observe each other.
func (c *ExecutionContext) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &Snapshot{
		input:   c.input,
		order:   make([]string, len(c.order)),
		results: make(map[string]*Result, len(c.results)),
	}
	copy(snap.order, c.order)
	for name, res := range c.results {
		snap.results[name] = res
	}
	return snap
}

// Snapshot is a read-only view of an ExecutionContext at a point in time.
type Snapshot struct {
	input   any
	order   []string
	results map[string]*Result
}

// Input returns the run's initial input value.
func (s *Snapshot) Input() any { return s.input }

// Get returns the result recorded under name at snapshot time.
func (s *Snapshot) Get(name string) (*Result, bool) {
	res, ok := s.results[name]
	return res, ok
}

// Value returns the value of a successful result. It reports false for
// absent names and for failed nodes.
func (s *Snapshot) Value(name string) (any, bool) {
	res, ok := s.results[name]
	if !ok || res.Err != nil {
		return nil, false
	}
	return res.Value, true
}

// Names returns every name present in the snapshot, in write order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
