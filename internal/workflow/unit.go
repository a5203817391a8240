package workflow

import "context"

// Unit is the opaque action a step wraps. Implementations may block on I/O
// and should return promptly once the context is cancelled; the engine stops
// waiting at a timeout either way.
//
// The snapshot exposes the run's initial input and the results of every node
// that finished strictly before this unit was dispatched. Concurrent siblings
// are never visible to each other.
type Unit interface {
	Execute(ctx context.Context, snap *Snapshot) (any, error)
}

// UnitFunc adapts a plain function to the Unit interface.
type UnitFunc func(ctx context.Context, snap *Snapshot) (any, error)

// Execute implements Unit.
func (f UnitFunc) Execute(ctx context.Context, snap *Snapshot) (any, error) {
	return f(ctx, snap)
}
