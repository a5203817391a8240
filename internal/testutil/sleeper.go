package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/flowgridgo/internal/registry"
)

// SleeperModule is a shared, self-contained module for concurrency tests.
// It records the execution window of each step that uses it.
type SleeperModule struct {
	mu             sync.Mutex
	executionTimes map[string]*ExecutionRecord
	sleepDuration  time.Duration
	completionChan chan<- string
}

// NewSleeperModule creates a new sleeper module for testing. The completion
// channel, when non-nil, receives each step's id as it finishes.
func NewSleeperModule(completionChan chan<- string, sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		executionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

// Record returns the execution window recorded for a step id.
func (m *SleeperModule) Record(id string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.executionTimes[id]
	return rec, ok
}

// Register registers the "sleeper" runner's Go handler.
func (m *SleeperModule) Register(r *registry.Registry) {
	type sleeperInput struct {
		ID string `hcl:"id"`
	}

	r.RegisterRunner("sleeper", &registry.RegisteredRunner{
		NewInput: func() any { return new(sleeperInput) },
		Fn: func(ctx context.Context, input *sleeperInput) (any, error) {
			startTime := time.Now()

			timer := time.NewTimer(m.sleepDuration)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			m.mu.Lock()
			m.executionTimes[input.ID] = &ExecutionRecord{Start: startTime, End: time.Now()}
			m.mu.Unlock()

			if m.completionChan != nil {
				m.completionChan <- input.ID
			}
			return input.ID, nil
		},
	})
}
