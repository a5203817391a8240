package integrationtests

import (
	"context"
	"sync"

	"github.com/vk/flowgridgo/internal/registry"
)

// recorderModule registers a "record" runner that captures every message it
// receives, in call order. It lets tests observe which steps actually ran
// and with what evaluated arguments.
type recorderModule struct {
	mu       sync.Mutex
	messages []string
}

func (m *recorderModule) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *recorderModule) Register(r *registry.Registry) {
	type recordInput struct {
		Message string `hcl:"message"`
	}

	r.RegisterRunner("record", &registry.RegisteredRunner{
		NewInput: func() any { return new(recordInput) },
		Fn: func(ctx context.Context, input *recordInput) (any, error) {
			m.mu.Lock()
			m.messages = append(m.messages, input.Message)
			m.mu.Unlock()
			return input.Message, nil
		},
	})
}
