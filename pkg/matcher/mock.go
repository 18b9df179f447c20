package matcher

import (
	"context"
	"sync"
)

// MockResolver is a Resolver for testing.
type MockResolver struct {
	mu sync.Mutex

	// ResolveFunc overrides the default behavior when set.
	ResolveFunc func(ctx context.Context, requested string, candidates []string) (string, error)

	// Result/Err are returned when ResolveFunc is nil.
	Result string
	Err    error

	// Block, when non-nil, is received from before returning, letting
	// tests hold a resolution in flight.
	Block chan struct{}

	// Captured calls for assertions.
	Calls []string
}

// Resolve implements Resolver.
func (m *MockResolver) Resolve(ctx context.Context, requested string, candidates []string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, requested)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, requested, candidates)
	}
	return m.Result, m.Err
}

// CallCount returns how many times Resolve was invoked.
func (m *MockResolver) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
