package speech

import "sync"

// Mock is a Recognizer for testing.
type Mock struct {
	mu sync.Mutex

	onObjectName func(name, utterance string)

	// Captured calls
	Starts int
	Stops  int
}

// NewMock creates a mock recognizer.
func NewMock() *Mock {
	return &Mock{}
}

// Start implements Recognizer.
func (m *Mock) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Starts++
	return nil
}

// Stop implements Recognizer.
func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
	return nil
}

// OnObjectName implements Recognizer.
func (m *Mock) OnObjectName(fn func(name, utterance string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onObjectName = fn
}

// Recognize delivers a recognized name to the registered callback.
func (m *Mock) Recognize(name, utterance string) {
	m.mu.Lock()
	fn := m.onObjectName
	m.mu.Unlock()
	if fn != nil {
		fn(name, utterance)
	}
}

// Running reports whether starts outnumber stops.
func (m *Mock) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Starts > m.Stops
}
