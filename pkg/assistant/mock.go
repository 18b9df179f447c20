package assistant

import "sync"

// Mock is a Client for testing.
type Mock struct {
	mu sync.Mutex

	// State
	connected bool
	speaking  bool
	pending   bool

	// Configurable behavior
	ConnectFunc          func() error
	SendGuidanceTextFunc func(prompt string) error

	// Captured calls for assertions
	Prompts        []string
	Connects       int
	Disconnects    int
	AudioStops     int
	SpeakingResets int
	RecordStarts   int
}

// NewMock creates a mock assistant client.
func NewMock() *Mock {
	return &Mock{}
}

// Connect implements Client.
func (m *Mock) Connect() error {
	m.mu.Lock()
	m.Connects++
	fn := m.ConnectFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

// Disconnect implements Client.
func (m *Mock) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Disconnects++
	m.connected = false
	return nil
}

// SendGuidanceText implements Client.
func (m *Mock) SendGuidanceText(prompt string) error {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	fn := m.SendGuidanceTextFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(prompt)
	}
	return nil
}

// StopOutgoingAudio implements Client.
func (m *Mock) StopOutgoingAudio() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AudioStops++
	return nil
}

// ResetSpeakingState implements Client.
func (m *Mock) ResetSpeakingState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeakingResets++
	m.speaking = false
}

// StartRecording implements Client.
func (m *Mock) StartRecording() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordStarts++
	return nil
}

// IsConnected implements Client.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// IsAssistantSpeaking implements Client.
func (m *Mock) IsAssistantSpeaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// HasPendingRequest implements Client.
func (m *Mock) HasPendingRequest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// SetPendingRequest implements Client.
func (m *Mock) SetPendingRequest(pending bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = pending
}

// SetSpeaking forces the speaking flag, for backpressure tests.
func (m *Mock) SetSpeaking(speaking bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speaking = speaking
}

// SetConnected forces the connected flag.
func (m *Mock) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

// PromptCount returns how many guidance prompts were dispatched.
func (m *Mock) PromptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// DisconnectCount returns how many times Disconnect was called.
func (m *Mock) DisconnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Disconnects
}

// AudioStopCount returns how many times StopOutgoingAudio was called.
func (m *Mock) AudioStopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AudioStops
}

// SpeakingResetCount returns how many times ResetSpeakingState was called.
func (m *Mock) SpeakingResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SpeakingResets
}

// RecordStartCount returns how many times StartRecording was called.
func (m *Mock) RecordStartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RecordStarts
}
