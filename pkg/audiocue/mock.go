package audiocue

import "sync"

// Mock is a Player for testing. By default playback completes synchronously;
// set Manual to collect completions and fire them from the test.
type Mock struct {
	mu sync.Mutex

	// Manual suppresses automatic completion when true.
	Manual bool

	// Captured calls
	Played []Cue
	Stops  int

	pending []func()
}

// NewMock creates a mock player.
func NewMock() *Mock {
	return &Mock{}
}

// Play implements Player.
func (m *Mock) Play(cue Cue, onComplete func()) {
	m.mu.Lock()
	m.Played = append(m.Played, cue)
	manual := m.Manual
	if manual && onComplete != nil {
		m.pending = append(m.pending, onComplete)
	}
	m.mu.Unlock()

	if !manual && onComplete != nil {
		onComplete()
	}
}

// Stop implements Player.
func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
}

// CompleteNext fires the oldest pending completion. Returns false when none
// is pending.
func (m *Mock) CompleteNext() bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()
	fn()
	return true
}

// PlayedIDs returns the IDs of all played cues, in order.
func (m *Mock) PlayedIDs() []ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ID, len(m.Played))
	for i, c := range m.Played {
		out[i] = c.ID
	}
	return out
}

// LastPlayed returns the most recent cue, or a zero Cue.
func (m *Mock) LastPlayed() Cue {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Played) == 0 {
		return Cue{}
	}
	return m.Played[len(m.Played)-1]
}
