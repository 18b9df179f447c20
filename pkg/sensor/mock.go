package sensor

import (
	"sync"

	"github.com/nabilabs/go-wayfind/pkg/session"
)

// Mock is a Source for testing. It captures commands and lets tests inject
// frames through Emit.
type Mock struct {
	mu sync.Mutex

	onSample      func(session.DetectionSample)
	onTargetFound func(string)

	// Configurable behavior
	StartScanningFunc func(target string) error

	// Captured calls for assertions
	ScanTargets    []string
	StopScans      int
	HapticTargets  []string
	StopHaptics    int
}

// NewMock creates a mock sensor source.
func NewMock() *Mock {
	return &Mock{}
}

// StartScanning implements Source.
func (m *Mock) StartScanning(target string) error {
	m.mu.Lock()
	m.ScanTargets = append(m.ScanTargets, target)
	fn := m.StartScanningFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(target)
	}
	return nil
}

// StopScanning implements Source.
func (m *Mock) StopScanning() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopScans++
	return nil
}

// StartHapticGuidance implements Source.
func (m *Mock) StartHapticGuidance(target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HapticTargets = append(m.HapticTargets, target)
	return nil
}

// StopHapticGuidance implements Source.
func (m *Mock) StopHapticGuidance() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopHaptics++
	return nil
}

// OnSample implements Source.
func (m *Mock) OnSample(fn func(session.DetectionSample)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSample = fn
}

// OnTargetFound implements Source.
func (m *Mock) OnTargetFound(fn func(string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTargetFound = fn
}

// Emit delivers a frame to the registered sample callback.
func (m *Mock) Emit(sample session.DetectionSample) {
	m.mu.Lock()
	fn := m.onSample
	m.mu.Unlock()
	if fn != nil {
		fn(sample)
	}
}

// EmitTargetFound fires the target-found callback.
func (m *Mock) EmitTargetFound(label string) {
	m.mu.Lock()
	fn := m.onTargetFound
	m.mu.Unlock()
	if fn != nil {
		fn(label)
	}
}

// LastHapticTarget returns the most recent guidance target, or "".
func (m *Mock) LastHapticTarget() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.HapticTargets) == 0 {
		return ""
	}
	return m.HapticTargets[len(m.HapticTargets)-1]
}

// ScanStartCount returns how many scans were started.
func (m *Mock) ScanStartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ScanTargets)
}

// StopHapticCount returns how many times haptic guidance was stopped.
func (m *Mock) StopHapticCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StopHaptics
}
