package session

import (
	"time"

	"github.com/google/uuid"
)

// State is the mutable per-run navigation session state.
// It is owned exclusively by the stage controller: all mutation happens on
// the controller's run loop, so State itself carries no locking.
type State struct {
	// ID identifies this session run for logging and the dashboard.
	ID string

	// Stage is the currently active phase.
	Stage Stage

	// RequestedObjectName is the user-spoken target, empty until set.
	RequestedObjectName string

	// ConfirmedObjectName is set once a target is locked, either by a
	// direct label match or by remote resolution, and cleared when
	// guidance ends.
	ConfirmedObjectName string

	// ScannedLabels is the set of object labels observed across frames.
	ScannedLabels map[string]struct{}

	// ScanProgress is a fraction in [0,1].
	ScanProgress float64

	// ScanCompleted latches once the timed scan has finished. It blocks
	// re-entry into the scan-completion flow until the stage is re-entered.
	ScanCompleted bool

	// MatchingInProgress latches while a remote object match is in flight.
	MatchingInProgress bool

	// GuidanceRequestCount counts guidance prompts sent this session.
	GuidanceRequestCount int

	// LastGuidanceTime is when the last guidance prompt was dispatched.
	LastGuidanceTime time.Time

	// LastDistance is the most recent known distance to the target in
	// meters. Valid only when HasDistance is true.
	LastDistance float64
	HasDistance  bool
}

// NewState creates a fresh session state in the Scanning stage.
func NewState() *State {
	return &State{
		ID:            uuid.NewString(),
		Stage:         StageScanning,
		ScannedLabels: make(map[string]struct{}),
	}
}

// ResetForScanning clears everything the Scanning stage entry must clear:
// target names, scan state, latches, and guidance counters. The session ID
// and stage value are left to the controller.
func (s *State) ResetForScanning() {
	s.RequestedObjectName = ""
	s.ConfirmedObjectName = ""
	s.ScannedLabels = make(map[string]struct{})
	s.ScanProgress = 0
	s.ScanCompleted = false
	s.MatchingInProgress = false
	s.GuidanceRequestCount = 0
	s.LastGuidanceTime = time.Time{}
	s.LastDistance = 0
	s.HasDistance = false
}

// Labels returns the scanned labels as a slice, order unspecified.
func (s *State) Labels() []string {
	out := make([]string, 0, len(s.ScannedLabels))
	for l := range s.ScannedLabels {
		out = append(out, l)
	}
	return out
}
