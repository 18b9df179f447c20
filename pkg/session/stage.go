// Package session holds the navigation session state shared across the
// wayfind components: the stage machine value, accumulated scan data, and
// the event stream consumed by downstream observers (dashboard, logs).
package session

// Stage is one of the three mutually exclusive phases of a navigation session.
type Stage int

const (
	// StageScanning is the initial phase: the environment is scanned for
	// object labels and the user speaks the name of the target.
	StageScanning Stage = iota

	// StageLiveGuidance is the second phase: the target is locked and the
	// assistant sends periodic spoken guidance while haptics steer the user.
	StageLiveGuidance

	// StagePureConversation is the final phase: the target has been reached
	// and the session degrades to open conversation with the assistant.
	StagePureConversation
)

// String returns a human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageScanning:
		return "scanning"
	case StageLiveGuidance:
		return "live-guidance"
	case StagePureConversation:
		return "pure-conversation"
	default:
		return "unknown"
	}
}
