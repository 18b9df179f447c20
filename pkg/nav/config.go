// Package nav is the top-level navigation orchestrator: it owns the
// session state machine, sequences the scan/match/guidance components, and
// talks to the external collaborators (sensor source, audio cues, speech
// recognition, remote assistant).
package nav

import (
	"time"

	"github.com/nabilabs/go-wayfind/pkg/center"
	"github.com/nabilabs/go-wayfind/pkg/guidance"
)

// Config holds all tunable parameters for the stage controller.
type Config struct {
	// ScanDuration is how long the automatic environment scan runs after
	// the welcome cue.
	ScanDuration time.Duration

	// MonitorInterval is the polling cadence of the target-reached and
	// handoff monitors.
	MonitorInterval time.Duration

	// GuidanceStartDelay is waited after the assistant connects before
	// the guidance scheduler is armed.
	GuidanceStartDelay time.Duration

	// ScanningCenter / GuidanceCenter are the per-stage centeredness
	// thresholds.
	ScanningCenter center.Config
	GuidanceCenter center.Config

	// Guidance is the scheduler cadence.
	Guidance guidance.Config
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		ScanDuration:       8 * time.Second,
		MonitorInterval:    time.Second,
		GuidanceStartDelay: time.Second,
		ScanningCenter:     center.ScanningConfig(),
		GuidanceCenter:     center.GuidanceConfig(),
		Guidance:           guidance.DefaultConfig(),
	}
}
