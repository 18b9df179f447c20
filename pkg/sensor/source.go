// Package sensor defines the contract with the frame source: the external
// capture/segmentation pipeline that produces per-frame detection samples
// and performs AR-side scanning and haptic-guidance anchoring.
package sensor

import "github.com/nabilabs/go-wayfind/pkg/session"

// Source is the external sensor collaborator. Commands are non-blocking;
// results arrive through the registered callbacks.
type Source interface {
	// StartScanning begins a scan. target may be empty for a free
	// environment scan or name a specific object for a directed scan.
	StartScanning(target string) error

	// StopScanning halts the current scan.
	StopScanning() error

	// StartHapticGuidance anchors the named target for guidance; samples
	// delivered afterwards carry centeredness relative to the anchor.
	StartHapticGuidance(target string) error

	// StopHapticGuidance drops the guidance anchor.
	StopHapticGuidance() error

	// OnSample registers the per-frame sample callback.
	OnSample(fn func(sample session.DetectionSample))

	// OnTargetFound registers a callback fired when a directed scan sees
	// the exact requested label.
	OnTargetFound(fn func(label string))
}
