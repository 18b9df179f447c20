// Package scan accumulates object labels observed across detection frames
// and tracks scan progress for the Scanning stage.
package scan

import (
	"strings"
	"time"
)

// DefaultLabelCap is how many distinct labels count as a complete free scan.
const DefaultLabelCap = 10

// Mode selects how progress is derived.
type Mode int

const (
	// ModeTimed derives progress from elapsed time against a fixed duration.
	ModeTimed Mode = iota
	// ModeFree derives progress from distinct-label count against a cap.
	ModeFree
)

// Accumulator collects labels into a deduplicated set. Observation is a pure
// set union: duplicates are absorbed, discovery order is irrelevant.
// Progress never decreases until Reset.
type Accumulator struct {
	mode     Mode
	labels   map[string]struct{}
	labelCap int

	started  time.Time
	duration time.Duration

	progress float64

	now func() time.Time // injectable clock for tests
}

// New creates an accumulator in free-scan mode with the default label cap.
func New() *Accumulator {
	return &Accumulator{
		mode:     ModeFree,
		labels:   make(map[string]struct{}),
		labelCap: DefaultLabelCap,
		now:      time.Now,
	}
}

// NewTimed creates an accumulator whose progress tracks elapsed time
// against the given scan duration.
func NewTimed(duration time.Duration) *Accumulator {
	a := New()
	a.mode = ModeTimed
	a.duration = duration
	a.started = a.now()
	return a
}

// Observe merges a frame's labels into the accumulated set.
// Empty and whitespace-only labels are ignored.
func (a *Accumulator) Observe(labels []string) {
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		a.labels[l] = struct{}{}
	}
}

// Labels returns a copy of the accumulated label set as a slice.
func (a *Accumulator) Labels() []string {
	out := make([]string, 0, len(a.labels))
	for l := range a.labels {
		out = append(out, l)
	}
	return out
}

// Contains reports whether an exact label has been observed.
func (a *Accumulator) Contains(label string) bool {
	_, ok := a.labels[label]
	return ok
}

// Count returns the number of distinct labels observed.
func (a *Accumulator) Count() int {
	return len(a.labels)
}

// Progress returns the scan completion fraction in [0,1].
// The returned value is monotonically non-decreasing until Reset.
func (a *Accumulator) Progress() float64 {
	var p float64
	switch a.mode {
	case ModeTimed:
		if a.duration <= 0 {
			p = 1
		} else {
			p = float64(a.now().Sub(a.started)) / float64(a.duration)
		}
	case ModeFree:
		p = float64(len(a.labels)) / float64(a.labelCap)
	}
	if p > 1 {
		p = 1
	}
	if p > a.progress {
		a.progress = p
	}
	return a.progress
}

// Done reports whether the scan has run to completion.
func (a *Accumulator) Done() bool {
	return a.Progress() >= 1
}

// Reset clears accumulated labels and progress and restarts the clock.
func (a *Accumulator) Reset() {
	a.labels = make(map[string]struct{})
	a.progress = 0
	a.started = a.now()
}
