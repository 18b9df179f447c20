// Package center derives discrete "entered center" and "target reached"
// conditions from the per-frame centeredness/distance stream.
package center

import "time"

// Config holds the centeredness and proximity thresholds for one stage.
type Config struct {
	// EnterThreshold is the centeredness above which the target counts as
	// centered (rising edge sets the active flag).
	EnterThreshold float64

	// ReachThreshold is the centeredness required for target-reached.
	ReachThreshold float64

	// ReachDistance is the maximum distance in meters for target-reached.
	// Distance must be known for the condition to hold.
	ReachDistance float64

	// HoldDuration, when positive, requires centeredness to stay above
	// EnterThreshold for this long before Held reports true. Zero keeps
	// the instantaneous behavior.
	HoldDuration time.Duration
}

// ScanningConfig returns the thresholds used during the Scanning stage.
func ScanningConfig() Config {
	return Config{
		EnterThreshold: 0.85,
		ReachThreshold: 0.85,
		ReachDistance:  0.5,
	}
}

// GuidanceConfig returns the stricter thresholds used while guiding,
// gating the handoff to pure conversation.
func GuidanceConfig() Config {
	return Config{
		EnterThreshold: 0.85,
		ReachThreshold: 0.8,
		ReachDistance:  0.7,
	}
}

// State is the derived center-detection state after an update.
type State struct {
	// Active is true while centeredness is above the enter threshold.
	// It rises on the first qualifying sample and falls, together with
	// Progress, on the first sample below it.
	Active bool

	// Progress is the hold progress in [0,1]. With a zero HoldDuration it
	// jumps straight to 1 on the rising edge.
	Progress float64

	// TargetReached is true when centeredness clears the reach threshold
	// and a known distance is below the reach distance.
	TargetReached bool

	// Held is true once Active has persisted for HoldDuration.
	Held bool
}

// Tracker consumes centeredness/distance samples and exposes the derived
// state. It is a function of the latest sample plus the previous active
// flag; there is no smoothing beyond the edge reset.
type Tracker struct {
	cfg   Config
	state State

	activeSince time.Time
	now         func() time.Time
}

// New creates a tracker with the given thresholds.
func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg, now: time.Now}
}

// Update feeds one sample and returns the derived state.
// hasDistance=false means depth was unavailable for this frame; the
// target-reached condition then cannot hold regardless of centeredness.
func (t *Tracker) Update(centeredness float64, distance float64, hasDistance bool) State {
	if centeredness > t.cfg.EnterThreshold {
		if !t.state.Active {
			t.state.Active = true
			t.activeSince = t.now()
		}
		if t.cfg.HoldDuration > 0 {
			held := t.now().Sub(t.activeSince)
			t.state.Progress = clamp01(float64(held) / float64(t.cfg.HoldDuration))
			t.state.Held = held >= t.cfg.HoldDuration
		} else {
			t.state.Progress = 1
			t.state.Held = true
		}
	} else {
		t.state.Active = false
		t.state.Progress = 0
		t.state.Held = false
	}

	t.state.TargetReached = centeredness > t.cfg.ReachThreshold &&
		hasDistance && distance < t.cfg.ReachDistance

	return t.state
}

// State returns the last derived state without consuming a sample.
func (t *Tracker) State() State {
	return t.state
}

// Reset clears the derived state to "no detection".
func (t *Tracker) Reset() {
	t.state = State{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
