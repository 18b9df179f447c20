// Package haptics maps centeredness to a discrete feedback intensity ladder
// and drives the haptic device with a per-tier re-fire rate limit.
package haptics

import "time"

// Level is one tier of the haptic feedback ladder, ordered weakest to
// strongest.
type Level int

const (
	LevelNone Level = iota
	LevelFaint
	LevelWeak
	LevelMild
	LevelModerate
	LevelStrong
	LevelMax
)

// String returns the tier name.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelFaint:
		return "faint"
	case LevelWeak:
		return "weak"
	case LevelMild:
		return "mild"
	case LevelModerate:
		return "moderate"
	case LevelStrong:
		return "strong"
	case LevelMax:
		return "max"
	default:
		return "unknown"
	}
}

// Params are the transient parameters bound to a tier.
type Params struct {
	Intensity   float64
	Sharpness   float64
	MinInterval time.Duration
}

// DefaultMinInterval is the minimum re-fire interval applied to every tier.
const DefaultMinInterval = 80 * time.Millisecond

var levelParams = map[Level]Params{
	LevelNone:     {Intensity: 0, Sharpness: 0, MinInterval: 0},
	LevelFaint:    {Intensity: 0.2, Sharpness: 0.1, MinInterval: DefaultMinInterval},
	LevelWeak:     {Intensity: 0.35, Sharpness: 0.2, MinInterval: DefaultMinInterval},
	LevelMild:     {Intensity: 0.5, Sharpness: 0.35, MinInterval: DefaultMinInterval},
	LevelModerate: {Intensity: 0.65, Sharpness: 0.5, MinInterval: DefaultMinInterval},
	LevelStrong:   {Intensity: 0.8, Sharpness: 0.7, MinInterval: DefaultMinInterval},
	LevelMax:      {Intensity: 1.0, Sharpness: 1.0, MinInterval: DefaultMinInterval},
}

// Params returns the transient parameters for a tier.
func (l Level) Params() Params {
	return levelParams[l]
}

// LevelFor maps a centeredness value to the highest applicable tier.
// The ladder is a pure, deterministic step function: exactly one tier is
// selected for any input. Both the "visible" and "detected" rungs at the
// bottom of the ladder resolve to Faint.
func LevelFor(centeredness float64) Level {
	switch {
	case centeredness > 0.9:
		return LevelMax
	case centeredness > 0.8:
		return LevelStrong
	case centeredness > 0.7:
		return LevelModerate
	case centeredness > 0.55:
		return LevelMild
	case centeredness > 0.4:
		return LevelWeak
	case centeredness > 0.25:
		return LevelFaint // target visible
	case centeredness > 0.1:
		return LevelFaint // target barely detected
	default:
		return LevelNone
	}
}
