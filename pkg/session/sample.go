package session

import "math"

// DetectionSample is one frame's worth of detector output: how centered the
// tracked object is, how far away it is (when depth is available), and the
// object labels seen in the frame. Samples are ephemeral and consumed
// immediately; they are never stored.
type DetectionSample struct {
	// Centeredness is a normalized [0,1] measure of how close the target
	// is to the center of the frame.
	Centeredness float64

	// Distance is the estimated distance to the target in meters.
	// Valid only when HasDistance is true.
	Distance    float64
	HasDistance bool

	// Labels are the object class labels detected in this frame.
	Labels []string
}

// Sanitize clamps a sample to its valid domain. A sample carrying NaN/Inf
// centeredness or a negative distance is treated as "no detection": the
// frame's signals are discarded and processing continues on the next frame.
func (d DetectionSample) Sanitize() (DetectionSample, bool) {
	if math.IsNaN(d.Centeredness) || math.IsInf(d.Centeredness, 0) {
		return DetectionSample{}, false
	}
	if d.HasDistance && (d.Distance < 0 || math.IsNaN(d.Distance) || math.IsInf(d.Distance, 0)) {
		return DetectionSample{}, false
	}
	if d.Centeredness < 0 {
		d.Centeredness = 0
	}
	if d.Centeredness > 1 {
		d.Centeredness = 1
	}
	return d, true
}
