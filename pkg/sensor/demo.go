package sensor

import (
	"sync"
	"time"

	"github.com/nabilabs/go-wayfind/pkg/session"
)

// DefaultDemoLabels is the environment the demo feed pretends to see.
var DefaultDemoLabels = []string{"chair", "table", "cup", "door", "backpack", "bottle"}

const demoFrameInterval = 100 * time.Millisecond

// Demo is a scripted Source for running a session without hardware. During
// a scan it reveals one label per frame; during guidance it walks the
// target toward the frame center while closing the distance, so a full
// session plays out end to end.
type Demo struct {
	Labels []string

	mu            sync.Mutex
	onSample      func(session.DetectionSample)
	onTargetFound func(string)
	stopScan      chan struct{}
	stopGuide     chan struct{}
}

// NewDemo creates a demo feed over the default label set.
func NewDemo() *Demo {
	return &Demo{Labels: DefaultDemoLabels}
}

// StartScanning implements Source.
func (d *Demo) StartScanning(target string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopScan != nil {
		return nil
	}
	stop := make(chan struct{})
	d.stopScan = stop
	go d.scanLoop(target, stop)
	return nil
}

// StopScanning implements Source.
func (d *Demo) StopScanning() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopScan != nil {
		close(d.stopScan)
		d.stopScan = nil
	}
	return nil
}

// StartHapticGuidance implements Source.
func (d *Demo) StartHapticGuidance(target string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopGuide != nil {
		return nil
	}
	stop := make(chan struct{})
	d.stopGuide = stop
	go d.guideLoop(target, stop)
	return nil
}

// StopHapticGuidance implements Source.
func (d *Demo) StopHapticGuidance() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopGuide != nil {
		close(d.stopGuide)
		d.stopGuide = nil
	}
	return nil
}

// OnSample implements Source.
func (d *Demo) OnSample(fn func(session.DetectionSample)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSample = fn
}

// OnTargetFound implements Source.
func (d *Demo) OnTargetFound(fn func(label string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onTargetFound = fn
}

func (d *Demo) emit(s session.DetectionSample) {
	d.mu.Lock()
	fn := d.onSample
	d.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (d *Demo) scanLoop(target string, stop chan struct{}) {
	ticker := time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			label := d.Labels[frame%len(d.Labels)]
			d.emit(session.DetectionSample{
				Centeredness: 0.3,
				Labels:       []string{label},
			})
			if target != "" && label == target {
				d.mu.Lock()
				fn := d.onTargetFound
				d.mu.Unlock()
				if fn != nil {
					fn(label)
				}
			}
			frame++
		}
	}
}

func (d *Demo) guideLoop(target string, stop chan struct{}) {
	ticker := time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	// Walk from off-center and 3m out to dead-center at arm's reach.
	centeredness := 0.2
	distance := 3.0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.emit(session.DetectionSample{
				Centeredness: centeredness,
				Distance:     distance,
				HasDistance:  true,
				Labels:       []string{target},
			})
			if centeredness < 1.0 {
				centeredness += 0.01
				if centeredness > 1.0 {
					centeredness = 1.0
				}
			}
			if distance > 0.4 {
				distance -= 0.02
				if distance < 0.4 {
					distance = 0.4
				}
			}
		}
	}
}
