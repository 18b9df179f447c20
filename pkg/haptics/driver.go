package haptics

import (
	"sync"
	"time"

	"github.com/nabilabs/go-wayfind/internal/log"
)

// Device is the physical haptic actuator. The driver is its only writer.
type Device interface {
	// Fire plays one transient with the given parameters.
	Fire(intensity, sharpness float64) error
	// Stop cancels any ongoing vibration.
	Stop() error
}

// Driver feeds mapped levels to a Device while enforcing each tier's
// minimum re-fire interval so the actuator is never flooded. A request
// arriving inside the rate-limit window is deferred to a single pending
// re-fire timer; a newer request replaces the pending one. LevelNone
// cancels the pending timer, stops the device, and is never rate-limited.
type Driver struct {
	device Device

	mu        sync.Mutex
	lastLevel Level
	lastFire  time.Time
	pending   *time.Timer

	now func() time.Time
}

// NewDriver creates a driver for the given device.
func NewDriver(device Device) *Driver {
	return &Driver{device: device, now: time.Now}
}

// Emit requests feedback at the given tier.
func (d *Driver) Emit(level Level) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if level == LevelNone {
		d.cancelPendingLocked()
		d.lastLevel = LevelNone
		// The device is stopped, so the next request may fire at once.
		d.lastFire = time.Time{}
		if err := d.device.Stop(); err != nil {
			log.Warn("haptic stop failed", "error", err)
		}
		return
	}

	params := level.Params()
	elapsed := d.now().Sub(d.lastFire)
	if elapsed >= params.MinInterval {
		d.cancelPendingLocked()
		d.fireLocked(level)
		return
	}

	// Inside the window: defer to a single pending re-fire carrying the
	// latest requested level.
	d.cancelPendingLocked()
	remaining := params.MinInterval - elapsed
	d.pending = time.AfterFunc(remaining, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.pending = nil
		if d.lastLevel == LevelNone {
			return // cancelled while the timer was in flight
		}
		d.fireLocked(level)
	})
}

// EmitCenteredness maps a centeredness value through the ladder and emits it.
// It returns the selected tier.
func (d *Driver) EmitCenteredness(centeredness float64) Level {
	level := LevelFor(centeredness)
	d.Emit(level)
	return level
}

// Stop is equivalent to Emit(LevelNone).
func (d *Driver) Stop() {
	d.Emit(LevelNone)
}

// Last returns the most recently fired tier.
func (d *Driver) Last() Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastLevel
}

func (d *Driver) fireLocked(level Level) {
	params := level.Params()
	if err := d.device.Fire(params.Intensity, params.Sharpness); err != nil {
		log.Warn("haptic fire failed", "level", level.String(), "error", err)
		return
	}
	d.lastLevel = level
	d.lastFire = d.now()
}

func (d *Driver) cancelPendingLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
