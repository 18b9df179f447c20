package haptics

import (
	"sync"
	"testing"
	"time"
)

// recordingDevice captures fire/stop calls for assertions.
type recordingDevice struct {
	mu    sync.Mutex
	fires []float64 // intensities, in order
	stops int
}

func (r *recordingDevice) Fire(intensity, sharpness float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires = append(r.fires, intensity)
	return nil
}

func (r *recordingDevice) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	return nil
}

func (r *recordingDevice) fireCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fires)
}

func TestLevelFor_Ladder(t *testing.T) {
	cases := []struct {
		centeredness float64
		want         Level
	}{
		{0.95, LevelMax},
		{0.91, LevelMax},
		{0.9, LevelStrong},
		{0.85, LevelStrong},
		{0.8, LevelModerate},
		{0.75, LevelModerate},
		{0.6, LevelMild},
		{0.5, LevelWeak},
		{0.3, LevelFaint},
		{0.15, LevelFaint},
		{0.1, LevelNone},
		{0.0, LevelNone},
	}

	for _, c := range cases {
		if got := LevelFor(c.centeredness); got != c.want {
			t.Errorf("LevelFor(%v): got %v, want %v", c.centeredness, got, c.want)
		}
	}
}

func TestLevelFor_Monotonic(t *testing.T) {
	// Higher centeredness never maps to a lower tier.
	prev := LevelNone
	for c := 0.0; c <= 1.0; c += 0.01 {
		l := LevelFor(c)
		if l < prev {
			t.Fatalf("Ladder not monotonic: LevelFor(%v)=%v after %v", c, l, prev)
		}
		prev = l
	}
}

func TestDriver_RateLimit(t *testing.T) {
	dev := &recordingDevice{}
	d := NewDriver(dev)

	fake := time.Now()
	d.now = func() time.Time { return fake }

	// First emit fires immediately.
	d.Emit(LevelStrong)
	if dev.fireCount() != 1 {
		t.Fatalf("Expected 1 fire, got %d", dev.fireCount())
	}

	// Same level inside the 80ms window must not re-fire the device.
	fake = fake.Add(30 * time.Millisecond)
	d.Emit(LevelStrong)
	if dev.fireCount() != 1 {
		t.Errorf("Re-fired inside rate-limit window: %d fires", dev.fireCount())
	}

	// Past the window a new emit fires again.
	d.mu.Lock()
	d.cancelPendingLocked()
	d.mu.Unlock()
	fake = fake.Add(100 * time.Millisecond)
	d.Emit(LevelStrong)
	if dev.fireCount() != 2 {
		t.Errorf("Expected fire after window elapsed, got %d fires", dev.fireCount())
	}
}

func TestDriver_PendingRefire(t *testing.T) {
	dev := &recordingDevice{}
	d := NewDriver(dev)

	d.Emit(LevelMild)
	d.Emit(LevelMax) // inside the window: deferred

	if dev.fireCount() != 1 {
		t.Fatalf("Deferred emit fired immediately: %d fires", dev.fireCount())
	}

	time.Sleep(120 * time.Millisecond)

	if dev.fireCount() != 2 {
		t.Fatalf("Expected deferred re-fire, got %d fires", dev.fireCount())
	}
	dev.mu.Lock()
	last := dev.fires[len(dev.fires)-1]
	dev.mu.Unlock()
	if last != LevelMax.Params().Intensity {
		t.Errorf("Deferred fire intensity: got %v, want %v", last, LevelMax.Params().Intensity)
	}
}

func TestDriver_NoneCancelsPending(t *testing.T) {
	dev := &recordingDevice{}
	d := NewDriver(dev)

	d.Emit(LevelMild)
	d.Emit(LevelMax) // deferred
	d.Emit(LevelNone)

	time.Sleep(120 * time.Millisecond)

	if dev.fireCount() != 1 {
		t.Errorf("Pending re-fire survived LevelNone: %d fires", dev.fireCount())
	}
	if dev.stops != 1 {
		t.Errorf("Expected 1 device stop, got %d", dev.stops)
	}
	if d.Last() != LevelNone {
		t.Errorf("Last level: got %v, want none", d.Last())
	}
}

func TestDriver_EmitCenteredness(t *testing.T) {
	dev := &recordingDevice{}
	d := NewDriver(dev)

	if level := d.EmitCenteredness(0.95); level != LevelMax {
		t.Errorf("EmitCenteredness(0.95): got %v, want max", level)
	}
	if dev.fireCount() != 1 {
		t.Errorf("Expected 1 fire, got %d", dev.fireCount())
	}
}
