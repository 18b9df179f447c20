package center

import (
	"testing"
	"time"
)

func TestTracker_EdgeTriggeredActive(t *testing.T) {
	tr := New(ScanningConfig())

	// 0.2, 0.5, 0.86, 0.4: active rises at sample 3, falls at sample 4.
	seq := []struct {
		centeredness float64
		wantActive   bool
	}{
		{0.2, false},
		{0.5, false},
		{0.86, true},
		{0.4, false},
	}

	for i, s := range seq {
		st := tr.Update(s.centeredness, 0, false)
		if st.Active != s.wantActive {
			t.Errorf("Sample %d (%.2f): active=%v, want %v", i+1, s.centeredness, st.Active, s.wantActive)
		}
	}

	// Falling edge must also reset progress.
	if tr.State().Progress != 0 {
		t.Errorf("Progress after falling edge: got %v, want 0", tr.State().Progress)
	}
}

func TestTracker_TargetReachedNeedsDistance(t *testing.T) {
	tr := New(ScanningConfig())

	st := tr.Update(0.95, 0, false)
	if st.TargetReached {
		t.Error("TargetReached without known distance")
	}

	st = tr.Update(0.95, 1.2, true)
	if st.TargetReached {
		t.Error("TargetReached at 1.2m with 0.5m threshold")
	}

	st = tr.Update(0.95, 0.3, true)
	if !st.TargetReached {
		t.Error("Expected TargetReached at 0.95 centeredness, 0.3m")
	}
}

func TestTracker_ThresholdIsExclusive(t *testing.T) {
	tr := New(ScanningConfig())

	// Exactly at the threshold does not count as centered.
	st := tr.Update(0.85, 0, false)
	if st.Active {
		t.Error("Active at exactly the enter threshold")
	}
}

func TestTracker_HoldDuration(t *testing.T) {
	cfg := ScanningConfig()
	cfg.HoldDuration = time.Second
	tr := New(cfg)

	fake := time.Now()
	tr.now = func() time.Time { return fake }

	st := tr.Update(0.9, 0, false)
	if !st.Active {
		t.Fatal("Expected active on rising edge")
	}
	if st.Held {
		t.Error("Held immediately despite 1s hold requirement")
	}

	fake = fake.Add(500 * time.Millisecond)
	st = tr.Update(0.9, 0, false)
	if st.Held {
		t.Error("Held at 500ms of a 1s hold")
	}
	if st.Progress < 0.49 || st.Progress > 0.51 {
		t.Errorf("Hold progress: got %v, want ~0.5", st.Progress)
	}

	fake = fake.Add(600 * time.Millisecond)
	st = tr.Update(0.9, 0, false)
	if !st.Held {
		t.Error("Expected Held after full hold duration")
	}

	// Dropping below the threshold restarts the hold.
	tr.Update(0.1, 0, false)
	st = tr.Update(0.9, 0, false)
	if st.Held {
		t.Error("Held survived a falling edge")
	}
}

func TestTracker_GuidanceConfigHandoff(t *testing.T) {
	tr := New(GuidanceConfig())

	// Stage-3 handoff condition: centeredness > 0.8 and distance < 0.7m.
	st := tr.Update(0.81, 0.65, true)
	if !st.TargetReached {
		t.Error("Expected handoff condition at 0.81 centeredness, 0.65m")
	}

	st = tr.Update(0.81, 0.75, true)
	if st.TargetReached {
		t.Error("Handoff at 0.75m with 0.7m threshold")
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := New(ScanningConfig())
	tr.Update(0.95, 0.2, true)

	tr.Reset()

	st := tr.State()
	if st.Active || st.TargetReached || st.Progress != 0 {
		t.Errorf("State after reset: %+v, want zero value", st)
	}
}
