package nav

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nabilabs/go-wayfind/pkg/assistant"
	"github.com/nabilabs/go-wayfind/pkg/audiocue"
	"github.com/nabilabs/go-wayfind/pkg/guidance"
	"github.com/nabilabs/go-wayfind/pkg/haptics"
	"github.com/nabilabs/go-wayfind/pkg/matcher"
	"github.com/nabilabs/go-wayfind/pkg/sensor"
	"github.com/nabilabs/go-wayfind/pkg/session"
	"github.com/nabilabs/go-wayfind/pkg/speech"
)

// nullDevice is a no-op haptic device.
type nullDevice struct{}

func (nullDevice) Fire(intensity, sharpness float64) error { return nil }
func (nullDevice) Stop() error                             { return nil }

type fixture struct {
	ctrl       *Controller
	sensor     *sensor.Mock
	cues       *audiocue.Mock
	recognizer *speech.Mock
	assistant  *assistant.Mock
	resolver   *matcher.MockResolver
	cancel     context.CancelFunc
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ScanDuration = 60 * time.Millisecond
	cfg.MonitorInterval = 10 * time.Millisecond
	cfg.GuidanceStartDelay = 10 * time.Millisecond
	cfg.Guidance = guidance.Config{
		SettleDelay: 10 * time.Millisecond,
		Period:      30 * time.Millisecond,
		Grace:       20 * time.Millisecond,
	}
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		sensor:     sensor.NewMock(),
		cues:       audiocue.NewMock(),
		recognizer: speech.NewMock(),
		assistant:  assistant.NewMock(),
		resolver:   &matcher.MockResolver{Result: "table"},
	}

	f.ctrl = New(testConfig(), Deps{
		Sensor:     f.sensor,
		Cues:       f.cues,
		Recognizer: f.recognizer,
		Assistant:  f.assistant,
		Matcher:    matcher.New(f.resolver),
		Haptics:    haptics.NewDriver(nullDevice{}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go f.ctrl.Run(ctx)
	t.Cleanup(cancel)

	return f
}

func waitFor(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

func (f *fixture) waitStage(t *testing.T, stage session.Stage) {
	t.Helper()
	waitFor(t, "stage "+stage.String(), func() bool {
		return f.ctrl.Snapshot().Stage == stage
	})
}

func playedCue(cues *audiocue.Mock, id audiocue.ID) bool {
	for _, c := range cues.PlayedIDs() {
		if c == id {
			return true
		}
	}
	return false
}

func TestController_ScanStartsAfterWelcome(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "welcome cue", func() bool { return playedCue(f.cues, audiocue.CueWelcome) })
	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
}

func TestController_FullSession(t *testing.T) {
	f := newFixture(t)

	// Wait for the free scan to start, feed frames with labels.
	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{
		Centeredness: 0.3,
		Labels:       []string{"chair", "table", "bed"},
	})

	// Scan completes, user is prompted, recognition starts.
	waitFor(t, "ask-object cue", func() bool { return playedCue(f.cues, audiocue.CueAskObject) })
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })

	// User asks for the target in Korean; the remote matcher maps it.
	f.recognizer.Recognize("책상", "책상 어디 있어?")

	waitFor(t, "confirmed target", func() bool {
		return f.ctrl.Snapshot().Confirmed == "table"
	})
	if got := f.sensor.LastHapticTarget(); got != "table" {
		t.Errorf("Haptic guidance target: got %q, want table", got)
	}
	if f.resolver.CallCount() != 1 {
		t.Errorf("Expected 1 remote match, got %d", f.resolver.CallCount())
	}

	// User centers the target: Scanning -> LiveGuidance.
	waitFor(t, "live guidance", func() bool {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.9, Distance: 2.0, HasDistance: true})
		return f.ctrl.Snapshot().Stage == session.StageLiveGuidance
	})

	if !playedCue(f.cues, audiocue.CueTargetLocked) {
		t.Error("Target-locked cue not played")
	}
	waitFor(t, "assistant connect", func() bool { return f.assistant.IsConnected() })
	waitFor(t, "guidance prompt", func() bool { return f.assistant.PromptCount() > 0 })

	// User walks up close: LiveGuidance -> PureConversation.
	waitFor(t, "pure conversation", func() bool {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.85, Distance: 0.4, HasDistance: true})
		return f.ctrl.Snapshot().Stage == session.StagePureConversation
	})

	snap := f.ctrl.Snapshot()
	if snap.Confirmed != "" {
		t.Errorf("Confirmed target not cleared: %q", snap.Confirmed)
	}
	waitFor(t, "recording kept alive", func() bool { return f.assistant.RecordStartCount() > 0 })
	if f.assistant.AudioStopCount() == 0 {
		t.Error("Assistant outgoing audio not stopped")
	}
	if f.assistant.SpeakingResetCount() == 0 {
		t.Error("Assistant speaking state not reset")
	}
	if !playedCue(f.cues, audiocue.CueReached) {
		t.Error("Reached cue not played")
	}
	waitFor(t, "haptics stopped", func() bool { return f.sensor.StopHapticCount() > 0 })
}

func TestController_DirectLabelMatchSkipsRemote(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair", "lamp"}})

	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("chair", "find the chair")

	waitFor(t, "confirmed target", func() bool {
		return f.ctrl.Snapshot().Confirmed == "chair"
	})
	if f.resolver.CallCount() != 0 {
		t.Errorf("Remote matcher used for an exact label: %d calls", f.resolver.CallCount())
	}
}

func TestController_RequestDuringScanMatchesAfterCompletion(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"table"}})

	// The user speaks before the timed scan ends.
	f.ctrl.RequestObject("책상")

	// No ask-object prompt should be needed; matching runs right after
	// the timed scan completes.
	waitFor(t, "confirmed target", func() bool {
		return f.ctrl.Snapshot().Confirmed == "table"
	})
	if playedCue(f.cues, audiocue.CueAskObject) {
		t.Error("Ask-object cue played although the user already spoke")
	}
}

func TestController_NoMatchFailsSoftToConversation(t *testing.T) {
	f := newFixture(t)
	f.resolver.Result = ""

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair"}})

	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("piano", "where is the piano")

	f.waitStage(t, session.StagePureConversation)
	if !playedCue(f.cues, audiocue.CueNotFound) {
		t.Error("Not-found cue not played")
	}
}

func TestController_EmptyScanFailsSoftWithoutRemoteCall(t *testing.T) {
	f := newFixture(t)

	// No frames at all: the label set stays empty.
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("desk", "find my desk")

	f.waitStage(t, session.StagePureConversation)
	if f.resolver.CallCount() != 0 {
		t.Errorf("Remote matcher contacted with empty candidates: %d calls", f.resolver.CallCount())
	}
}

func TestController_MalformedSampleClearsTracking(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })

	f.sensor.Emit(session.DetectionSample{Centeredness: 0.9})
	waitFor(t, "center active", func() bool { return f.ctrl.Snapshot().CenterActive })

	f.sensor.Emit(session.DetectionSample{Centeredness: math.NaN()})
	waitFor(t, "center cleared", func() bool { return !f.ctrl.Snapshot().CenterActive })
}

func TestController_ResetReturnsToScanning(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair"}})
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("chair", "chair")
	waitFor(t, "confirmed", func() bool { return f.ctrl.Snapshot().Confirmed == "chair" })

	f.ctrl.Reset()

	waitFor(t, "reset to scanning", func() bool {
		s := f.ctrl.Snapshot()
		return s.Stage == session.StageScanning && s.Confirmed == "" && s.Requested == ""
	})
	waitFor(t, "assistant disconnected", func() bool { return f.assistant.DisconnectCount() > 0 })
	if labels := f.ctrl.Snapshot().Labels; len(labels) != 0 {
		t.Errorf("Scanned labels survived reset: %v", labels)
	}
}

func TestController_TransitionFiresOncePerCrossing(t *testing.T) {
	f := newFixture(t)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair"}})
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("chair", "chair")
	waitFor(t, "confirmed", func() bool { return f.ctrl.Snapshot().Confirmed == "chair" })

	waitFor(t, "live guidance", func() bool {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.95, Distance: 3.0, HasDistance: true})
		return f.ctrl.Snapshot().Stage == session.StageLiveGuidance
	})

	// Re-crossings while far away must not move the stage anywhere.
	for i := 0; i < 5; i++ {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.2, Distance: 3.0, HasDistance: true})
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.95, Distance: 3.0, HasDistance: true})
	}
	time.Sleep(100 * time.Millisecond)

	if got := f.ctrl.Snapshot().Stage; got != session.StageLiveGuidance {
		t.Errorf("Stage after re-crossings: got %v, want live guidance", got)
	}
}

func TestController_MissingAssistantFailsSoft(t *testing.T) {
	f := &fixture{
		sensor:     sensor.NewMock(),
		cues:       audiocue.NewMock(),
		recognizer: speech.NewMock(),
		resolver:   &matcher.MockResolver{Result: "chair"},
	}
	f.ctrl = New(testConfig(), Deps{
		Sensor:     f.sensor,
		Cues:       f.cues,
		Recognizer: f.recognizer,
		Matcher:    matcher.New(f.resolver),
		Haptics:    haptics.NewDriver(nullDevice{}),
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go f.ctrl.Run(ctx)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair"}})
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("chair", "chair")
	waitFor(t, "confirmed", func() bool { return f.ctrl.Snapshot().Confirmed == "chair" })

	// Center the target; the live-guidance entry needs the assistant and
	// must degrade instead of crashing.
	waitFor(t, "pure conversation", func() bool {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.95, Distance: 2.0, HasDistance: true})
		return f.ctrl.Snapshot().Stage == session.StagePureConversation
	})
	if !playedCue(f.cues, audiocue.CueNotFound) {
		t.Error("Not-found cue not played on missing assistant")
	}
}

func TestController_GuidanceBackpressure(t *testing.T) {
	f := newFixture(t)
	f.assistant.SetSpeaking(true)

	waitFor(t, "scan start", func() bool { return f.sensor.ScanStartCount() > 0 })
	f.sensor.Emit(session.DetectionSample{Labels: []string{"chair"}})
	waitFor(t, "recognition", func() bool { return f.recognizer.Running() })
	f.recognizer.Recognize("chair", "chair")
	waitFor(t, "confirmed", func() bool { return f.ctrl.Snapshot().Confirmed == "chair" })

	waitFor(t, "live guidance", func() bool {
		f.sensor.Emit(session.DetectionSample{Centeredness: 0.95, Distance: 3.0, HasDistance: true})
		return f.ctrl.Snapshot().Stage == session.StageLiveGuidance
	})

	// With the assistant stuck speaking, several periods pass without a
	// single dispatched prompt.
	time.Sleep(200 * time.Millisecond)
	if n := f.assistant.PromptCount(); n != 0 {
		t.Errorf("Prompts dispatched while assistant speaking: %d", n)
	}

	f.assistant.SetSpeaking(false)
	waitFor(t, "guidance resumes", func() bool { return f.assistant.PromptCount() > 0 })
}
