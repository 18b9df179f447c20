package nav

import (
	"context"
	"sync"
	"time"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/assistant"
	"github.com/nabilabs/go-wayfind/pkg/audiocue"
	"github.com/nabilabs/go-wayfind/pkg/center"
	"github.com/nabilabs/go-wayfind/pkg/guidance"
	"github.com/nabilabs/go-wayfind/pkg/haptics"
	"github.com/nabilabs/go-wayfind/pkg/matcher"
	"github.com/nabilabs/go-wayfind/pkg/scan"
	"github.com/nabilabs/go-wayfind/pkg/sensor"
	"github.com/nabilabs/go-wayfind/pkg/session"
	"github.com/nabilabs/go-wayfind/pkg/speech"
)

// Deps are the external collaborators, injected at construction. The
// composition root owns their lifetimes; the controller only calls them.
// Any collaborator may be nil - guarded flows that need a missing one fail
// soft to pure conversation instead of crashing.
type Deps struct {
	Sensor     sensor.Source
	Cues       audiocue.Player
	Recognizer speech.Recognizer
	Assistant  assistant.Client
	Matcher    *matcher.Matcher
	Haptics    *haptics.Driver
}

// Controller drives the three-stage navigation session. All session state
// lives on a single run loop: sensor samples, recognition results, cue
// completions, match callbacks and monitor ticks are posted onto the loop,
// so no mutation ever races. Work handed to collaborators is fire-and-
// forget; results come back as posted callbacks that re-validate stage and
// flag state before acting.
type Controller struct {
	cfg  Config
	deps Deps

	state  *session.State
	events *session.Events

	acc       *scan.Accumulator
	tracker   *center.Tracker
	scheduler *guidance.Scheduler

	calls chan func()

	// Monitor handles, owned by the loop.
	scanTimer          *time.Timer
	guidanceStartTimer *time.Timer
	stopTargetMonitor  func()
	stopHandoffMonitor func()

	// Read-side mirror of the session for observers outside the loop
	// (scheduler predicates, dashboard).
	snapMu sync.RWMutex
	snap   Snapshot
}

// Snapshot is a read-only copy of the observable session state.
type Snapshot struct {
	SessionID     string         `json:"session_id"`
	Stage         session.Stage  `json:"-"`
	StageName     string         `json:"stage"`
	Requested     string         `json:"requested_object"`
	Confirmed     string         `json:"confirmed_object"`
	ScanProgress  float64        `json:"scan_progress"`
	Labels        []string       `json:"scanned_labels"`
	LastDistance  float64        `json:"last_distance"`
	HasDistance   bool           `json:"has_distance"`
	GuidanceCount int            `json:"guidance_count"`
	HapticLevel   haptics.Level  `json:"-"`
	Haptic        string         `json:"haptic_level"`
	CenterActive  bool           `json:"center_active"`
}

// New creates a controller with the given collaborators.
func New(cfg Config, deps Deps) *Controller {
	c := &Controller{
		cfg:     cfg,
		deps:    deps,
		state:   session.NewState(),
		events:  session.NewEvents(),
		acc:     scan.NewTimed(cfg.ScanDuration),
		tracker: center.New(cfg.ScanningCenter),
		calls:   make(chan func(), 256),
	}

	c.scheduler = guidance.New(cfg.Guidance, deps.Assistant)
	c.scheduler.Active = func() bool { return c.Snapshot().Stage == session.StageLiveGuidance }
	c.scheduler.Target = func() string { return c.Snapshot().Confirmed }
	c.scheduler.Distance = func() (float64, bool) {
		s := c.Snapshot()
		return s.LastDistance, s.HasDistance
	}
	c.scheduler.SensorPresent = func() bool { return deps.Sensor != nil }
	c.scheduler.OnDispatch = func(count int, prompt string) {
		c.post(func() {
			c.state.GuidanceRequestCount = count
			c.state.LastGuidanceTime = time.Now()
			c.publish(session.EventGuidanceSent, "", float64(count))
		})
	}

	return c
}

// Events returns the session event fan-out for observers. Subscribe before
// calling Run.
func (c *Controller) Events() *session.Events {
	return c.events
}

// Snapshot returns the current observable session state.
func (c *Controller) Snapshot() Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// Run wires collaborator callbacks, enters the Scanning stage, and blocks
// processing posted work until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	if c.deps.Sensor != nil {
		c.deps.Sensor.OnSample(func(s session.DetectionSample) {
			c.post(func() { c.handleSample(s) })
		})
		c.deps.Sensor.OnTargetFound(func(label string) {
			c.post(func() { c.handleTargetFound(label) })
		})
	}
	if c.deps.Recognizer != nil {
		c.deps.Recognizer.OnObjectName(func(name, utterance string) {
			c.post(func() { c.handleObjectName(name, utterance) })
		})
	}

	c.post(func() { c.transition(session.StageScanning) })

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case fn := <-c.calls:
			fn()
			c.syncSnapshot()
		}
	}
}

// Reset returns the session to the Scanning stage from any state.
func (c *Controller) Reset() {
	c.post(func() {
		c.publish(session.EventSessionReset, "", 0)
		c.transition(session.StageScanning)
	})
}

// RequestObject injects a spoken object request, as the recognition
// callback would.
func (c *Controller) RequestObject(name string) {
	c.post(func() { c.handleObjectName(name, name) })
}

// post schedules fn onto the run loop. If the loop is saturated the call
// is dropped; sensor frames are lossy by nature and every guarded flow
// re-validates state, so dropping is safe.
func (c *Controller) post(fn func()) {
	select {
	case c.calls <- fn:
	default:
		log.Warn("controller loop saturated, dropping call")
	}
}

// handleSample consumes one frame. Malformed samples clear tracked state
// to neutral and are otherwise ignored.
func (c *Controller) handleSample(raw session.DetectionSample) {
	s, ok := raw.Sanitize()
	if !ok {
		c.tracker.Reset()
		return
	}

	if s.HasDistance {
		c.state.LastDistance = s.Distance
		c.state.HasDistance = true
	}

	switch c.state.Stage {
	case session.StageScanning:
		if len(s.Labels) > 0 {
			c.acc.Observe(s.Labels)
			for _, l := range c.acc.Labels() {
				c.state.ScannedLabels[l] = struct{}{}
			}
		}
		if p := c.acc.Progress(); p > c.state.ScanProgress && !c.state.ScanCompleted {
			c.state.ScanProgress = p
			c.publish(session.EventScanProgress, "", p)
		}
		c.tracker.Update(s.Centeredness, s.Distance, s.HasDistance)
		if c.state.ConfirmedObjectName != "" {
			c.emitHaptic(s.Centeredness)
		}

	case session.StageLiveGuidance:
		c.tracker.Update(s.Centeredness, s.Distance, s.HasDistance)
		c.emitHaptic(s.Centeredness)

	case session.StagePureConversation:
		// Tracking is over; frames are ignored.
	}
}

func (c *Controller) emitHaptic(centeredness float64) {
	if c.deps.Haptics == nil {
		return
	}
	level := c.deps.Haptics.EmitCenteredness(centeredness)
	c.publish(session.EventHapticLevel, level.String(), centeredness)
}

// handleObjectName records the user's spoken target and, when the scan has
// already finished, kicks off matching immediately.
func (c *Controller) handleObjectName(name, utterance string) {
	if c.state.Stage != session.StageScanning || name == "" {
		return
	}

	log.Info("object requested", "name", name, "utterance", utterance)
	c.state.RequestedObjectName = name
	c.publish(session.EventTargetRequested, name, 0)

	if c.deps.Recognizer != nil {
		c.deps.Recognizer.Stop()
	}

	if c.state.ScanCompleted {
		c.completeScan()
	}
	// Otherwise the running timed scan finishes first and completeTimedScan
	// proceeds straight to matching.
}

// handleTargetFound reacts to the sensor seeing the exact requested label
// during a directed scan.
func (c *Controller) handleTargetFound(label string) {
	if c.state.Stage != session.StageScanning {
		return
	}
	if c.state.ConfirmedObjectName != "" || c.state.MatchingInProgress {
		return
	}
	if label == "" || label != c.state.RequestedObjectName {
		return
	}
	c.lockTarget(label)
}

func (c *Controller) publish(t session.EventType, detail string, value float64) {
	c.events.Publish(session.Event{
		Type:    t,
		Stage:   c.state.Stage.String(),
		Detail:  detail,
		Value:   value,
		Session: c.state.ID,
	})
}

func (c *Controller) syncSnapshot() {
	level := haptics.LevelNone
	if c.deps.Haptics != nil {
		level = c.deps.Haptics.Last()
	}
	snap := Snapshot{
		SessionID:     c.state.ID,
		Stage:         c.state.Stage,
		StageName:     c.state.Stage.String(),
		Requested:     c.state.RequestedObjectName,
		Confirmed:     c.state.ConfirmedObjectName,
		ScanProgress:  c.state.ScanProgress,
		Labels:        c.state.Labels(),
		LastDistance:  c.state.LastDistance,
		HasDistance:   c.state.HasDistance,
		GuidanceCount: c.state.GuidanceRequestCount,
		HapticLevel:   level,
		Haptic:        level.String(),
		CenterActive:  c.tracker.State().Active,
	}

	c.snapMu.Lock()
	c.snap = snap
	c.snapMu.Unlock()
}

func (c *Controller) shutdown() {
	c.stopMonitors()
	c.scheduler.Disarm()
	if c.deps.Haptics != nil {
		c.deps.Haptics.Stop()
	}
	if c.deps.Sensor != nil {
		c.deps.Sensor.StopScanning()
		c.deps.Sensor.StopHapticGuidance()
	}
	if c.deps.Assistant != nil {
		c.deps.Assistant.Disconnect()
	}
	log.Info("navigation controller stopped", "session", c.state.ID)
}
