package nav

import (
	"context"
	"time"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/audiocue"
	"github.com/nabilabs/go-wayfind/pkg/center"
	"github.com/nabilabs/go-wayfind/pkg/matcher"
	"github.com/nabilabs/go-wayfind/pkg/scan"
	"github.com/nabilabs/go-wayfind/pkg/session"
)

// transition atomically moves the session to a new stage and runs the
// stage-entry side effects exactly once. It always executes on the run
// loop, so no transition can start while another entry sequence is active.
func (c *Controller) transition(to session.Stage) {
	from := c.state.Stage
	c.state.Stage = to
	log.Info("stage transition", "from", from.String(), "to", to.String(), "session", c.state.ID)
	c.publish(session.EventStageChanged, from.String()+"->"+to.String(), 0)

	switch to {
	case session.StageScanning:
		c.enterScanning()
	case session.StageLiveGuidance:
		c.enterLiveGuidance()
	case session.StagePureConversation:
		c.enterPureConversation()
	}
}

// enterScanning clears the whole session and starts the welcome/scan
// sequence. Stage 1 uses only speech recognition; the assistant socket is
// kept down.
func (c *Controller) enterScanning() {
	c.stopMonitors()
	c.scheduler.Disarm()
	c.scheduler.Reset()

	if c.deps.Assistant != nil {
		c.deps.Assistant.Disconnect()
	}
	if c.deps.Sensor != nil {
		c.deps.Sensor.StopScanning()
		c.deps.Sensor.StopHapticGuidance()
	}
	if c.deps.Haptics != nil {
		c.deps.Haptics.Stop()
	}

	c.state.ResetForScanning()
	c.acc = scan.NewTimed(c.cfg.ScanDuration)
	c.tracker = center.New(c.cfg.ScanningCenter)

	if c.deps.Sensor == nil || c.deps.Cues == nil {
		c.failSoft("missing sensor or cue collaborator")
		return
	}

	c.deps.Cues.Play(audiocue.Cue{ID: audiocue.CueWelcome}, func() {
		c.post(c.startTimedScan)
	})
}

// startTimedScan kicks off the automatic environment scan after the
// welcome cue finishes.
func (c *Controller) startTimedScan() {
	if c.state.Stage != session.StageScanning || c.state.ScanCompleted {
		return
	}

	if err := c.deps.Sensor.StartScanning(""); err != nil {
		log.Warn("scan start failed", "error", err)
		c.failSoft("sensor refused to scan")
		return
	}
	c.acc.Reset()

	c.scanTimer = time.AfterFunc(c.cfg.ScanDuration, func() {
		c.post(c.completeTimedScan)
	})
}

// completeTimedScan fires once when the automatic scan ends. The
// ScanCompleted latch blocks re-entry until the stage is re-entered.
func (c *Controller) completeTimedScan() {
	if c.state.Stage != session.StageScanning {
		return
	}
	if c.state.ScanCompleted {
		log.Debug("timed scan already completed, ignoring")
		return
	}
	c.state.ScanCompleted = true
	c.state.ScanProgress = 1
	c.publish(session.EventScanProgress, "", 1)

	c.deps.Sensor.StopScanning()
	log.Info("scan complete", "labels", c.acc.Count(), "session", c.state.ID)

	if c.state.RequestedObjectName != "" {
		// The user already spoke during the scan: match immediately.
		c.completeScan()
		return
	}

	// Ask for the target, then listen.
	c.deps.Cues.Play(audiocue.Cue{ID: audiocue.CueAskObject}, func() {
		c.post(func() {
			if c.state.Stage != session.StageScanning {
				return
			}
			if c.deps.Recognizer == nil {
				c.failSoft("no speech recognizer")
				return
			}
			if err := c.deps.Recognizer.Start(); err != nil {
				log.Warn("recognizer start failed", "error", err)
				c.failSoft("speech recognition unavailable")
			}
		})
	})
}

// completeScan resolves the requested name against the scanned labels:
// an exact label match locks the target directly, anything else goes
// through the remote matcher. The MatchingInProgress latch makes the
// remote path single-flight.
func (c *Controller) completeScan() {
	if c.state.Stage != session.StageScanning {
		return
	}
	if c.state.ConfirmedObjectName != "" {
		return
	}

	requested := c.state.RequestedObjectName
	if requested == "" {
		return
	}

	if c.acc.Contains(requested) {
		c.lockTarget(requested)
		return
	}

	if c.state.MatchingInProgress {
		log.Debug("match already in progress, ignoring", "requested", requested)
		return
	}
	if c.deps.Matcher == nil {
		c.failSoft("no object matcher")
		return
	}

	c.state.MatchingInProgress = true
	c.deps.Matcher.Match(context.Background(), requested, c.acc.Labels(), func(result string, found bool) {
		c.post(func() { c.handleMatchResult(result, found) })
	})
}

// handleMatchResult clears the matching latch and either locks the target
// or fails soft. A stale result arriving after a stage change is dropped.
func (c *Controller) handleMatchResult(result string, found bool) {
	c.state.MatchingInProgress = false

	if c.state.Stage != session.StageScanning {
		log.Debug("stale match result discarded", "result", result)
		return
	}

	if !found || result == matcher.NotFound {
		c.failSoft("no matching object: " + c.state.RequestedObjectName)
		return
	}
	c.lockTarget(result)
}

// lockTarget confirms the target, starts haptic guidance toward it, and
// begins watching for the center-hold condition that moves the session to
// live guidance.
func (c *Controller) lockTarget(name string) {
	c.state.ConfirmedObjectName = name
	c.publish(session.EventTargetConfirmed, name, 0)
	log.Info("target locked", "object", name, "session", c.state.ID)

	if err := c.deps.Sensor.StartHapticGuidance(name); err != nil {
		log.Warn("haptic guidance start failed", "error", err)
		c.failSoft("sensor cannot guide")
		return
	}

	// monitorTargetReached: poll until the tracker reports the target
	// centered, then hand over to live guidance. Exactly once per
	// qualifying crossing; re-crossings after the transition are ignored
	// because the monitor dies with the stage.
	c.stopTargetMonitor = c.startMonitor(c.cfg.MonitorInterval, func() {
		if c.state.Stage != session.StageScanning || c.state.ConfirmedObjectName == "" {
			return
		}
		st := c.tracker.State()
		if st.Active && st.Held {
			c.transition(session.StageLiveGuidance)
		}
	})
}

// enterLiveGuidance keeps haptic guidance running, announces the locked
// target, then brings up the assistant and the periodic guidance loop.
func (c *Controller) enterLiveGuidance() {
	c.stopMonitors()

	if c.deps.Recognizer != nil {
		c.deps.Recognizer.Stop()
	}

	// Haptic guidance keeps running across this entry.
	c.tracker = center.New(c.cfg.GuidanceCenter)

	distance := 0.0
	if c.state.HasDistance {
		distance = c.state.LastDistance
	}

	if c.deps.Cues == nil {
		c.connectAssistantAndArm()
		return
	}
	c.deps.Cues.Play(audiocue.Cue{ID: audiocue.CueTargetLocked, Distance: distance}, func() {
		c.post(c.connectAssistantAndArm)
	})
}

// connectAssistantAndArm connects the realtime assistant and, after the
// start delay, arms the scheduler and the stage-3 handoff monitor.
func (c *Controller) connectAssistantAndArm() {
	if c.state.Stage != session.StageLiveGuidance {
		return
	}
	if c.deps.Assistant == nil {
		c.failSoft("no assistant client")
		return
	}
	if err := c.deps.Assistant.Connect(); err != nil {
		log.Warn("assistant connect failed", "error", err)
		c.failSoft("assistant unreachable")
		return
	}

	c.guidanceStartTimer = time.AfterFunc(c.cfg.GuidanceStartDelay, func() {
		c.post(func() {
			if c.state.Stage != session.StageLiveGuidance {
				return
			}
			c.scheduler.Arm()

			// monitorDistanceForStage3Transition: hand off to pure
			// conversation once the user is close and centered.
			c.stopHandoffMonitor = c.startMonitor(c.cfg.MonitorInterval, func() {
				if c.state.Stage != session.StageLiveGuidance {
					return
				}
				if c.tracker.State().TargetReached {
					c.transition(session.StagePureConversation)
				}
			})
		})
	})
}

// enterPureConversation ends tracking: haptics stop unconditionally, the
// target is cleared, and the assistant keeps listening while its current
// speech output is cut.
func (c *Controller) enterPureConversation() {
	c.stopMonitors()
	c.scheduler.Disarm()

	if c.deps.Haptics != nil {
		c.deps.Haptics.Stop()
	}
	if c.deps.Sensor != nil {
		c.deps.Sensor.StopHapticGuidance()
		c.deps.Sensor.StopScanning()
	}

	c.state.ConfirmedObjectName = ""

	if c.deps.Assistant != nil {
		// Cut the assistant's outgoing audio but keep the user's voice
		// recording flowing; input must still reach the assistant.
		c.deps.Assistant.StopOutgoingAudio()
		c.deps.Assistant.ResetSpeakingState()
		if err := c.deps.Assistant.StartRecording(); err != nil {
			log.Warn("start recording failed", "error", err)
		}
	}

	if c.deps.Cues != nil {
		c.deps.Cues.Stop()
		distance := 0.0
		if c.state.HasDistance {
			distance = c.state.LastDistance
		}
		c.deps.Cues.Play(audiocue.Cue{ID: audiocue.CueReached, Distance: distance}, nil)
	}
}

// failSoft is the error rule for every guarded flow: play the not-found
// cue and degrade to pure conversation. Nothing in the core is fatal.
func (c *Controller) failSoft(reason string) {
	log.Warn("guided flow failed", "reason", reason, "stage", c.state.Stage.String())
	c.publish(session.EventTargetNotFound, reason, 0)

	if c.deps.Cues != nil {
		c.deps.Cues.Play(audiocue.Cue{ID: audiocue.CueNotFound}, nil)
	}

	if c.state.Stage != session.StagePureConversation {
		// Deferred so the failing entry sequence finishes before the
		// next transition starts.
		c.post(func() {
			if c.state.Stage != session.StagePureConversation {
				c.transition(session.StagePureConversation)
			}
		})
	}
}
