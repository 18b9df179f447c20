// Package guidance emits periodic natural-language guidance requests to
// the remote assistant while the live-guidance stage is active, backing
// off whenever the assistant is busy.
package guidance

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/assistant"
)

// Config holds the scheduler timing parameters.
type Config struct {
	// SettleDelay is waited once after arming before the first request.
	SettleDelay time.Duration

	// Period is the fixed repeat interval.
	Period time.Duration

	// Grace bounds how long the pending-request latch may stay set
	// after a dispatch, so a stuck reply cannot starve the scheduler.
	Grace time.Duration
}

// DefaultConfig returns the standard guidance cadence.
func DefaultConfig() Config {
	return Config{
		SettleDelay: 500 * time.Millisecond,
		Period:      2 * time.Second,
		Grace:       time.Second,
	}
}

// Scheduler drives the periodic guidance loop. It is armed on entry to
// live guidance and disarmed on exit; a disarm never flushes a final
// request.
type Scheduler struct {
	cfg    Config
	client assistant.Client

	// Active reports whether the live-guidance stage is still current.
	// Ticks re-validate it because the stage may change between firings.
	Active func() bool

	// Target returns the confirmed target name, empty when absent.
	Target func() string

	// Distance returns the latest known distance in meters.
	Distance func() (float64, bool)

	// SensorPresent reports whether the sensor source collaborator is
	// wired.
	SensorPresent func() bool

	// OnDispatch is invoked after each successful dispatch with the
	// running request count. Optional.
	OnDispatch func(count int, prompt string)

	mu    sync.Mutex
	armed bool
	stop  chan struct{}
	count int
	last  time.Time

	now func() time.Time
}

// New creates a scheduler for the given assistant client.
func New(cfg Config, client assistant.Client) *Scheduler {
	return &Scheduler{cfg: cfg, client: client, now: time.Now}
}

// Arm starts the loop: one request after the settle delay, then one per
// period. Arming an armed scheduler is a no-op.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	if s.armed {
		s.mu.Unlock()
		return
	}
	s.armed = true
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	log.Debug("guidance scheduler armed",
		"settle", s.cfg.SettleDelay, "period", s.cfg.Period)

	go s.run(stop)
}

// Disarm stops the loop without flushing a final request.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return
	}
	s.armed = false
	close(s.stop)
	s.stop = nil
}

// Armed reports whether the loop is running.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Count returns the number of requests dispatched since the last Reset.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// LastDispatch returns when the latest request was sent.
func (s *Scheduler) LastDispatch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Reset clears the request counter for a new session.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
	s.last = time.Time{}
}

func (s *Scheduler) run(stop chan struct{}) {
	settle := time.NewTimer(s.cfg.SettleDelay)
	defer settle.Stop()

	select {
	case <-stop:
		return
	case <-settle.C:
		s.Tick()
	}

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one scheduling decision. Exported for tests; production code
// only reaches it through the armed loop.
func (s *Scheduler) Tick() {
	// Stage may have changed since this tick was scheduled.
	if s.Active == nil || !s.Active() {
		return
	}

	// Required collaborators: assistant, confirmed target, sensor.
	if s.client == nil || s.Target == nil || s.Target() == "" ||
		s.SensorPresent == nil || !s.SensorPresent() {
		return
	}

	// Backpressure: no queuing, no catch-up.
	if s.client.IsAssistantSpeaking() || s.client.HasPendingRequest() {
		log.Debug("guidance tick skipped",
			"speaking", s.client.IsAssistantSpeaking(),
			"pending", s.client.HasPendingRequest())
		return
	}

	s.mu.Lock()
	s.count++
	count := s.count
	s.last = s.now()
	s.mu.Unlock()

	prompt := s.buildPrompt(count)

	s.client.SetPendingRequest(true)
	if err := s.client.SendGuidanceText(prompt); err != nil {
		log.Warn("guidance dispatch failed", "count", count, "error", err)
	}

	// Bound worst-case starvation from a stuck reply: clear the latch
	// after the grace period regardless of whether a reply arrived.
	time.AfterFunc(s.cfg.Grace, func() {
		s.client.SetPendingRequest(false)
	})

	if s.OnDispatch != nil {
		s.OnDispatch(count, prompt)
	}
}

func (s *Scheduler) buildPrompt(count int) string {
	distanceText := "unknown"
	if s.Distance != nil {
		if d, ok := s.Distance(); ok {
			distanceText = fmt.Sprintf("%.2fm", d)
		}
	}

	return fmt.Sprintf(
		"[guidance request #%d id=%s time=%s] The user is walking toward "+
			"%q, currently %s away. In one short sentence, tell the user how "+
			"to keep moving toward it.",
		count, uuid.NewString(), s.now().Format(time.RFC3339),
		s.Target(), distanceText)
}
