package wayfind

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/audiocue"
)

// consoleHaptics is a haptics.Device that logs transients instead of
// vibrating. Used in demo mode and when no actuator is attached.
type consoleHaptics struct{}

func (consoleHaptics) Fire(intensity, sharpness float64) error {
	log.Debug("haptic fire", "intensity", intensity, "sharpness", sharpness)
	return nil
}

func (consoleHaptics) Stop() error {
	log.Debug("haptic stop")
	return nil
}

// consoleCues is an audiocue.Player that logs cues and completes them
// after a short simulated playback delay.
type consoleCues struct {
	mu      sync.Mutex
	pending []*time.Timer
}

const cuePlaybackDelay = 400 * time.Millisecond

func (p *consoleCues) Play(cue audiocue.Cue, onComplete func()) {
	log.Info("audio cue", "id", string(cue.ID), "distance", cue.Distance)
	if onComplete == nil {
		return
	}
	t := time.AfterFunc(cuePlaybackDelay, onComplete)
	p.mu.Lock()
	p.pending = append(p.pending, t)
	p.mu.Unlock()
}

func (p *consoleCues) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.pending {
		t.Stop()
	}
	p.pending = nil
}

// terminalRecognizer is a speech.Recognizer that reads object names from
// stdin, one per line. Lines typed while the recognizer is stopped are
// discarded.
type terminalRecognizer struct {
	mu     sync.Mutex
	active bool
	fn     func(name, utterance string)
	once   sync.Once
}

func (r *terminalRecognizer) Start() error {
	r.mu.Lock()
	r.active = true
	r.mu.Unlock()
	r.once.Do(func() { go r.readLoop() })
	return nil
}

func (r *terminalRecognizer) Stop() error {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
	return nil
}

func (r *terminalRecognizer) OnObjectName(fn func(name, utterance string)) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

func (r *terminalRecognizer) readLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.mu.Lock()
		active, fn := r.active, r.fn
		r.mu.Unlock()
		if active && fn != nil {
			fn(line, line)
		}
	}
}
