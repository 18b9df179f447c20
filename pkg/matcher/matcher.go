// Package matcher resolves a user-spoken object name against the set of
// scanned labels through a single remote lookup, guarded by a single-flight
// latch so duplicate concurrent calls never stack up.
package matcher

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/nabilabs/go-wayfind/internal/log"
)

// NotFound is the result delivered when no candidate matches, when the
// candidate set is empty, or when the remote lookup fails.
const NotFound = "not found"

// ErrNoResolver is returned when Match is called without a resolver wired.
var ErrNoResolver = errors.New("matcher: no resolver configured")

// Resolver performs the remote fuzzy lookup. It returns the matched
// candidate exactly as it appears in candidates, or an error when nothing
// matches.
type Resolver interface {
	Resolve(ctx context.Context, requested string, candidates []string) (string, error)
}

// Callback receives the match outcome. found is false when the result is
// NotFound. The in-flight latch is released before the callback runs, so a
// fresh Match may be issued from inside it.
type Callback func(result string, found bool)

// Matcher is the single-flight wrapper around a Resolver.
type Matcher struct {
	resolver Resolver
	inflight *semaphore.Weighted
}

// New creates a matcher around the given resolver.
func New(resolver Resolver) *Matcher {
	return &Matcher{
		resolver: resolver,
		inflight: semaphore.NewWeighted(1),
	}
}

// Match resolves requested against candidates and delivers the outcome to
// cb exactly once. A second call while a previous call's callback has not
// fired is a silent no-op: it does not re-enter and does not queue.
// An empty candidate set fails immediately as NotFound without contacting
// the remote resolver.
func (m *Matcher) Match(ctx context.Context, requested string, candidates []string, cb Callback) {
	if !m.inflight.TryAcquire(1) {
		log.Debug("match already in flight, ignoring", "requested", requested)
		return
	}

	if len(candidates) == 0 {
		m.inflight.Release(1)
		cb(NotFound, false)
		return
	}

	if m.resolver == nil {
		m.inflight.Release(1)
		log.Warn("match failed", "requested", requested, "error", ErrNoResolver)
		cb(NotFound, false)
		return
	}

	go func() {
		result, err := m.resolver.Resolve(ctx, requested, candidates)

		// Release before the callback fires so a fresh Match can be
		// issued from inside it.
		m.inflight.Release(1)

		if err != nil || result == "" {
			if err != nil {
				log.Warn("remote match failed", "requested", requested, "error", err)
			}
			cb(NotFound, false)
			return
		}
		cb(result, true)
	}()
}

// InFlight reports whether a match is currently in progress.
func (m *Matcher) InFlight() bool {
	if m.inflight.TryAcquire(1) {
		m.inflight.Release(1)
		return false
	}
	return true
}
