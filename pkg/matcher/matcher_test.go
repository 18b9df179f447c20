package matcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMatcher_EmptyCandidatesNoRemoteCall(t *testing.T) {
	resolver := &MockResolver{Result: "table"}
	m := New(resolver)

	var result string
	var found bool
	m.Match(context.Background(), "desk", nil, func(r string, ok bool) {
		result, found = r, ok
	})

	// Empty candidates resolve synchronously.
	if result != NotFound || found {
		t.Errorf("Empty candidates: got (%q, %v), want (%q, false)", result, found, NotFound)
	}
	if resolver.CallCount() != 0 {
		t.Errorf("Remote resolver called %d times for empty candidates", resolver.CallCount())
	}
}

func TestMatcher_SingleFlight(t *testing.T) {
	resolver := &MockResolver{
		Result: "table",
		Block:  make(chan struct{}),
	}
	m := New(resolver)

	var callbacks atomic.Int32
	cb := func(string, bool) { callbacks.Add(1) }

	candidates := []string{"chair", "table", "bed"}
	m.Match(context.Background(), "desk", candidates, cb)
	m.Match(context.Background(), "desk", candidates, cb) // duplicate: no-op

	close(resolver.Block)

	deadline := time.After(time.Second)
	for callbacks.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Callback never fired")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	// Give a stray duplicate callback a chance to appear.
	time.Sleep(50 * time.Millisecond)

	if resolver.CallCount() != 1 {
		t.Errorf("Expected exactly 1 remote call, got %d", resolver.CallCount())
	}
	if callbacks.Load() != 1 {
		t.Errorf("Expected exactly 1 callback, got %d", callbacks.Load())
	}
}

func TestMatcher_LatchReleasedOnSuccess(t *testing.T) {
	resolver := &MockResolver{Result: "table"}
	m := New(resolver)

	done := make(chan string, 1)
	m.Match(context.Background(), "책상", []string{"chair", "table", "bed"}, func(r string, ok bool) {
		if !ok {
			t.Errorf("Expected a match, got %q", r)
		}
		done <- r
	})

	select {
	case r := <-done:
		if r != "table" {
			t.Errorf("Match result: got %q, want table", r)
		}
	case <-time.After(time.Second):
		t.Fatal("Callback never fired")
	}

	if m.InFlight() {
		t.Error("Latch still held after callback")
	}

	// A fresh call goes through.
	done2 := make(chan struct{}, 1)
	m.Match(context.Background(), "lamp", []string{"lamp"}, func(string, bool) {
		done2 <- struct{}{}
	})
	select {
	case <-done2:
	case <-time.After(time.Second):
		t.Fatal("Second match never completed")
	}
	if resolver.CallCount() != 2 {
		t.Errorf("Expected 2 remote calls, got %d", resolver.CallCount())
	}
}

func TestMatcher_FailureResolvesNotFound(t *testing.T) {
	resolver := &MockResolver{Err: errors.New("transport down")}
	m := New(resolver)

	done := make(chan struct{}, 1)
	m.Match(context.Background(), "desk", []string{"chair"}, func(r string, ok bool) {
		if ok || r != NotFound {
			t.Errorf("Transport failure: got (%q, %v), want (%q, false)", r, ok, NotFound)
		}
		done <- struct{}{}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Callback never fired")
	}

	if m.InFlight() {
		t.Error("Latch still held after failure")
	}
}

func TestMatcher_NilResolver(t *testing.T) {
	m := New(nil)

	var result string
	m.Match(context.Background(), "desk", []string{"chair"}, func(r string, ok bool) {
		result = r
	})

	if result != NotFound {
		t.Errorf("Nil resolver: got %q, want %q", result, NotFound)
	}
}
