// Package assistant provides the client for the remote multimodal
// assistant: a realtime speech-to-speech session that receives guidance
// prompts and streams spoken replies back to the user.
package assistant

import "errors"

// Common errors returned by assistant clients.
var (
	ErrNotConnected = errors.New("assistant: not connected")
	ErrClosed       = errors.New("assistant: connection closed")
)

// Client is the remote assistant collaborator. All commands are
// non-blocking from the caller's perspective; replies and speaking-state
// changes surface through the readable flags and callbacks.
type Client interface {
	// Connect establishes the realtime session.
	Connect() error

	// Disconnect tears the session down.
	Disconnect() error

	// SendGuidanceText dispatches a guidance prompt to the assistant.
	SendGuidanceText(prompt string) error

	// StopOutgoingAudio halts the assistant's outgoing audio playback
	// without touching the user's voice recording.
	StopOutgoingAudio() error

	// ResetSpeakingState clears the assistant-is-speaking flag.
	ResetSpeakingState()

	// StartRecording ensures the user's voice keeps reaching the
	// assistant.
	StartRecording() error

	// IsConnected reports whether the session is up.
	IsConnected() bool

	// IsAssistantSpeaking reports whether the assistant is currently
	// producing audio.
	IsAssistantSpeaking() bool

	// HasPendingRequest reports whether a guidance request is awaiting a
	// reply.
	HasPendingRequest() bool

	// SetPendingRequest sets or clears the pending-request latch. The
	// guidance scheduler owns the latch lifecycle, including its grace
	// timeout.
	SetPendingRequest(pending bool)
}
