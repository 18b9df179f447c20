package assistant

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nabilabs/go-wayfind/internal/log"
)

// DefaultURL is the OpenAI Realtime endpoint, model pinned.
const DefaultURL = "wss://api.openai.com/v1/realtime?model=gpt-4o-realtime-preview-2024-12-17"

const (
	handshakeTimeout = 10 * time.Second
	readTimeout      = 120 * time.Second
	pingInterval     = 30 * time.Second
	writeTimeout     = 10 * time.Second
)

// Realtime is a websocket Client for the assistant backend.
type Realtime struct {
	url    string
	apiKey string

	ws   *websocket.Conn
	wsMu sync.Mutex

	stateMu   sync.RWMutex
	connected bool
	closed    bool
	speaking  bool
	pending   bool

	// Callbacks
	OnTranscript func(text string, isFinal bool)
	OnAudioDelta func(audioBase64 string)
	OnAudioDone  func()
	OnError      func(err error)
}

// NewRealtime creates a client for the given assistant endpoint.
func NewRealtime(url, apiKey string) *Realtime {
	return &Realtime{url: url, apiKey: apiKey}
}

// Connect implements Client.
func (c *Realtime) Connect() error {
	header := make(map[string][]string)
	if c.apiKey != "" {
		header["Authorization"] = []string{"Bearer " + c.apiKey}
	}
	header["OpenAI-Beta"] = []string{"realtime=v1"}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, _, err := dialer.Dial(c.url, header)
	if err != nil {
		return fmt.Errorf("assistant: connect: %w", err)
	}

	ws.SetPingHandler(func(appData string) error {
		c.wsMu.Lock()
		defer c.wsMu.Unlock()
		return ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})
	ws.SetReadDeadline(time.Now().Add(readTimeout))

	c.wsMu.Lock()
	c.ws = ws
	c.wsMu.Unlock()

	c.stateMu.Lock()
	c.connected = true
	c.closed = false
	c.speaking = false
	c.pending = false
	c.stateMu.Unlock()

	go c.handleMessages()
	go c.keepAlive()

	return nil
}

// Disconnect implements Client.
func (c *Realtime) Disconnect() error {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	c.speaking = false
	c.pending = false
	c.stateMu.Unlock()

	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws != nil {
		err := c.ws.Close()
		c.ws = nil
		return err
	}
	return nil
}

// SendGuidanceText implements Client.
func (c *Realtime) SendGuidanceText(prompt string) error {
	return c.sendJSON(map[string]any{
		"type": "guidance.text",
		"text": prompt,
	})
}

// StopOutgoingAudio implements Client. The user's voice recording is not
// affected; only the assistant's playback stream is cancelled.
func (c *Realtime) StopOutgoingAudio() error {
	return c.sendJSON(map[string]string{
		"type": "response.audio.cancel",
	})
}

// ResetSpeakingState implements Client.
func (c *Realtime) ResetSpeakingState() {
	c.stateMu.Lock()
	c.speaking = false
	c.stateMu.Unlock()
}

// StartRecording implements Client.
func (c *Realtime) StartRecording() error {
	return c.sendJSON(map[string]string{
		"type": "input_audio.start",
	})
}

// IsConnected implements Client.
func (c *Realtime) IsConnected() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.connected && !c.closed
}

// IsAssistantSpeaking implements Client.
func (c *Realtime) IsAssistantSpeaking() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.speaking
}

// HasPendingRequest implements Client.
func (c *Realtime) HasPendingRequest() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.pending
}

// SetPendingRequest implements Client.
func (c *Realtime) SetPendingRequest(pending bool) {
	c.stateMu.Lock()
	c.pending = pending
	c.stateMu.Unlock()
}

// keepAlive sends periodic pings so idle guidance sessions stay up.
func (c *Realtime) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.stateMu.RLock()
		closed := c.closed
		c.stateMu.RUnlock()
		if closed {
			return
		}

		c.wsMu.Lock()
		ws := c.ws
		if ws != nil {
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeTimeout)); err != nil {
				c.wsMu.Unlock()
				return
			}
		}
		c.wsMu.Unlock()
	}
}

// handleMessages processes incoming websocket messages until the
// connection closes.
func (c *Realtime) handleMessages() {
	for {
		c.wsMu.Lock()
		ws := c.ws
		c.wsMu.Unlock()
		if ws == nil {
			return
		}

		ws.SetReadDeadline(time.Now().Add(readTimeout))
		_, message, err := ws.ReadMessage()
		if err != nil {
			c.stateMu.Lock()
			wasClosed := c.closed
			c.connected = false
			c.stateMu.Unlock()
			if !wasClosed && c.OnError != nil {
				c.OnError(err)
			}
			return
		}

		var msg map[string]any
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		msgType, _ := msg["type"].(string)
		switch msgType {
		case "response.audio.delta":
			c.stateMu.Lock()
			c.speaking = true
			c.stateMu.Unlock()
			if delta, ok := msg["delta"].(string); ok && c.OnAudioDelta != nil {
				c.OnAudioDelta(delta)
			}

		case "response.audio.done":
			c.stateMu.Lock()
			c.speaking = false
			c.stateMu.Unlock()
			if c.OnAudioDone != nil {
				c.OnAudioDone()
			}

		case "response.done":
			c.stateMu.Lock()
			c.pending = false
			c.stateMu.Unlock()

		case "response.transcript.delta":
			if delta, ok := msg["delta"].(string); ok && c.OnTranscript != nil {
				c.OnTranscript(delta, false)
			}

		case "response.transcript.done":
			if text, ok := msg["text"].(string); ok && c.OnTranscript != nil {
				c.OnTranscript(text, true)
			}

		case "error":
			if errData, ok := msg["error"].(map[string]any); ok {
				if errMsg, ok := errData["message"].(string); ok {
					log.Warn("assistant error", "message", errMsg)
					if c.OnError != nil {
						c.OnError(fmt.Errorf("assistant: %s", errMsg))
					}
				}
			}
		}
	}
}

// sendJSON writes one JSON message over the websocket.
func (c *Realtime) sendJSON(v any) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws == nil {
		return ErrNotConnected
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}
