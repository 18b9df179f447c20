package web

import (
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/session"
)

// ErrSensorDisconnected is returned when a command is issued while no
// sensor client is connected.
var ErrSensorDisconnected = errors.New("web: no sensor client connected")

// sensorFrame is one inbound message from the sensor client.
type sensorFrame struct {
	Type         string   `json:"type"`
	Centeredness float64  `json:"centeredness"`
	Distance     float64  `json:"distance"`
	HasDistance  bool     `json:"has_distance"`
	Labels       []string `json:"labels"`
	Label        string   `json:"label"`
}

// sensorCommand is one outbound control message to the sensor client.
type sensorCommand struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
}

// SensorGateway bridges a remote capture client into the session over
// /ws/sensor. Detection frames flow in as JSON; scan and guidance commands
// flow out on the same connection. It implements sensor.Source.
//
// A newly connecting client replaces the previous one; the session keeps
// running across reconnects.
type SensorGateway struct {
	mu            sync.Mutex
	conn          *websocket.Conn
	onSample      func(session.DetectionSample)
	onTargetFound func(string)
}

// NewSensorGateway creates an unconnected gateway.
func NewSensorGateway() *SensorGateway {
	return &SensorGateway{}
}

// StartScanning implements sensor.Source.
func (g *SensorGateway) StartScanning(target string) error {
	return g.send(sensorCommand{Type: "start_scanning", Target: target})
}

// StopScanning implements sensor.Source.
func (g *SensorGateway) StopScanning() error {
	return g.send(sensorCommand{Type: "stop_scanning"})
}

// StartHapticGuidance implements sensor.Source.
func (g *SensorGateway) StartHapticGuidance(target string) error {
	return g.send(sensorCommand{Type: "start_guidance", Target: target})
}

// StopHapticGuidance implements sensor.Source.
func (g *SensorGateway) StopHapticGuidance() error {
	return g.send(sensorCommand{Type: "stop_guidance"})
}

// OnSample implements sensor.Source.
func (g *SensorGateway) OnSample(fn func(session.DetectionSample)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onSample = fn
}

// OnTargetFound implements sensor.Source.
func (g *SensorGateway) OnTargetFound(fn func(label string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onTargetFound = fn
}

func (g *SensorGateway) send(cmd sensorCommand) error {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return ErrSensorDisconnected
	}
	return conn.WriteJSON(cmd)
}

// handle runs the read loop for one sensor connection. Only the newest
// connection feeds the session.
func (g *SensorGateway) handle(conn *websocket.Conn) {
	g.mu.Lock()
	if g.conn != nil {
		g.conn.Close()
	}
	g.conn = conn
	g.mu.Unlock()

	log.Info("sensor client connected", "remote", conn.RemoteAddr().String())

	for {
		var frame sensorFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		g.dispatch(frame)
	}

	g.mu.Lock()
	if g.conn == conn {
		g.conn = nil
	}
	g.mu.Unlock()
	log.Info("sensor client disconnected")
}

func (g *SensorGateway) dispatch(frame sensorFrame) {
	g.mu.Lock()
	onSample, onTargetFound := g.onSample, g.onTargetFound
	g.mu.Unlock()

	switch frame.Type {
	case "sample":
		if onSample != nil {
			onSample(session.DetectionSample{
				Centeredness: frame.Centeredness,
				Distance:     frame.Distance,
				HasDistance:  frame.HasDistance,
				Labels:       frame.Labels,
			})
		}
	case "target_found":
		if onTargetFound != nil {
			onTargetFound(frame.Label)
		}
	default:
		log.Debug("unknown sensor frame", "type", frame.Type)
	}
}
