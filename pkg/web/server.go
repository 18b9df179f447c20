// Package web provides a real-time debug dashboard for a navigation
// session. It is a read-only observer: it renders the session snapshot and
// event stream and never mutates the session.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/hub"
	"github.com/nabilabs/go-wayfind/pkg/nav"
	"github.com/nabilabs/go-wayfind/pkg/session"
)

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Server is the dashboard web server.
type Server struct {
	app  *fiber.App
	port string

	controller *nav.Controller
	gateway    *SensorGateway

	logs   []LogEntry
	logsMu sync.RWMutex

	statusHub *hub.Hub
	eventHub  *hub.Hub
}

// NewServer creates a dashboard for the given controller. gateway may be
// nil when sensor frames come from elsewhere (demo feed, tests).
func NewServer(port string, controller *nav.Controller, gateway *SensorGateway) *Server {
	s := &Server{
		port:       port,
		controller: controller,
		gateway:    gateway,
		logs:       make([]LogEntry, 0, 500),
		statusHub:  hub.New("status"),
		eventHub:   hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Wayfind Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// Static dashboard assets
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/logs", s.handleLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	if s.gateway != nil {
		app.Get("/ws/sensor", websocket.New(s.gateway.handle))
	}

	s.app = app
	return s
}

// Watch consumes the session event stream, mirroring it to dashboard
// clients and pushing a fresh state snapshot after every event.
// Call it in a goroutine before the controller starts.
func (s *Server) Watch(events <-chan session.Event) {
	for ev := range events {
		s.addLog(string(ev.Type), ev.Detail)
		s.eventHub.BroadcastJSON(ev)
		s.statusHub.BroadcastJSON(s.controller.Snapshot())
	}
}

// Start runs the hubs and the HTTP listener. Blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)
	go s.statusHub.Run()
	go s.eventHub.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "error", err)
		}
	}()
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) addLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()
}

// handleState returns the current session snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.controller.Snapshot())
}

// handleLogs returns the buffered dashboard log.
func (s *Server) handleLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

func (s *Server) handleStatusWS(conn *websocket.Conn) {
	client := hub.NewClient(s.statusHub, conn)
	client.Run()
}

func (s *Server) handleEventsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.eventHub, conn)
	client.Run()
}
