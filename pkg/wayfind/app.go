package wayfind

import (
	"context"
	"fmt"

	"github.com/nabilabs/go-wayfind/internal/log"
	"github.com/nabilabs/go-wayfind/pkg/assistant"
	"github.com/nabilabs/go-wayfind/pkg/haptics"
	"github.com/nabilabs/go-wayfind/pkg/matcher"
	"github.com/nabilabs/go-wayfind/pkg/nav"
	"github.com/nabilabs/go-wayfind/pkg/sensor"
	"github.com/nabilabs/go-wayfind/pkg/web"
)

// App is the assembled wayfind application.
type App struct {
	cfg Config

	controller *nav.Controller
	server     *web.Server
}

// New validates the configuration and returns an unstarted App.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{cfg: cfg}, nil
}

// Init builds the collaborators and wires the session controller.
func (a *App) Init() error {
	level := "info"
	if a.cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	resolver, err := matcher.NewGeminiResolver(context.Background(), a.cfg.GeminiKey, a.cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("wayfind: gemini resolver: %w", err)
	}

	deps := nav.Deps{
		Assistant:  assistant.NewRealtime(a.cfg.RealtimeURL, a.cfg.OpenAIKey),
		Matcher:    matcher.New(resolver),
		Haptics:    haptics.NewDriver(consoleHaptics{}),
		Cues:       &consoleCues{},
		Recognizer: &terminalRecognizer{},
	}

	var gateway *web.SensorGateway
	if a.cfg.DemoSensor {
		log.Info("running with demo sensor feed")
		deps.Sensor = sensor.NewDemo()
	} else {
		gateway = web.NewSensorGateway()
		deps.Sensor = gateway
	}

	a.controller = nav.New(a.cfg.Nav, deps)

	if a.cfg.Dashboard {
		a.server = web.NewServer(a.cfg.Port, a.controller, gateway)
		go a.server.Watch(a.controller.Events().Subscribe())
	}
	return nil
}

// Run starts the dashboard and blocks on the session loop until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.server != nil {
		a.server.StartAsync()
	}
	a.controller.Run(ctx)
	return nil
}

// Shutdown stops the dashboard listener.
func (a *App) Shutdown() {
	if a.server != nil {
		if err := a.server.Shutdown(); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}
}
