// Wayfind - staged audio-haptic navigation assistant.
// Guides a user to a requested object through scan, live guidance and
// conversation stages.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/nabilabs/go-wayfind/pkg/wayfind"
)

func main() {
	cfg := parseFlags()

	app, err := wayfind.New(cfg)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := app.Init(); err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() wayfind.Config {
	cfg := wayfind.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	port := flag.String("port", cfg.Port, "Dashboard listen port")
	dashboard := flag.Bool("dashboard", true, "Enable the web dashboard")
	demo := flag.Bool("demo", false, "Run with a scripted sensor feed instead of hardware")
	realtimeURL := flag.String("realtime-url", cfg.RealtimeURL, "Assistant realtime websocket endpoint")
	geminiModel := flag.String("gemini-model", cfg.GeminiModel, "Model for fuzzy object-name matching")
	flag.Parse()

	cfg.Debug = *debug
	cfg.Port = *port
	cfg.Dashboard = *dashboard
	cfg.DemoSensor = *demo
	cfg.RealtimeURL = *realtimeURL
	cfg.GeminiModel = *geminiModel

	cfg.LoadEnvConfig()
	return cfg
}
