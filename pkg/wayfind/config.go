// Package wayfind wires the navigation session to its real collaborators
// and owns the application lifecycle.
package wayfind

import (
	"os"

	"github.com/nabilabs/go-wayfind/pkg/assistant"
	"github.com/nabilabs/go-wayfind/pkg/matcher"
	"github.com/nabilabs/go-wayfind/pkg/nav"
)

// DefaultPort is the dashboard listen port.
const DefaultPort = "8090"

// Config holds all configuration for the wayfind application.
// Flag parsing is done in cmd/wayfind/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// Port the dashboard listens on.
	Port string

	// Dashboard enables the web dashboard.
	Dashboard bool

	// DemoSensor runs a scripted sensor feed instead of real hardware.
	DemoSensor bool

	// RealtimeURL is the assistant websocket endpoint.
	RealtimeURL string

	// GeminiModel is the model used for fuzzy object-name resolution.
	GeminiModel string

	// API keys (typically from environment variables).
	OpenAIKey string
	GeminiKey string

	// Nav tunes the session state machine.
	Nav nav.Config
}

// DefaultConfig returns sensible defaults for wayfind configuration.
func DefaultConfig() Config {
	return Config{
		Port:        DefaultPort,
		Dashboard:   true,
		RealtimeURL: assistant.DefaultURL,
		GeminiModel: matcher.DefaultGeminiModel,
		Nav:         nav.DefaultConfig(),
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnvConfig() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	if port := os.Getenv("WAYFIND_PORT"); port != "" {
		c.Port = port
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return &ConfigError{Field: "OpenAIKey", Message: "OPENAI_API_KEY environment variable is required"}
	}
	if c.GeminiKey == "" {
		return &ConfigError{Field: "GeminiKey", Message: "GEMINI_API_KEY environment variable is required"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
