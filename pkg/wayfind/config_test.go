package wayfind

import (
	"errors"
	"testing"
)

func TestValidateRequiresKeys(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "OpenAIKey" {
		t.Errorf("expected OpenAIKey error first, got %q", cfgErr.Field)
	}

	cfg.OpenAIKey = "sk-test"
	err = cfg.Validate()
	if !errors.As(err, &cfgErr) || cfgErr.Field != "GeminiKey" {
		t.Errorf("expected GeminiKey error, got %v", err)
	}

	cfg.GeminiKey = "test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != DefaultPort {
		t.Errorf("port = %q, want %q", cfg.Port, DefaultPort)
	}
	if !cfg.Dashboard {
		t.Error("dashboard should default on")
	}
	if cfg.RealtimeURL == "" || cfg.GeminiModel == "" {
		t.Error("endpoint defaults missing")
	}
}
