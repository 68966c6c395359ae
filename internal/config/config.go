// Package config provides configuration types and defaults for runbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for runbook.
type Config struct {
	// CatalogDir is the directory scanned for user-defined workflow YAML files.
	CatalogDir string `mapstructure:"catalog_dir"`

	// AutoReload enables watching CatalogDir and reloading the catalog on change.
	AutoReload bool `mapstructure:"auto_reload"`

	// AutoReloadDebounce collapses bursts of filesystem events into one reload.
	AutoReloadDebounce time.Duration `mapstructure:"auto_reload_debounce"`

	// HistoryCap bounds the most-recent-first closed run list shown in the UI.
	HistoryCap int `mapstructure:"history_cap"`

	LogLevel  string          `mapstructure:"log_level"`
	LogFile   string          `mapstructure:"log_file"`
	UI        UIConfig        `mapstructure:"ui"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowHistory      bool `mapstructure:"show_history"`
	ShowQuickActions bool `mapstructure:"show_quick_actions"`
}

// TelemetryConfig controls trace export for the interpreter.
type TelemetryConfig struct {
	// Exporter selects the span exporter.
	// Valid values: "none", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the OTLP gRPC endpoint, used when Exporter is "otlp".
	Endpoint string `mapstructure:"endpoint"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		CatalogDir:         DefaultCatalogDir(),
		AutoReload:         true,
		AutoReloadDebounce: 500 * time.Millisecond,
		HistoryCap:         5,
		LogLevel:           "info",
		UI: UIConfig{
			ShowHistory:      true,
			ShowQuickActions: true,
		},
		Telemetry: TelemetryConfig{
			Exporter: "none",
		},
	}
}

// DefaultCatalogDir returns the user workflow directory under the config dir.
func DefaultCatalogDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "runbook", "workflows")
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.HistoryCap < 1 {
		return fmt.Errorf("history_cap must be at least 1, got %d", c.HistoryCap)
	}
	if c.AutoReloadDebounce < 0 {
		return fmt.Errorf("auto_reload_debounce must not be negative, got %s", c.AutoReloadDebounce)
	}
	switch c.Telemetry.Exporter {
	case "", "none", "stdout":
	case "otlp":
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required when telemetry.exporter is \"otlp\"")
		}
	default:
		return fmt.Errorf("unknown telemetry.exporter %q (valid: none, stdout, otlp)", c.Telemetry.Exporter)
	}
	return nil
}
