package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/activewindow/internal/platform"
)

const (
	FormatAuto = "auto"
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatText = "text"
)

const DefaultWatchInterval = 500 * time.Millisecond

// Config is the effective configuration after defaults and the config file
// have been merged.
type Config struct {
	// Display is the X11 display name. Empty means $DISPLAY.
	Display string `yaml:"display"`
	// XAuthority is exported as XAUTHORITY before dialing when set.
	XAuthority    string       `yaml:"xauthority"`
	FocusSource   string       `yaml:"focus_source"`
	HostProcesses []string     `yaml:"host_processes"`
	Output        OutputConfig `yaml:"output"`
	Watch         WatchConfig  `yaml:"watch"`
	LogLevel      string       `yaml:"log_level"`
	LogFile       string       `yaml:"log_file"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func DefaultConfig() *Config {
	return &Config{
		FocusSource:   string(platform.FocusInput),
		HostProcesses: []string{},
		Output: OutputConfig{
			Format: FormatAuto,
		},
		Watch: WatchConfig{
			Interval: DefaultWatchInterval,
		},
		LogLevel: "info",
	}
}

func (c *Config) Validate() error {
	switch platform.FocusSource(c.FocusSource) {
	case platform.FocusInput, platform.FocusEWMH:
	default:
		return &ValidationError{Path: "focus_source", Err: fmt.Errorf("focus_source must be one of: input, ewmh")}
	}
	for i, name := range c.HostProcesses {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "host_processes", Err: fmt.Errorf("entry %d is empty", i)}
		}
		if strings.ContainsAny(name, `/\`) {
			return &ValidationError{Path: "host_processes", Err: fmt.Errorf("entry %q must be an executable name, not a path", name)}
		}
	}
	switch c.Output.Format {
	case FormatAuto, FormatYAML, FormatJSON, FormatText:
	default:
		return &ValidationError{Path: "output.format", Err: fmt.Errorf("output.format must be one of: auto, yaml, json, text")}
	}
	if c.Watch.Interval <= 0 {
		return &ValidationError{Path: "watch.interval", Err: fmt.Errorf("watch.interval must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

// SaveTo validates the config and writes it to path as YAML, creating the
// parent directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// QueryOptions converts the config into backend options.
func (c *Config) QueryOptions(logger *zerolog.Logger) platform.Options {
	hosts := make([]string, len(c.HostProcesses))
	copy(hosts, c.HostProcesses)
	return platform.Options{
		Display:       c.Display,
		FocusSource:   platform.FocusSource(c.FocusSource),
		HostProcesses: hosts,
		Logger:        logger,
	}
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
