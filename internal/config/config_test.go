package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/activewindow/internal/platform"
)

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Watch.Interval != 500*time.Millisecond {
		t.Fatalf("watch.interval = %v, want 500ms", cfg.Watch.Interval)
	}
	if cfg.Output.Format != FormatAuto {
		t.Fatalf("output.format = %q, want auto", cfg.Output.Format)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("File = %q, want empty for missing config", res.File)
	}
	if res.Config.FocusSource != "input" {
		t.Fatalf("focus_source = %q, want input", res.Config.FocusSource)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("log_level = %q, want info", res.Config.LogLevel)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	path := writeConfig(t,
		`display: ":1"`,
		`xauthority: "/tmp/test-xauth"`,
		`focus_source: ewmh`,
		`host_processes:`,
		`  - ShellHost.exe`,
		`output:`,
		`  format: json`,
		`  pretty: true`,
		`watch:`,
		`  interval: 2s`,
		`log_level: debug`,
		`log_file: /tmp/activewindow.log`,
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || cfg.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("display/xauthority = %q/%q", cfg.Display, cfg.XAuthority)
	}
	if cfg.FocusSource != "ewmh" {
		t.Fatalf("focus_source = %q", cfg.FocusSource)
	}
	if len(cfg.HostProcesses) != 1 || cfg.HostProcesses[0] != "ShellHost.exe" {
		t.Fatalf("host_processes = %v", cfg.HostProcesses)
	}
	if cfg.Output.Format != FormatJSON || !cfg.Output.Pretty {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if cfg.Watch.Interval != 2*time.Second {
		t.Fatalf("watch.interval = %v", cfg.Watch.Interval)
	}
	if cfg.LogLevel != "debug" || cfg.LogFile != "/tmp/activewindow.log" {
		t.Fatalf("log = %q/%q", cfg.LogLevel, cfg.LogFile)
	}
}

func TestLoadFromPath_PartialOutputKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "output:", "  pretty: true")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Output.Format != FormatAuto || !res.Config.Output.Pretty {
		t.Fatalf("output = %+v, want auto + pretty", res.Config.Output)
	}
}

func TestLoadFromPath_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, "log_file: ~/logs/aw.log", "xauthority: ~/.Xauthority")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(home, "logs", "aw.log"); res.Config.LogFile != want {
		t.Fatalf("log_file = %q, want %q", res.Config.LogFile, want)
	}
	if want := filepath.Join(home, ".Xauthority"); res.Config.XAuthority != want {
		t.Fatalf("xauthority = %q, want %q", res.Config.XAuthority, want)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "focus: input")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected strict decoding to reject unknown key")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, "log_level: info", "watch:", "  interval: 0s")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "watch.interval" {
		t.Fatalf("Path = %q, want watch.interval", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 3 {
		t.Fatalf("Source = %+v, want file line 3", verr.Source)
	}
	if !strings.Contains(err.Error(), ":3:") {
		t.Fatalf("error %q lacks line number", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantPath string
	}{
		{"bad focus source", func(c *Config) { c.FocusSource = "mouse" }, "focus_source"},
		{"empty host process", func(c *Config) { c.HostProcesses = []string{" "} }, "host_processes"},
		{"host process path", func(c *Config) { c.HostProcesses = []string{`C:\x\host.exe`} }, "host_processes"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"negative interval", func(c *Config) { c.Watch.Interval = -time.Second }, "watch.interval"},
		{"bad log level", func(c *Config) { c.LogLevel = "warning" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.wantPath {
				t.Fatalf("Validate() = %v, want ValidationError at %q", err, tt.wantPath)
			}
		})
	}
}

func TestQueryOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display = ":2"
	cfg.FocusSource = "ewmh"
	cfg.HostProcesses = []string{"ShellHost.exe"}

	opts := cfg.QueryOptions(nil)
	if opts.Display != ":2" || opts.FocusSource != platform.FocusEWMH {
		t.Fatalf("QueryOptions() = %+v", opts)
	}
	opts.HostProcesses[0] = "changed"
	if cfg.HostProcesses[0] != "ShellHost.exe" {
		t.Fatal("QueryOptions must not alias the config slice")
	}
}

func TestSaveTo_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.FocusSource = "ewmh"
	cfg.HostProcesses = []string{"ApplicationFrameHost.exe"}
	cfg.Watch.Interval = 2 * time.Second

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.FocusSource != "ewmh" || res.Config.Watch.Interval != 2*time.Second {
		t.Fatalf("loaded config = %+v", res.Config)
	}
	if len(res.Config.HostProcesses) != 1 || res.Config.HostProcesses[0] != "ApplicationFrameHost.exe" {
		t.Fatalf("host_processes = %v", res.Config.HostProcesses)
	}
}

func TestSaveTo_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config should not be written, stat err = %v", err)
	}
}
