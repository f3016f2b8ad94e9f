package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/activewindow/internal/config"
)

// ConfigForm is an interactive editor for the settings most users change.
// Field values are kept as strings until Apply parses them.
type ConfigForm struct {
	form *huh.Form

	fFocusSource   string
	fHostProcesses string
	fFormat        string
	fPretty        bool
	fInterval      string
	fLogLevel      string
	fLogFile       string
}

// NewConfigForm builds a form seeded from cfg.
func NewConfigForm(cfg *config.Config) *ConfigForm {
	f := &ConfigForm{
		fFocusSource:   cfg.FocusSource,
		fHostProcesses: strings.Join(cfg.HostProcesses, ", "),
		fFormat:        cfg.Output.Format,
		fPretty:        cfg.Output.Pretty,
		fInterval:      cfg.Watch.Interval.String(),
		fLogLevel:      cfg.LogLevel,
		fLogFile:       cfg.LogFile,
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("focus_source").
				Title("Focus Source").
				Description("X11: input focus or the window manager's _NET_ACTIVE_WINDOW").
				Options(huh.NewOptions("input", "ewmh")...).
				Value(&f.fFocusSource),

			huh.NewInput().
				Key("host_processes").
				Title("Host Processes").
				Description("Windows: comma-separated shell hosts resolved to their app (e.g. ApplicationFrameHost.exe)").
				Validate(validateHostProcesses).
				Value(&f.fHostProcesses),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("output.format").
				Title("Output Format").
				Description("auto picks json when piped and yaml otherwise").
				Options(huh.NewOptions(config.FormatAuto, config.FormatYAML, config.FormatJSON, config.FormatText)...).
				Value(&f.fFormat),

			huh.NewConfirm().
				Key("output.pretty").
				Title("Indent JSON?").
				Value(&f.fPretty),

			huh.NewInput().
				Key("watch.interval").
				Title("Watch Interval").
				Description("How often watch and tui poll, e.g. 500ms or 2s").
				Validate(validateInterval).
				Value(&f.fInterval),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&f.fLogLevel),

			huh.NewInput().
				Key("log_file").
				Title("Log File").
				Description("Optional; leave empty to log to stderr only").
				Value(&f.fLogFile),
		),
	).WithShowHelp(true).WithShowErrors(true)

	return f
}

// Run shows the form on the terminal. huh.ErrUserAborted is returned when
// the user cancels.
func (f *ConfigForm) Run() error {
	return f.form.Run()
}

// Apply copies the form values into cfg and validates the result. cfg is
// left untouched on error.
func (f *ConfigForm) Apply(cfg *config.Config) error {
	if err := validateInterval(f.fInterval); err != nil {
		return &config.ValidationError{Path: "watch.interval", Err: err}
	}
	if err := validateHostProcesses(f.fHostProcesses); err != nil {
		return &config.ValidationError{Path: "host_processes", Err: err}
	}
	interval, _ := time.ParseDuration(strings.TrimSpace(f.fInterval))

	next := *cfg
	next.FocusSource = f.fFocusSource
	next.HostProcesses = splitList(f.fHostProcesses)
	next.Output.Format = f.fFormat
	next.Output.Pretty = f.fPretty
	next.Watch.Interval = interval
	next.LogLevel = f.fLogLevel
	next.LogFile = strings.TrimSpace(f.fLogFile)
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration: %q", s)
	}
	if d <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}

func validateHostProcesses(s string) error {
	for _, name := range splitList(s) {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%q must be an executable name, not a path", name)
		}
	}
	return nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
