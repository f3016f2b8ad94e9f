package config

import "time"

// RawConfig mirrors the config file. Pointer fields distinguish "unset" from
// an explicit zero value so defaults survive partial files.
type RawConfig struct {
	Display       *string    `yaml:"display"`
	XAuthority    *string    `yaml:"xauthority"`
	FocusSource   *string    `yaml:"focus_source"`
	HostProcesses []string   `yaml:"host_processes"`
	Output        *RawOutput `yaml:"output"`
	Watch         *RawWatch  `yaml:"watch"`
	LogLevel      *string    `yaml:"log_level"`
	LogFile       *string    `yaml:"log_file"`
}

type RawOutput struct {
	Format *string `yaml:"format"`
	Pretty *bool   `yaml:"pretty"`
}

type RawWatch struct {
	Interval *time.Duration `yaml:"interval"`
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		xauth, err := expandHome(*raw.XAuthority)
		if err != nil {
			return nil, &ValidationError{Path: "xauthority", Err: err}
		}
		cfg.XAuthority = xauth
	}
	if raw.FocusSource != nil {
		cfg.FocusSource = *raw.FocusSource
	}
	if raw.HostProcesses != nil {
		cfg.HostProcesses = append([]string{}, raw.HostProcesses...)
	}
	if raw.Output != nil {
		if raw.Output.Format != nil {
			cfg.Output.Format = *raw.Output.Format
		}
		if raw.Output.Pretty != nil {
			cfg.Output.Pretty = *raw.Output.Pretty
		}
	}
	if raw.Watch != nil && raw.Watch.Interval != nil {
		cfg.Watch.Interval = *raw.Watch.Interval
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		logFile, err := expandHome(*raw.LogFile)
		if err != nil {
			return nil, &ValidationError{Path: "log_file", Err: err}
		}
		cfg.LogFile = logFile
	}
	return cfg, nil
}
