package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/activewindow"
	"github.com/1broseidon/activewindow/internal/config"
	"github.com/1broseidon/activewindow/internal/displayenv"
	"github.com/1broseidon/activewindow/internal/logging"
	"github.com/1broseidon/activewindow/internal/mcp"
	"github.com/1broseidon/activewindow/internal/output"
)

// skipSetup marks commands that load configuration themselves.
const skipSetup = "skip-setup"

var rootCmd = &cobra.Command{
	Use:           "activewindow",
	Short:         "Report the currently focused window",
	Long:          "Report the title, id, bounds and owning process of the window that currently has keyboard focus.",
	Version:       mcp.ServerVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// session is the state shared by commands after setup.
type session struct {
	cfg     *config.Config
	cfgFile string
	logger  *logging.Logger
	format  output.Format
	pretty  bool
}

var current session

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/activewindow/config.yaml)")
	rootCmd.PersistentFlags().String("format", "", "Output format: auto, yaml, json, text (default from config)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if current.logger != nil {
			return current.logger.Close()
		}
		return nil
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	cfg := res.Config

	if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &usageError{err: err}
	}
	logger, err := logging.New(
		logging.WithConsole(os.Stderr),
		logging.WithLevel(level),
		logging.WithFile(cfg.LogFile),
	)
	if err != nil {
		return err
	}

	formatName := cfg.Output.Format
	if f, _ := rootCmd.PersistentFlags().GetString("format"); f != "" {
		formatName = f
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		logger.Close()
		return &usageError{err: err}
	}
	pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")

	current = session{
		cfg:     cfg,
		cfgFile: res.File,
		logger:  logger,
		format:  output.Resolve(format, os.Stdout),
		pretty:  pretty || cfg.Output.Pretty,
	}
	logger.Debug().Str("config", res.File).Str("format", string(current.format)).Msg("configuration loaded")
	return nil
}

func configPath() (string, error) {
	if p, _ := rootCmd.PersistentFlags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultConfigPath()
}

// newQuerier prepares the display environment and builds a querier from the
// loaded configuration.
func newQuerier() (*activewindow.Querier, error) {
	cfg := current.cfg
	if runtime.GOOS == "linux" {
		env := displayenv.Resolve(os.Environ(), displayenv.Env{Display: cfg.Display, XAuthority: cfg.XAuthority})
		if cfg.XAuthority != "" {
			env.XAuthority = cfg.XAuthority
		}
		if err := displayenv.Apply(env); err != nil {
			return nil, err
		}
		current.logger.Debug().Str("display", env.Display).Str("xauthority", env.XAuthority).Msg("display environment")
	}
	return activewindow.New(cfg.QueryOptions(&current.logger.Logger))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "accepts ")
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{err: fmt.Errorf("%s takes no arguments", cmd.CommandPath())}
	}
	return nil
}
