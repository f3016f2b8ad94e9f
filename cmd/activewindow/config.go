package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/activewindow/internal/config"
	"github.com/1broseidon/activewindow/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        noArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:         "validate",
	Short:       "Check the config file for errors",
	Args:        noArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		res, err := config.LoadFromPath(path)
		if err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		if res.File == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "config: ok (no file at %s, using defaults)\n", path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config: ok (%s)\n", res.File)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:         "print",
	Short:       "Print the effective configuration as YAML",
	Args:        noArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		defaults, _ := cmd.Flags().GetBool("defaults")

		cfg := config.DefaultConfig()
		if !defaults {
			path, err := configPath()
			if err != nil {
				return err
			}
			res, err := config.LoadFromPath(path)
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			cfg = res.Config
			if res.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", res.File)
			}
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or edit the config file interactively",
	Long: `Walk through the main settings in a form and write the result to the config
file. An existing valid file is used as the starting point; pass --defaults to
start from the built-in defaults instead.`,
	Args:        noArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configValidateCmd, configPrintCmd, configInitCmd)
	configPrintCmd.Flags().Bool("defaults", false, "Print built-in defaults (no file)")
	configInitCmd.Flags().Bool("defaults", false, "Start from built-in defaults even if a config file exists")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return &exitError{code: exitFailure, err: errors.New("config init requires an interactive terminal")}
	}
	path, err := configPath()
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
		res, err := config.LoadFromPath(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "existing config ignored: %v\n", err)
		} else {
			cfg = res.Config
		}
	}

	form := tui.NewConfigForm(cfg)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "aborted, nothing written")
			return &exitError{code: exitFailure}
		}
		return err
	}
	if err := form.Apply(cfg); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if err := cfg.SaveTo(path); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
