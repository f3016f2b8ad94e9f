package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/activewindow/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server exposing the active_window and wait_for_focus_change
tools. Designed to be invoked by MCP clients such as Claude Code or Claude
Desktop.

Supported transports:
  stdio   Standard I/O (default)
  http    Streamable HTTP on --addr

Example (Claude Code):
  claude mcp add activewindow -- activewindow mcp serve`,
	Args: noArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	mcpServeCmd.Flags().String("transport", "stdio", "Transport: stdio, http")
	mcpServeCmd.Flags().String("addr", "127.0.0.1:8765", "Listen address for the http transport")
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	addr, _ := cmd.Flags().GetString("addr")
	if transport != "stdio" && transport != "http" {
		return &usageError{err: fmt.Errorf("unsupported transport: %s (use stdio or http)", transport)}
	}

	q, err := newQuerier()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	logger := current.logger.Logger
	server := mcp.NewServer(q.ActiveWindow, mcp.Config{
		PollInterval: current.cfg.Watch.Interval,
		Logger:       &logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	if transport == "stdio" {
		if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("MCP server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
