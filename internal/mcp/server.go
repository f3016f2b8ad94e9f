package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/activewindow/internal/platform"
	"github.com/1broseidon/activewindow/internal/watch"
)

const (
	ServerName    = "activewindow"
	ServerVersion = "0.1.0"

	defaultWaitTimeout = 30
	maxWaitTimeout     = 300
)

// Failure reasons reported in WindowState.Reason.
const (
	ReasonNoWindow            = string(platform.ReasonNoWindow)
	ReasonDisplayUnavailable  = string(platform.ReasonDisplayUnavailable)
	ReasonUnsupportedPlatform = string(platform.ReasonUnsupportedPlatform)
	ReasonQueryFailed         = string(platform.ReasonQueryFailed)
)

var errFocusChanged = errors.New("focus changed")

// Config holds configuration for the MCP server.
type Config struct {
	// PollInterval is how often wait_for_focus_change queries focus.
	PollInterval time.Duration
	Logger       *zerolog.Logger
}

// Server exposes the focused-window query as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	query     watch.Query
	interval  time.Duration
	logger    zerolog.Logger
}

// NewServer creates a new MCP server answering from query.
func NewServer(query watch.Query, cfg Config) *Server {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = watch.DefaultInterval
	}

	s := &Server{
		query:    query,
		interval: interval,
		logger:   logger.With().Str("component", "mcp").Logger(),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Handler serves the same tools over the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "active_window",
		Description: "Report the window that currently has keyboard focus: title, window id, screen bounds and owning process (name, executable path, pid). When nothing is focused, found is false and reason explains why.",
	}, s.handleActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wait_for_focus_change",
		Description: "Block until the focused window changes (different window, title, bounds or owner, or focus lost/gained) or the timeout expires. Returns the new focus state.",
	}, s.handleWaitForFocusChange)
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, WindowState, error) {
	info, err := s.query()
	state := NewWindowState(info, err)
	if !state.Found {
		s.logger.Debug().Str("reason", state.Reason).Err(err).Msg("active_window: nothing reported")
	}
	return nil, state, nil
}

func (s *Server) handleWaitForFocusChange(ctx context.Context, _ *mcpsdk.CallToolRequest, args WaitForFocusChangeInput) (*mcpsdk.CallToolResult, WaitForFocusChangeOutput, error) {
	timeout := args.Timeout
	if timeout == 0 {
		timeout = defaultWaitTimeout
	}
	if timeout < 0 || timeout > maxWaitTimeout {
		return nil, WaitForFocusChangeOutput{}, fmt.Errorf("timeout must be between 1 and %d seconds", maxWaitTimeout)
	}

	w := watch.New(watch.Config{Interval: s.interval, Logger: &s.logger}, s.query)
	w.Poll()

	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	var changed watch.Event
	err := w.Run(waitCtx, func(ev watch.Event) error {
		changed = ev
		return errFocusChanged
	})
	if errors.Is(err, errFocusChanged) {
		return nil, WaitForFocusChangeOutput{
			Changed: true,
			State:   NewWindowState(changed.Window, changed.Err),
		}, nil
	}
	if err != nil {
		return nil, WaitForFocusChangeOutput{}, err
	}
	if ctx.Err() != nil {
		return nil, WaitForFocusChangeOutput{}, ctx.Err()
	}

	current := w.State()
	return nil, WaitForFocusChangeOutput{State: NewWindowState(current.Window, current.Err)}, nil
}

// NewWindowState converts a query result into its reported form.
func NewWindowState(info platform.WindowInfo, err error) WindowState {
	if err == nil {
		return WindowState{Found: true, Window: &info}
	}
	return WindowState{Reason: string(platform.ReasonOf(err)), Detail: err.Error()}
}
