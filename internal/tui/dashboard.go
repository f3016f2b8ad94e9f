package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/activewindow/internal/watch"
)

// historyLimit caps how many focus changes the history list keeps.
const historyLimit = 100

// chromeHeight is the header, the current-window panel and the help bar.
const chromeHeight = 11

// pollMsg asks the dashboard to query the focused window.
type pollMsg struct{}

// eventMsg carries the result of one poll.
type eventMsg struct {
	ev      watch.Event
	changed bool
}

// Dashboard is a bubbletea model that shows the focused window live along
// with a history of recent focus changes.
type Dashboard struct {
	watcher  *watch.Watcher
	interval time.Duration

	current watch.Event
	polled  bool
	paused  bool
	history list.Model

	width  int
	height int
}

// NewDashboard creates a dashboard polling query every cfg.Interval.
func NewDashboard(query watch.Query, cfg watch.Config) Dashboard {
	interval := cfg.Interval
	if interval <= 0 {
		interval = watch.DefaultInterval
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Focus history"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Dashboard{
		watcher:  watch.New(cfg, query),
		interval: interval,
		history:  l,
	}
}

// Init implements tea.Model.
func (d Dashboard) Init() tea.Cmd {
	return d.poll()
}

// poll runs one watcher poll off the update loop. Only one poll is ever in
// flight: the next tick is scheduled when its result arrives.
func (d Dashboard) poll() tea.Cmd {
	w := d.watcher
	return func() tea.Msg {
		ev, changed := w.Poll()
		return eventMsg{ev: ev, changed: changed}
	}
}

func (d Dashboard) tick() tea.Cmd {
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// Update implements tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return d, tea.Quit
		case "p", " ":
			d.paused = !d.paused
			return d, nil
		case "c":
			return d, d.history.SetItems(nil)
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		h := d.height - chromeHeight
		if h < 3 {
			h = 3
		}
		d.history.SetSize(d.width, h)
		return d, nil

	case pollMsg:
		if d.paused {
			return d, d.tick()
		}
		return d, d.poll()

	case eventMsg:
		d.polled = true
		if !msg.changed {
			return d, d.tick()
		}
		d.current = msg.ev
		cmd := d.history.InsertItem(0, historyItem{ev: msg.ev})
		if n := len(d.history.Items()); n > historyLimit {
			d.history.RemoveItem(n - 1)
		}
		return d, tea.Batch(cmd, d.tick())
	}

	var cmd tea.Cmd
	d.history, cmd = d.history.Update(msg)
	return d, cmd
}

// View implements tea.Model.
func (d Dashboard) View() string {
	header := titleStyle.Render("activewindow") +
		dimStyle.Render(fmt.Sprintf("  polling every %s", d.interval))
	if d.paused {
		header += "  " + pausedStyle.Render("PAUSED")
	}

	help := dimStyle.Render("q quit • p pause • c clear history • ↑/↓ scroll")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		d.viewCurrent(),
		d.history.View(),
		help,
	)
}

func (d Dashboard) viewCurrent() string {
	var lines []string
	switch {
	case !d.polled:
		lines = []string{dimStyle.Render("waiting for first poll...")}
	case !d.current.Found:
		lines = []string{
			absentStyle.Render(absentHeadline(d.current.Err)),
			row("Reason", absentReason(d.current.Err)),
		}
	default:
		w := d.current.Window
		owner := fmt.Sprintf("%s (pid %d)", w.Owner.Name, w.Owner.ID)
		lines = []string{
			row("Title", w.Title),
			row("ID", fmt.Sprintf("%#x", uint64(w.ID))),
			row("Bounds", formatBounds(w.Bounds)),
			row("Owner", owner),
			row("Path", displayOrDefault(w.Owner.Path, "(unknown)")),
		}
	}

	style := panelStyle
	if d.width > 4 {
		style = style.Width(d.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RunDashboard runs the dashboard full-screen until the user quits or ctx
// is cancelled.
func RunDashboard(ctx context.Context, query watch.Query, cfg watch.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(NewDashboard(query, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
