package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/activewindow/internal/platform"
)

const DefaultInterval = 500 * time.Millisecond

// Query returns the currently focused window.
type Query func() (platform.WindowInfo, error)

// Event is emitted whenever the observed focus state changes.
type Event struct {
	Window platform.WindowInfo
	Found  bool
	// Err is why no window was reported when Found is false.
	Err error
	At  time.Time
}

// Emit receives change events. Returning an error stops the watcher.
type Emit func(Event) error

// Config holds configuration for the watcher.
type Config struct {
	Interval time.Duration
	Logger   *zerolog.Logger
}

// Watcher polls a Query and reports changes. The initial state is "no
// window", so a watcher that starts while nothing is focused stays quiet
// until something gains focus. Failures are part of the state: moving
// between "no window", "display unavailable" and other failures is a change.
type Watcher struct {
	interval time.Duration
	query    Query
	logger   zerolog.Logger
	now      func() time.Time

	last    platform.WindowInfo
	found   bool
	reason  platform.Reason
	lastErr error
}

func New(cfg Config, query Query) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Watcher{
		interval: interval,
		query:    query,
		logger:   logger,
		now:      time.Now,
		reason:   platform.ReasonNoWindow,
	}
}

// Run polls immediately and then every interval until ctx is cancelled or
// emit fails. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context, emit Emit) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Debug().Dur("interval", w.interval).Msg("watcher started")

	for {
		if ev, changed := w.Poll(); changed {
			if err := emit(ev); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("watcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll runs one query and reports whether the state differs from the
// previous poll.
func (w *Watcher) Poll() (Event, bool) {
	info, err := w.query()
	found := err == nil
	reason := platform.ReasonOf(err)
	w.lastErr = err

	if found == w.found && info == w.last && reason == w.reason {
		return Event{}, false
	}
	if reason != platform.ReasonNone && reason != platform.ReasonNoWindow {
		w.logger.Warn().Err(err).Str("reason", string(reason)).Msg("active window query failed")
	}
	w.found = found
	w.last = info
	w.reason = reason
	return Event{Window: info, Found: found, Err: err, At: w.now()}, true
}

// State returns the state observed by the most recent poll.
func (w *Watcher) State() Event {
	return Event{Window: w.last, Found: w.found, Err: w.lastErr}
}

// Run is a convenience wrapper around New and (*Watcher).Run.
func Run(ctx context.Context, interval time.Duration, query Query, emit Emit) error {
	return New(Config{Interval: interval}, query).Run(ctx, emit)
}
