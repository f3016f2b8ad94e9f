package watch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/1broseidon/activewindow/internal/platform"
)

type step struct {
	info platform.WindowInfo
	err  error
}

// scripted replays steps and then repeats the last one.
func scripted(steps ...step) Query {
	i := 0
	return func() (platform.WindowInfo, error) {
		s := steps[i]
		if i < len(steps)-1 {
			i++
		}
		return s.info, s.err
	}
}

func window(title string, id platform.WindowID) step {
	return step{info: platform.WindowInfo{
		Title:  title,
		ID:     id,
		Bounds: platform.BoundsInfo{Width: 640, Height: 480},
		Owner:  platform.OwnerInfo{Name: "xterm", Path: "/usr/bin/xterm", ID: 100},
	}}
}

var absent = step{err: platform.ErrNoWindow}

func TestPoll_EmitsOnlyOnChange(t *testing.T) {
	w := New(Config{}, scripted(
		absent,
		window("a", 1),
		window("a", 1),
		window("b", 1),
		absent,
		absent,
		window("b", 1),
	))

	var got []string
	for i := 0; i < 7; i++ {
		ev, changed := w.Poll()
		if !changed {
			continue
		}
		if ev.Found {
			got = append(got, ev.Window.Title)
		} else {
			got = append(got, "-")
		}
	}

	want := []string{"a", "b", "-", "b"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestPoll_FailureKindsAreDistinct(t *testing.T) {
	failure := &platform.QueryError{Op: platform.OpTitle, Err: errors.New("BadWindow")}
	w := New(Config{}, scripted(window("a", 1), step{err: failure}, step{err: failure}, absent))

	w.Poll()
	ev, changed := w.Poll()
	if !changed || ev.Found {
		t.Fatalf("Poll() = %+v, %v; want failure event", ev, changed)
	}
	if !errors.Is(ev.Err, platform.ErrQueryFailed) {
		t.Fatalf("event error = %v, want query failure", ev.Err)
	}
	if _, changed := w.Poll(); changed {
		t.Fatal("repeated failure should not be a change")
	}
	ev, changed = w.Poll()
	if !changed || !platform.IsAbsent(ev.Err) {
		t.Fatalf("Poll() = %+v, %v; failure followed by no-window should be a change", ev, changed)
	}
}

func TestPoll_DisplayUnavailableFromStart(t *testing.T) {
	dead := fmt.Errorf("%w: can't open display :0", platform.ErrDisplayUnavailable)
	w := New(Config{}, scripted(step{err: dead}))

	ev, changed := w.Poll()
	if !changed {
		t.Fatal("an unavailable display must be reported on the first poll")
	}
	if ev.Found || !errors.Is(ev.Err, platform.ErrDisplayUnavailable) {
		t.Fatalf("event = %+v, want display unavailable", ev)
	}
	for i := 0; i < 3; i++ {
		if _, changed := w.Poll(); changed {
			t.Fatal("a display that stays unavailable should be reported once")
		}
	}
	if st := w.State(); !errors.Is(st.Err, platform.ErrDisplayUnavailable) {
		t.Fatalf("State().Err = %v", st.Err)
	}
}

func TestRun_ReportsUnavailableDisplay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dead := fmt.Errorf("%w: can't open display :0", platform.ErrDisplayUnavailable)
	var events []Event
	err := Run(ctx, time.Millisecond, scripted(step{err: dead}), func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(events) != 1 || !errors.Is(events[0].Err, platform.ErrDisplayUnavailable) {
		t.Fatalf("events = %+v, want one display-unavailable event", events)
	}
}

func TestPoll_InitialAbsenceIsQuiet(t *testing.T) {
	w := New(Config{}, scripted(absent))
	if _, changed := w.Poll(); changed {
		t.Fatal("nothing focused at startup should not emit")
	}
}

func TestPoll_StampsEvents(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := New(Config{}, scripted(window("a", 1)))
	w.now = func() time.Time { return fixed }

	ev, _ := w.Poll()
	if !ev.At.Equal(fixed) {
		t.Fatalf("At = %v, want %v", ev.At, fixed)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []Event
	err := Run(ctx, time.Millisecond, scripted(window("a", 1), window("b", 2)), func(ev Event) error {
		events = append(events, ev)
		if len(events) == 2 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(events) != 2 || events[0].Window.ID != 1 || events[1].Window.ID != 2 {
		t.Fatalf("events = %+v", events)
	}
}

func TestRun_StopsOnEmitError(t *testing.T) {
	stop := errors.New("stdout closed")
	err := Run(context.Background(), time.Millisecond, scripted(window("a", 1)), func(Event) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Run() error = %v, want %v", err, stop)
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	if w := New(Config{}, scripted(absent)); w.interval != DefaultInterval {
		t.Fatalf("interval = %v, want %v", w.interval, DefaultInterval)
	}
}
