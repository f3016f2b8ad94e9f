package displayenv

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/1broseidon/activewindow/internal/procfs"
)

func TestResolve_KeepsExistingEnv(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":99", "/tmp/should-not-be-used" },
		func(string) string { return ":88" },
	)
	defer restore()

	got := Resolve([]string{
		"HOME=" + t.TempDir(),
		"DISPLAY=:7",
		"XAUTHORITY=/tmp/xauth-existing",
	}, Env{Display: ":1", XAuthority: "/tmp/cfg"})

	if got.Display != ":7" || got.XAuthority != "/tmp/xauth-existing" {
		t.Fatalf("Resolve() = %+v, want existing env", got)
	}
}

func TestResolve_UsesConfigAndFallsBackToHomeXAuthority(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	got := Resolve([]string{"HOME=" + home}, Env{Display: ":1"})
	if got.Display != ":1" {
		t.Fatalf("Display = %q, want %q", got.Display, ":1")
	}
	if got.XAuthority != xauth {
		t.Fatalf("XAuthority = %q, want %q", got.XAuthority, xauth)
	}
}

func TestResolve_UsesDetectedSession(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":5", "/tmp/xauth-detected" },
		func(string) string { return ":9" },
	)
	defer restore()

	got := Resolve([]string{"HOME=" + t.TempDir()}, Env{})
	if got.Display != ":5" || got.XAuthority != "/tmp/xauth-detected" {
		t.Fatalf("Resolve() = %+v, want detected session", got)
	}
}

func TestResolve_FallsBackToSocket(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return ":3" },
	)
	defer restore()

	got := Resolve([]string{"HOME=" + t.TempDir()}, Env{})
	if got.Display != ":3" || got.XAuthority != "" {
		t.Fatalf("Resolve() = %+v, want socket display and no xauthority", got)
	}
}

func TestApply(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	t.Setenv("XAUTHORITY", "/tmp/old")

	if err := Apply(Env{Display: ":4"}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := os.Getenv("DISPLAY"); got != ":4" {
		t.Fatalf("DISPLAY = %q, want :4", got)
	}
	if got := os.Getenv("XAUTHORITY"); got != "/tmp/old" {
		t.Fatalf("XAUTHORITY = %q, empty value must not overwrite", got)
	}
}

func TestResolve_HomeCookieSkipsSession(t *testing.T) {
	origLoginctl := loginctl
	defer func() { loginctl = origLoginctl }()
	calls := 0
	loginctl = func(args ...string) (string, error) {
		calls++
		return "", errors.New("loginctl should not run")
	}

	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	got := Resolve([]string{"HOME=" + home, "DISPLAY=:0"}, Env{})
	if got.Display != ":0" || got.XAuthority != xauth {
		t.Fatalf("Resolve() = %+v", got)
	}
	if calls != 0 {
		t.Fatalf("loginctl ran %d times", calls)
	}
}

func TestResolve_SessionCookieBeatsHomeWhenDisplayUnknown(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":1", "/run/user/1000/gdm/Xauthority" },
		func(string) string { return ":9" },
	)
	defer restore()

	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".Xauthority"), []byte("stale"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	got := Resolve([]string{"HOME=" + home}, Env{})
	if got.Display != ":1" || got.XAuthority != "/run/user/1000/gdm/Xauthority" {
		t.Fatalf("Resolve() = %+v, want session values", got)
	}
}

func TestHighestSocket(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"X0", "X2", "X10", "not-a-display", "Xfoo", "X"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if got := highestSocket(dir); got != ":10" {
		t.Fatalf("highestSocket = %q, want %q", got, ":10")
	}
	if got := highestSocket(filepath.Join(dir, "missing")); got != "" {
		t.Fatalf("highestSocket(missing) = %q, want empty", got)
	}
}

func TestUserSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := userSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("userSessions = %v, want [1 3]", got)
	}
}

func TestSessionEnv_ReadsLeaderEnviron(t *testing.T) {
	origLoginctl, origProc := loginctl, proc
	defer func() { loginctl, proc = origLoginctl, origProc }()

	uid := strconv.Itoa(os.Getuid())
	loginctl = func(args ...string) (string, error) {
		switch strings.Join(args, " ") {
		case "list-sessions --no-legend":
			return "c1 " + uid + " user tty2\nc2 " + uid + " user seat0\n", nil
		case "show-session c1 -p Display -p Leader":
			return "Display=\nLeader=700\n", nil
		case "show-session c2 -p Display -p Leader":
			return "Display=:1\nLeader=812\n", nil
		}
		return "", errors.New("unexpected loginctl call")
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "812"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	environ := "HOME=/home/u\x00DISPLAY=:1.0\x00XAUTHORITY=/run/user/1000/gdm/Xauthority\x00"
	if err := os.WriteFile(filepath.Join(root, "812", "environ"), []byte(environ), 0600); err != nil {
		t.Fatalf("write environ: %v", err)
	}
	proc = procfs.Table{Root: root}

	display, xauth := sessionEnv()
	if display != ":1.0" || xauth != "/run/user/1000/gdm/Xauthority" {
		t.Fatalf("sessionEnv() = %q, %q", display, xauth)
	}
}

func TestSessionEnv_UnreadableLeaderKeepsDisplay(t *testing.T) {
	origLoginctl, origProc := loginctl, proc
	defer func() { loginctl, proc = origLoginctl, origProc }()

	uid := strconv.Itoa(os.Getuid())
	loginctl = func(args ...string) (string, error) {
		if args[0] == "list-sessions" {
			return "c2 " + uid + " user seat0\n", nil
		}
		return "Display=:2\nLeader=812\n", nil
	}
	proc = procfs.Table{Root: t.TempDir()}

	if display, xauth := sessionEnv(); display != ":2" || xauth != "" {
		t.Fatalf("sessionEnv() = %q, %q", display, xauth)
	}
}

func stubDetectFns(
	session func() (string, string),
	socket func(string) string,
) func() {
	origSession, origSocket := sessionEnvFn, socketDisplay
	sessionEnvFn, socketDisplay = session, socket
	return func() {
		sessionEnvFn, socketDisplay = origSession, origSocket
	}
}
