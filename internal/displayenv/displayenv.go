// Package displayenv recovers DISPLAY and XAUTHORITY for processes started
// outside the graphical session, such as MCP servers launched by an editor.
package displayenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/activewindow/internal/procfs"
)

const socketDir = "/tmp/.X11-unix"

// Seams for tests.
var (
	loginctl      = runLoginctl
	proc          = procfs.Table{}
	sessionEnvFn  = sessionEnv
	socketDisplay = highestSocket
)

// Env is the pair of variables an X11 client needs.
type Env struct {
	Display    string
	XAuthority string
}

// fill sets the fields of e that are still empty.
func (e *Env) fill(display, xauthority string) {
	if e.Display == "" {
		e.Display = strings.TrimSpace(display)
	}
	if e.XAuthority == "" {
		e.XAuthority = strings.TrimSpace(xauthority)
	}
}

func (e Env) complete() bool { return e.Display != "" && e.XAuthority != "" }

// Resolve fills in whatever environ lacks, in order: environ itself, the
// configured values, the user's login session, the highest numbered socket
// in /tmp/.X11-unix, and ~/.Xauthority. When the display is already known
// and ~/.Xauthority exists, the login session is not consulted.
func Resolve(environ []string, configured Env) Env {
	var env Env
	env.fill(lookup(environ, "DISPLAY"), lookup(environ, "XAUTHORITY"))
	env.fill(configured.Display, configured.XAuthority)

	cookie := homeCookie(environ)
	if env.Display != "" {
		env.fill("", cookie)
	}
	if env.complete() {
		return env
	}

	env.fill(sessionEnvFn())
	if env.Display == "" {
		env.fill(socketDisplay(socketDir), "")
	}
	env.fill("", cookie)
	return env
}

// Apply exports the non-empty fields into the process environment.
func Apply(env Env) error {
	for key, value := range map[string]string{"DISPLAY": env.Display, "XAUTHORITY": env.XAuthority} {
		if value == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// homeCookie returns $HOME/.Xauthority if the file exists.
func homeCookie(environ []string) string {
	home := strings.TrimSpace(lookup(environ, "HOME"))
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return ""
	}
	path := filepath.Join(home, ".Xauthority")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func runLoginctl(args ...string) (string, error) {
	out, err := exec.Command("loginctl", args...).Output()
	return string(out), err
}

// sessionEnv takes DISPLAY from the first graphical session owned by the
// current user, preferring the session leader's own environment.
func sessionEnv() (display, xauthority string) {
	list, err := loginctl("list-sessions", "--no-legend")
	if err != nil {
		return "", ""
	}
	for _, id := range userSessions(list, strconv.Itoa(os.Getuid())) {
		out, err := loginctl("show-session", id, "-p", "Display", "-p", "Leader")
		if err != nil {
			continue
		}
		props := parseProperties(out)
		display = props["Display"]
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		leader, err := strconv.ParseUint(props["Leader"], 10, 32)
		if err != nil || leader == 0 {
			return display, ""
		}
		env, err := proc.Environ(uint32(leader))
		if err != nil {
			return display, ""
		}
		if d := strings.TrimSpace(env["DISPLAY"]); d != "" {
			display = d
		}
		return display, env["XAUTHORITY"]
	}
	return "", ""
}

// userSessions picks the session ids owned by uid from
// "loginctl list-sessions --no-legend" output.
func userSessions(list, uid string) []string {
	var ids []string
	for _, line := range strings.Split(list, "\n") {
		if f := strings.Fields(line); len(f) >= 2 && f[1] == uid {
			ids = append(ids, f[0])
		}
	}
	return ids
}

// parseProperties reads the Key=Value lines printed by loginctl show-session.
func parseProperties(out string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		if k, v, ok := strings.Cut(strings.TrimSpace(line), "="); ok {
			props[k] = strings.TrimSpace(v)
		}
	}
	return props
}

func highestSocket(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	best := -1
	for _, e := range entries {
		n, err := strconv.Atoi(strings.TrimPrefix(e.Name(), "X"))
		if err != nil || !strings.HasPrefix(e.Name(), "X") {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return ""
	}
	return ":" + strconv.Itoa(best)
}

func lookup(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}
