// Package procfs reads per-process facts (executable, environment) from /proc.
package procfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const deletedSuffix = " (deleted)"

// Table resolves process ids against a proc filesystem mount.
type Table struct {
	// Root defaults to /proc.
	Root string
}

func (t Table) dir(pid uint32) string {
	root := t.Root
	if root == "" {
		root = "/proc"
	}
	return filepath.Join(root, strconv.FormatUint(uint64(pid), 10))
}

// ExecutablePath returns the absolute path of the executable backing pid.
// It fails when the process no longer exists.
func (t Table) ExecutablePath(pid uint32) (string, error) {
	if pid == 0 {
		return "", fmt.Errorf("invalid pid 0")
	}
	path, err := os.Readlink(filepath.Join(t.dir(pid), "exe"))
	if err != nil {
		return "", fmt.Errorf("resolve executable of pid %d: %w", pid, err)
	}
	// The kernel marks executables that were replaced or removed on disk.
	path = strings.TrimSuffix(path, deletedSuffix)
	if path == "" {
		return "", fmt.Errorf("pid %d has no executable", pid)
	}
	return path, nil
}

// Environ returns the initial environment of pid. Reading another user's
// process fails with a permission error.
func (t Table) Environ(pid uint32) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(t.dir(pid), "environ"))
	if err != nil {
		return nil, fmt.Errorf("read environment of pid %d: %w", pid, err)
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(string(data), "\x00") {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env, nil
}
