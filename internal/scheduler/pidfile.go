package scheduler

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// ErrAlreadyRunning indicates another live daemon holds the PID file.
var ErrAlreadyRunning = errors.New("daemon already running")

// DefaultPIDPath returns the default PID file location.
func DefaultPIDPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "tracetail", "daemon.pid")
	}
	return filepath.Join(os.TempDir(), "tracetail-daemon.pid")
}

// AcquirePIDFile claims the single-instance guard at path. A stale file left
// by a dead process is replaced; a file owned by a live process aborts with
// ErrAlreadyRunning. The returned release removes the file.
func AcquirePIDFile(path string) (release func() error, err error) {
	if data, readErr := os.ReadFile(path); readErr == nil {
		if pid, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil {
			if processAlive(pid) {
				return nil, errors.Wrapf(ErrAlreadyRunning, "pid %d holds %s", pid, path)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating pid file directory")
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, errors.Wrap(err, "writing pid file")
	}
	return func() error { return os.Remove(path) }, nil
}

// processAlive probes pid with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
