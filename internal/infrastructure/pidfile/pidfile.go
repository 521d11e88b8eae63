package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// PIDFile manages a process ID file for daemon single-instance enforcement
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. It fails if the file names a live process;
// stale or unparsable files are replaced.
func (p *PIDFile) Acquire() error {
	if pid, ok := p.read(); ok && isProcessRunning(pid) {
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	}
	_ = os.Remove(p.path)

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// Running reports the PID recorded in the file if that process is alive
func (p *PIDFile) Running() (int, bool) {
	pid, ok := p.read()
	if !ok || !isProcessRunning(pid) {
		return 0, false
	}
	return pid, true
}

// KillExisting sends SIGTERM to the recorded process and waits up to
// timeout for it to exit. A missing or stale file is not an error.
func (p *PIDFile) KillExisting(timeout time.Duration) error {
	pid, ok := p.Running()
	if !ok {
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("process %d still running after %s", pid, timeout)
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func (p *PIDFile) read() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// isProcessRunning sends signal 0, which only checks for existence
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
