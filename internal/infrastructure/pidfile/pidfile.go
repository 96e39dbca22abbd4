package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire when a live process owns the file
var ErrAlreadyRunning = errors.New("station server is already running")

// PIDFile guards a single running `serve` process per PID file path
type PIDFile struct {
	path string
}

// New creates a PIDFile for path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. A stale or unreadable file left by a dead
// process is replaced; a file owned by a live process fails with ErrAlreadyRunning.
func (p *PIDFile) Acquire() error {
	if pid, ok := p.readPID(); ok {
		if pid != os.Getpid() && isProcessRunning(pid) {
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
		}
	}
	_ = os.Remove(p.path)

	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file; a missing file is not an error
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func (p *PIDFile) readPID() (int, bool) {
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

// isProcessRunning probes pid with signal 0
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
		// exists, owned by another user
		return true
	default:
		return false
	}
}
