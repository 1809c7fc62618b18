// Package pid guards against two monitors switching plans at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/powerplanctl/internal/errors"
)

const (
	pidFile = "powerplanctl.pid"
)

// DefaultPath is the PID file location used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// File is a PID file at a fixed path.
type File struct {
	path string
}

// New returns a File for path, or for DefaultPath when path is empty.
func New(path string) *File {
	if path == "" {
		path = DefaultPath()
	}
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Write writes the current process ID. It fails with ErrAlreadyRunning when
// the file names another live process. Stale or unreadable files are
// overwritten.
func (f *File) Write() error {
	errFactory := errors.New()

	if owner, ok := f.owner(); ok && owner != os.Getpid() && alive(owner) {
		return errFactory.WithData(errors.ErrAlreadyRunning, struct {
			PID  int
			Path string
		}{
			PID:  owner,
			Path: f.path,
		})
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file if it exists.
func (f *File) Remove() error {
	errFactory := errors.New()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func (f *File) owner() (int, bool) {
	bytes, err := os.ReadFile(f.path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
