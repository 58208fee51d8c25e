// Package trash moves files and directories to the desktop trash,
// falling back to permanent removal when no trash tool is available.
package trash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jamesainslie/burrow/pkg/burrow/logging"
)

// commandTimeout bounds a single trash tool invocation.
const commandTimeout = 30 * time.Second

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// Trash moves objects to the system trash.
type Trash struct {
	goos     string
	lookPath func(file string) (string, error)
	run      Runner
	timeout  time.Duration
	log      *logging.Logger
}

// New returns a Trash for the running platform.
func New() *Trash {
	return &Trash{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      execRun,
		timeout:  commandTimeout,
		log:      logging.Get("session"),
	}
}

func execRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Move sends path to the trash. It reports true when a trash tool took the
// object and false when it was removed permanently instead.
func (t *Trash) Move(ctx context.Context, path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		return false, fmt.Errorf("cannot trash %q: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", path, err)
	}

	for _, argv := range t.commands(abs) {
		bin, err := t.lookPath(argv[0])
		if err != nil {
			continue
		}

		runCtx, cancel := context.WithTimeout(ctx, t.timeout)
		err = t.run(runCtx, bin, argv[1:]...)
		cancel()
		if err == nil {
			t.log.Debug("moved to trash", "path", abs, "tool", argv[0])
			return true, nil
		}
		t.log.Debug("trash tool failed", "tool", argv[0], "error", err)
	}

	if err := os.RemoveAll(abs); err != nil {
		return false, fmt.Errorf("delete %q: %w", abs, err)
	}
	t.log.Info("no trash available, removed permanently", "path", abs)
	return false, nil
}

// commands returns the candidate trash invocations for abs, in order.
func (t *Trash) commands(abs string) [][]string {
	switch t.goos {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, abs)
		return [][]string{{"osascript", "-e", script}}
	case "linux":
		return [][]string{
			{"gio", "trash", abs},
			{"trash-put", abs},
		}
	default:
		return nil
	}
}
