package tui

import (
	"os"

	"golang.org/x/term"
)

// Available reports whether the full-screen shell can run: stdin and
// stdout must both be terminals, and CI must not be set. Piped input
// falls back to the line shell.
func Available() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
