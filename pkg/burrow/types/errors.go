package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure classes of a session.
var (
	// ErrNavigation indicates a target directory does not exist or is not
	// a directory. The cursor does not move.
	ErrNavigation = errors.New("no such directory")

	// ErrPermission indicates a filesystem operation failed for access or
	// I/O reasons. Tree state is left untouched.
	ErrPermission = errors.New("permission denied or i/o error")

	// ErrCommand indicates an unknown command or a missing argument.
	ErrCommand = errors.New("invalid command")
)

// NavigationError reports a failed change of directory.
type NavigationError struct {
	Path string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot enter %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot enter %s: not a directory", e.Path)
}

// Is makes errors.Is(err, ErrNavigation) match.
func (e *NavigationError) Is(target error) bool {
	return target == ErrNavigation
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// PermissionError reports a failed read, create or delete.
type PermissionError struct {
	Op   string
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is makes errors.Is(err, ErrPermission) match.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// CommandError reports input the shell cannot execute.
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// Is makes errors.Is(err, ErrCommand) match.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommand
}

// ScanError records a per-entry failure that degraded a scan result.
type ScanError struct {
	// Path is the entry path where the failure occurred.
	Path string `json:"path" yaml:"path"`

	// Error is the failure message.
	Error string `json:"error" yaml:"error"`
}
