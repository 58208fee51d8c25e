// Package shell turns input lines into session operations. It holds no
// terminal state: callers feed it lines and render the Responses it
// returns.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/output"
	"github.com/jamesainslie/burrow/pkg/burrow/scanner"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Session is the set of operations the shell drives.
type Session interface {
	Path() string
	List() *types.Listing
	ChangeDir(ctx context.Context, target string) (*scanner.Result, error)
	Refresh(ctx context.Context) (*scanner.Result, error)
	CreateFile(name string) (bool, error)
	CreateDir(name string) (bool, error)
	DeleteFile(ctx context.Context, name string) (bool, error)
	DeleteDir(ctx context.Context, name string) (bool, error)
}

// Response is the outcome of one input line.
type Response struct {
	// Text is a message for the user.
	Text string

	// Listing is set by ls.
	Listing *types.Listing

	// Scan is set when the command ran a scan.
	Scan *scanner.Result

	// Err is a recoverable failure to show the user.
	Err error

	// Exit asks the caller to end the session.
	Exit bool

	// Confirm is a question the next line answers. Only "Y" or "y"
	// carries out the pending command.
	Confirm string
}

// Shell executes commands against a session, one at a time.
type Shell struct {
	sess    Session
	pending *Command
	log     *logging.Logger
}

// New returns a shell over sess.
func New(sess Session) *Shell {
	return &Shell{sess: sess, log: logging.Get("shell")}
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	if s.pending != nil {
		return confirmQuestion(*s.pending) + " "
	}
	return output.Prompt(s.sess.Path())
}

// Pending reports whether the next line answers a confirmation.
func (s *Shell) Pending() bool {
	return s.pending != nil
}

// Execute runs one input line.
func (s *Shell) Execute(ctx context.Context, line string) Response {
	if s.pending != nil {
		cmd := *s.pending
		s.pending = nil
		if answer := strings.TrimSpace(line); answer != "Y" && answer != "y" {
			s.log.Debug("deletion cancelled", "command", cmd.Name, "name", cmd.Arg)
			return Response{Text: "cancelled"}
		}
		return s.run(ctx, cmd)
	}

	cmd, err := Parse(line)
	if err != nil {
		s.log.Debug("rejected input", "line", line, "error", err)
		return Response{Err: err}
	}

	switch cmd.Name {
	case "":
		return Response{}
	case CmdRm, CmdRmdir:
		s.pending = &cmd
		return Response{Confirm: confirmQuestion(cmd)}
	}
	return s.run(ctx, cmd)
}

func (s *Shell) run(ctx context.Context, cmd Command) Response {
	s.log.Debug("command", "name", cmd.Name, "arg", cmd.Arg, "path", s.sess.Path())

	switch cmd.Name {
	case CmdList:
		return Response{Listing: s.sess.List()}

	case CmdCd:
		res, err := s.sess.ChangeDir(ctx, cmd.Arg)
		return Response{Scan: res, Err: err}

	case CmdRefresh:
		res, err := s.sess.Refresh(ctx)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Scan: res, Text: fmt.Sprintf("rescanned %s: %d objects, %s",
			s.sess.Path(), res.Entries, types.FormatSize(res.TotalSize))}

	case CmdTouch:
		created, err := s.sess.CreateFile(cmd.Arg)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Text: output.Created("file", cmd.Arg, created)}

	case CmdMkdir:
		created, err := s.sess.CreateDir(cmd.Arg)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Text: output.Created("directory", cmd.Arg, created)}

	case CmdRm:
		deleted, err := s.sess.DeleteFile(ctx, cmd.Arg)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Text: output.Deleted("file", cmd.Arg, deleted)}

	case CmdRmdir:
		deleted, err := s.sess.DeleteDir(ctx, cmd.Arg)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Text: output.Deleted("directory", cmd.Arg, deleted)}

	case CmdHelp:
		return Response{Text: output.Menu()}

	case CmdExit:
		return Response{Exit: true}
	}

	return Response{Err: &types.CommandError{Command: cmd.Name, Reason: "unknown command"}}
}

func confirmQuestion(cmd Command) string {
	if cmd.Name == CmdRmdir {
		return fmt.Sprintf("Delete directory %s and everything in it? Type Y to confirm:", cmd.Arg)
	}
	return fmt.Sprintf("Delete file %s? Type Y to confirm:", cmd.Arg)
}
