package shell

import (
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Command names.
const (
	CmdList    = "ls"
	CmdTouch   = "touch"
	CmdMkdir   = "mkdir"
	CmdRm      = "rm"
	CmdRmdir   = "rmdir"
	CmdCd      = "cd"
	CmdRefresh = "refresh"
	CmdHelp    = "help"
	CmdExit    = "exit"
)

var aliases = map[string]string{
	"dir":  CmdList,
	"quit": CmdExit,
}

// needsArg reports, per command, whether a parameter is required.
var needsArg = map[string]bool{
	CmdList:    false,
	CmdTouch:   true,
	CmdMkdir:   true,
	CmdRm:      true,
	CmdRmdir:   true,
	CmdCd:      true,
	CmdRefresh: false,
	CmdHelp:    false,
	CmdExit:    false,
}

// Command is one parsed input line.
type Command struct {
	// Name is the canonical lowercase command name.
	Name string

	// Arg is the rest of the line, trimmed. Names with spaces need no
	// quoting.
	Arg string
}

// Parse splits line into a command and its parameter. Command names are
// case-insensitive. A blank line parses to the zero Command.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}

	name, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		name, arg = line[:i], line[i+1:]
	}
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	required, ok := needsArg[name]
	if !ok {
		return Command{}, &types.CommandError{Command: name, Reason: "unknown command, type help for the list"}
	}
	if required && arg == "" {
		return Command{}, &types.CommandError{Command: name, Reason: "missing name"}
	}

	return Command{Name: name, Arg: arg}, nil
}
