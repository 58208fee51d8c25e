package output

import (
	"fmt"
	"strings"
)

// menuItems is the command reference shown by help and at startup.
var menuItems = [][2]string{
	{"ls", "list files and directories in the current directory"},
	{"touch <name>", "create a file"},
	{"mkdir <name>", "create a directory"},
	{"rm <name>", "delete a file (asks for confirmation)"},
	{"rmdir <name>", "delete a directory and its contents (asks for confirmation)"},
	{"cd <dir>", "change directory; 'cd ..' goes up, 'cd /' returns to the root"},
	{"refresh", "rescan the current directory"},
	{"help", "show this menu"},
	{"exit", "quit"},
}

// Menu returns the command reference.
func Menu() string {
	var b strings.Builder
	for _, item := range menuItems {
		fmt.Fprintf(&b, "  %-14s %s\n", item[0], item[1])
	}
	return b.String()
}

// Prompt returns the input prompt for the current logical path.
func Prompt(path string) string {
	return path + " > "
}

// Created renders the outcome of touch or mkdir.
func Created(kind, name string, created bool) string {
	if created {
		return fmt.Sprintf("%s %s created", kind, name)
	}
	return fmt.Sprintf("%s %s already exists", kind, name)
}

// Deleted renders the outcome of rm or rmdir.
func Deleted(kind, name string, deleted bool) string {
	if deleted {
		return fmt.Sprintf("%s %s deleted", kind, name)
	}
	return fmt.Sprintf("%s %s doesn't exist", kind, name)
}
