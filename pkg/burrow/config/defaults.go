// Package config loads burrow configuration from a YAML file, BURROW_*
// environment variables and command-line flags, in increasing precedence.
package config

// Default configuration values.
const (
	// DefaultPath is the starting directory when none is given.
	// Empty means the user's home directory.
	DefaultPath = ""

	// DefaultWorkers selects the tuned pool size.
	DefaultWorkers = 0

	// DefaultSort orders listings by name.
	DefaultSort = SortName

	// DefaultOutput is the listing format.
	DefaultOutput = "table"

	// DefaultWalkWorkers keeps each entry's subtree walk single-threaded.
	DefaultWalkWorkers = 1

	// DefaultLogLevel is the default level for every component.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the rotation threshold, parsed by go-humanize.
	DefaultLogMaxSize = "10MB"
)

// Listing sort orders.
const (
	SortName = "name"
	SortSize = "size"
	SortNone = "none"
)

// SortOrders lists the accepted values of the sort key.
var SortOrders = []string{SortName, SortSize, SortNone}

// defaultComponents are the per-component log levels written by init.
var defaultComponents = map[string]string{
	"scanner": "info",
	"session": "info",
	"shell":   "info",
	"tui":     "info",
}
