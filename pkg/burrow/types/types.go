// Package types provides core data types for the burrow file browser.
// It includes the per-entry metadata record produced by a directory scan,
// the entry kind and permission model, and size formatting helpers.
package types

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Kind is the coarse classification of a filesystem object.
// Finer classification by extension is a presentation concern.
type Kind int

const (
	// KindFile is any object that is not a directory.
	KindFile Kind = iota

	// KindDir is a directory.
	KindDir
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// MarshalText implements encoding.TextMarshaler so kinds render as names
// in JSON and YAML listings.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Permissions holds the effective access of the current user to an entry.
type Permissions struct {
	Read    bool `json:"read" yaml:"read"`
	Write   bool `json:"write" yaml:"write"`
	Execute bool `json:"execute" yaml:"execute"`
}

// String renders the granted permissions as a subset of "rwx",
// e.g. "rw" for a readable, writable, non-executable file.
func (p Permissions) String() string {
	var b strings.Builder
	if p.Read {
		b.WriteByte('r')
	}
	if p.Write {
		b.WriteByte('w')
	}
	if p.Execute {
		b.WriteByte('x')
	}
	return b.String()
}

// FileEntry is the metadata record for one object inside a scanned directory.
type FileEntry struct {
	// Name is the base name of the object.
	Name string `json:"name" yaml:"name"`

	// Kind is directory or other file.
	Kind Kind `json:"kind" yaml:"kind"`

	// Size is the length of a file, or the recursive byte sum of a
	// directory's subtree.
	Size int64 `json:"size" yaml:"size"`

	// Permissions is the effective read/write/execute access.
	Permissions Permissions `json:"permissions" yaml:"permissions"`

	// Degraded is set when metadata could not be fully read. Size and
	// permissions of a degraded entry are best effort (usually zero).
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	// Err describes why the entry is degraded.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e FileEntry) IsDir() bool {
	return e.Kind == KindDir
}

// HumanSize returns the entry size formatted as a human-readable string.
func (e FileEntry) HumanSize() string {
	return FormatSize(e.Size)
}

// FormatSize converts a size in bytes to a human-readable string
// using binary (IEC) units.
//
// Examples:
//   - FormatSize(0) returns "0 B"
//   - FormatSize(1024) returns "1.0 KiB"
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// Listing is a snapshot of one scanned directory as presented to the user.
type Listing struct {
	// Path is the logical path of the directory.
	Path string `json:"path" yaml:"path"`

	// Entries are the directory's children in presentation order.
	Entries []FileEntry `json:"entries" yaml:"entries"`

	// TotalSize is the byte sum of all entries.
	TotalSize int64 `json:"total_size" yaml:"total_size"`

	// TotalObjects is the number of entries.
	TotalObjects int `json:"total_objects" yaml:"total_objects"`

	// Scanned is false when the directory has not finished a scan.
	Scanned bool `json:"scanned" yaml:"scanned"`
}

// Degraded returns the number of entries with incomplete metadata.
func (l *Listing) Degraded() int {
	n := 0
	for _, e := range l.Entries {
		if e.Degraded {
			n++
		}
	}
	return n
}
