//go:build unix

package scanner

import (
	"os"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
	"golang.org/x/sys/unix"
)

// probe reports the effective access of the current user via access(2),
// which accounts for ownership, groups and ACLs rather than mode bits alone.
func probe(path string, _ os.FileInfo) types.Permissions {
	return types.Permissions{
		Read:    unix.Access(path, unix.R_OK) == nil,
		Write:   unix.Access(path, unix.W_OK) == nil,
		Execute: unix.Access(path, unix.X_OK) == nil,
	}
}
