//go:build !unix

package scanner

import (
	"os"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// probe approximates access from the owner mode bits.
func probe(_ string, info os.FileInfo) types.Permissions {
	mode := info.Mode().Perm()
	return types.Permissions{
		Read:    mode&0o400 != 0,
		Write:   mode&0o200 != 0,
		Execute: mode&0o100 != 0 || info.IsDir(),
	}
}
