//go:build darwin

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect reports CPU cores from the runtime and total memory from sysctl.
// Available memory is estimated as half of total; macOS keeps most free
// memory in the file cache.
func Detect() (SystemResources, error) {
	res := SystemResources{CPUCores: runtime.NumCPU()}

	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		res.TotalRAM = defaultTotalRAM
		res.AvailableRAM = defaultTotalRAM / 2
		return res, fmt.Errorf("sysctl hw.memsize: %w", err)
	}

	res.TotalRAM = int64(memsize)
	res.AvailableRAM = res.TotalRAM / 2
	return res, nil
}
