//go:build !darwin && !linux

package tuner

import "runtime"

// Detect reports CPU cores from the runtime and assumes the default
// memory size.
func Detect() (SystemResources, error) {
	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     defaultTotalRAM,
		AvailableRAM: defaultTotalRAM / 2,
	}, nil
}
