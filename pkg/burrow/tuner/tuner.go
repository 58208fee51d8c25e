// Package tuner detects CPU and memory and derives the scan pool size and
// whether the subtree size memo is worth enabling.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the free RAM in bytes. May be an estimate.
	AvailableRAM int64
}

// Pool size limits.
const (
	// workersPerCore is the pool size multiplier.
	workersPerCore = 2

	minWorkers = 2
	maxWorkers = 64
)

// defaultTotalRAM is assumed when memory cannot be detected.
const defaultTotalRAM int64 = 8 * 1024 * 1024 * 1024

// minMemoRAM is the available memory below which the size memo is off
// by default.
const minMemoRAM int64 = 256 * 1024 * 1024

// Config is the tuned configuration for the detected machine.
type Config struct {
	// Workers is the scan pool capacity.
	Workers int

	// Memo reports whether the subtree size memo should be enabled.
	Memo bool
}

// Calculate returns the configuration for the given resources:
// cores * 2 workers clamped to [2, 64], memo on when enough RAM is free.
func Calculate(res SystemResources) Config {
	workers := res.CPUCores * workersPerCore
	workers = max(workers, minWorkers)
	workers = min(workers, maxWorkers)

	return Config{
		Workers: workers,
		Memo:    res.AvailableRAM >= minMemoRAM,
	}
}

// CalculateWithOverrides applies a user worker count. A positive override
// wins over the calculated value and is only capped at the maximum.
func CalculateWithOverrides(res SystemResources, workers int) Config {
	cfg := Calculate(res)
	if workers > 0 {
		cfg.Workers = min(workers, maxWorkers)
	}
	return cfg
}

// Workers detects the machine and returns the pool capacity, honoring a
// positive override. Detection errors fall back to the partial result.
func Workers(override int) int {
	res, _ := Detect()
	return CalculateWithOverrides(res, override).Workers
}

// Memo detects the machine and reports whether the subtree size memo
// should be on by default.
func Memo() bool {
	res, _ := Detect()
	return Calculate(res).Memo
}
