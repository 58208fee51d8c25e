// Package scanner fills a directory node with one metadata entry per
// child. Each child is inspected by its own task on a bounded worker pool;
// a directory child is sized by a synchronous walk of its whole subtree.
package scanner

import (
	"github.com/jamesainslie/burrow/pkg/burrow/sizecache"
	"github.com/jamesainslie/burrow/pkg/burrow/tuner"
)

// DefaultWalkWorkers keeps the subtree walk inside one task
// single-threaded; concurrency comes from the pool, one task per child.
const DefaultWalkWorkers = 1

// Options configures a Coordinator.
type Options struct {
	// Workers is the pool capacity used for every scan.
	// Zero or negative selects the tuned default.
	Workers int

	// WalkWorkers is the number of goroutines a single subtree walk may
	// use. Zero or negative selects DefaultWalkWorkers.
	WalkWorkers int

	// Memo caches subtree sizes across scans in a session.
	// Nil disables memoization.
	Memo *sizecache.Cache
}

// DefaultOptions returns options sized for the current machine.
func DefaultOptions() Options {
	return Options{
		Workers:     tuner.Workers(0),
		WalkWorkers: DefaultWalkWorkers,
	}
}

// Validate replaces out-of-range values with defaults.
func (o *Options) Validate() {
	if o.Workers < 1 {
		o.Workers = tuner.Workers(0)
	}
	if o.WalkWorkers < 1 {
		o.WalkWorkers = DefaultWalkWorkers
	}
}
