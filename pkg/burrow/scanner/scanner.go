package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/google/uuid"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/pool"
	"github.com/jamesainslie/burrow/pkg/burrow/sizecache"
	"github.com/jamesainslie/burrow/pkg/burrow/tree"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Result summarizes one scan.
type Result struct {
	// ID identifies the scan in log records.
	ID string

	// Path is the resolved path that was listed.
	Path string

	// Entries is the number of entries appended to the node.
	Entries int

	// TotalSize is the byte sum of all entries.
	TotalSize int64

	// Degraded counts entries whose metadata could not be fully read.
	Degraded int

	// Errors lists the per-entry failures and, if the directory itself
	// could not be listed, the listing failure.
	Errors []types.ScanError

	// Elapsed is the wall time from listing to the completion barrier.
	Elapsed time.Duration
}

// Coordinator dispatches per-entry scan tasks for a directory node.
type Coordinator struct {
	opts Options
	log  *logging.Logger
}

// New creates a coordinator. Options are validated and defaults applied.
func New(opts Options) *Coordinator {
	opts.Validate()
	return &Coordinator{
		opts: opts,
		log:  logging.Get("scanner"),
	}
}

// Capacity returns the pool size used for each scan.
func (c *Coordinator) Capacity() int {
	return c.opts.Workers
}

// Scan lists the immediate children of node.RealPath, inspects each one
// on a worker pool and appends one entry per child to node. It returns
// once every task has appended, then marks node scanned.
//
// An unreadable directory yields no entries and is not an error. ctx does
// not cancel tasks; once dispatched, every task runs to completion.
func (c *Coordinator) Scan(ctx context.Context, node *tree.Node) (*Result, error) {
	if node == nil {
		return nil, errors.New("scan: nil node")
	}

	start := time.Now()
	res := &Result{ID: uuid.NewString(), Path: node.RealPath}
	log := c.log.With("scan", res.ID[:8])

	children, err := os.ReadDir(node.RealPath)
	if err != nil {
		log.Warn("directory not listable", "path", node.RealPath, "error", err)
		res.Errors = append(res.Errors, types.ScanError{Path: node.RealPath, Error: err.Error()})
	}

	log.Info("scan started", "path", node.RealPath, "tasks", len(children), "workers", c.opts.Workers)

	var (
		wg       sync.WaitGroup
		degraded atomic.Int64
		errMu    sync.Mutex
	)

	p := pool.New(c.opts.Workers)
	for _, child := range children {
		name := child.Name()
		wg.Add(1)
		task := func() {
			defer wg.Done()
			entry := c.inspect(node.RealPath, name)
			if entry.Degraded {
				degraded.Add(1)
				errMu.Lock()
				res.Errors = append(res.Errors, types.ScanError{
					Path:  filepath.Join(node.RealPath, name),
					Error: entry.Err,
				})
				errMu.Unlock()
			}
			node.AppendEntry(entry)
		}
		if err := p.Submit(task); err != nil {
			wg.Done()
			log.Error("task rejected", "entry", name, "error", err)
		}
	}

	c.await(ctx, &wg, log)
	p.Shutdown()
	p.Wait()

	node.MarkScanned()

	res.TotalSize, res.Entries = node.Aggregates()
	res.Degraded = int(degraded.Load())
	res.Elapsed = time.Since(start)

	log.Info("scan finished",
		"path", node.RealPath,
		"entries", res.Entries,
		"size", res.TotalSize,
		"degraded", res.Degraded,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

// await blocks on the completion barrier. A cancelled ctx is logged but
// the barrier is still honored.
func (c *Coordinator) await(ctx context.Context, wg *sync.WaitGroup, log *logging.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		log.Warn("scan interrupted, waiting for running tasks", "cause", context.Cause(ctx))
	}
	<-done
}

// inspect builds the entry for dir/name. It never panics; any failure
// yields a degraded entry.
func (c *Coordinator) inspect(dir, name string) (entry types.FileEntry) {
	path := filepath.Join(dir, name)

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("scan task panicked", "path", path, "panic", r)
			entry = degradedEntry(name, entry.Kind, fmt.Errorf("panic: %v", r))
		}
	}()

	// Stat follows a symlink at the top level.
	info, err := os.Stat(path)
	if err != nil {
		c.log.Debug("entry unreadable", "path", path, "error", err)
		return degradedEntry(name, types.KindFile, err)
	}

	entry = types.FileEntry{
		Name:        name,
		Kind:        types.KindFile,
		Size:        info.Size(),
		Permissions: probe(path, info),
	}

	if info.IsDir() {
		entry.Kind = types.KindDir
		size, err := c.dirSize(path)
		if err != nil {
			c.log.Debug("subtree walk failed", "path", path, "error", err)
			degraded := degradedEntry(name, types.KindDir, err)
			degraded.Permissions = entry.Permissions
			return degraded
		}
		entry.Size = size
	}

	return entry
}

// dirSize returns the byte sum of every regular file below dir. Symlinks
// below the top level are not followed. Subdirectories that vanish or
// cannot be read contribute zero; only a failure at dir itself is an error.
func (c *Coordinator) dirSize(dir string) (int64, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return 0, err
	}

	if size, err := c.opts.Memo.Get(resolved); err == nil {
		return size, nil
	} else if !errors.Is(err, sizecache.ErrNotFound) {
		c.log.Warn("size memo read failed", "path", resolved, "error", err)
	}

	var total atomic.Int64
	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: c.opts.WalkWorkers,
	}

	walkErr := fastwalk.Walk(&conf, resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == resolved {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path == resolved {
				return nil
			}
			if size, err := c.opts.Memo.Get(path); err == nil {
				total.Add(size)
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(info.Size())
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}

	size := total.Load()
	if err := c.opts.Memo.Put(resolved, size); err != nil {
		c.log.Warn("size memo write failed", "path", resolved, "error", err)
	}
	return size, nil
}

func degradedEntry(name string, kind types.Kind, err error) types.FileEntry {
	return types.FileEntry{
		Name:     name,
		Kind:     kind,
		Degraded: true,
		Err:      err.Error(),
	}
}
