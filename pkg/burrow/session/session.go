// Package session ties the directory tree, the scan coordinator and the
// filesystem mutations together behind the operations a user can issue.
//
// A Session is driven by one controlling goroutine; only the scans it
// starts fan out to worker goroutines.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/scanner"
	"github.com/jamesainslie/burrow/pkg/burrow/sizecache"
	"github.com/jamesainslie/burrow/pkg/burrow/trash"
	"github.com/jamesainslie/burrow/pkg/burrow/tree"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

var (
	errIsDir   = errors.New("is a directory, use rmdir")
	errNotDir  = errors.New("not a directory, use rm")
	errNotOpen = errors.New("session not open")

	errOutsideRoot = errors.New("outside the browsed tree")
	errBadName     = errors.New("name must not contain a path separator")
)

// Options configures a Session.
type Options struct {
	// StartPath is opened when Open is called with an empty root.
	// Empty means the user's home directory.
	StartPath string

	// Workers is the scan pool capacity; zero selects the tuned default.
	Workers int

	// WalkWorkers is the goroutine count of one subtree walk.
	WalkWorkers int

	// Memo enables the subtree size memo.
	Memo bool

	// Sort is the listing order: config.SortName, SortSize or SortNone.
	Sort string

	// UseTrash sends deleted objects to the system trash.
	UseTrash bool
}

// OptionsFrom builds session options from the loaded configuration.
func OptionsFrom(cfg *config.Config) (Options, error) {
	start, err := cfg.StartPath()
	if err != nil {
		return Options{}, err
	}
	return Options{
		StartPath:   start,
		Workers:     cfg.Workers,
		WalkWorkers: cfg.Scan.WalkWorkers,
		Memo:        cfg.Scan.Memo,
		Sort:        cfg.Sort,
		UseTrash:    cfg.Delete.UseTrash,
	}, nil
}

// Session is one browsing session over a directory tree.
type Session struct {
	opts  Options
	tree  *tree.Tree
	coord *scanner.Coordinator
	memo  *sizecache.Cache
	trash *trash.Trash
	log   *logging.Logger
}

// New creates a session. Call Open before any other operation and Close
// when done.
func New(opts Options) (*Session, error) {
	var memo *sizecache.Cache
	if opts.Memo {
		var err error
		if memo, err = sizecache.Open(); err != nil {
			return nil, err
		}
	}

	s := &Session{
		opts: opts,
		tree: tree.New(),
		coord: scanner.New(scanner.Options{
			Workers:     opts.Workers,
			WalkWorkers: opts.WalkWorkers,
			Memo:        memo,
		}),
		memo: memo,
		log:  logging.Get("session"),
	}
	if opts.UseTrash {
		s.trash = trash.New()
	}
	return s, nil
}

// Close releases the size memo.
func (s *Session) Close() error {
	return s.memo.Close()
}

// Open makes root the tree root and scans it. An empty root opens the
// configured start path.
func (s *Session) Open(ctx context.Context, root string) (*scanner.Result, error) {
	if s.tree.Len() > 0 {
		return nil, errors.New("session already open")
	}

	if root == "" {
		root = s.opts.StartPath
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		root = home
	}

	logical, err := filepath.Abs(root)
	if err != nil {
		return nil, &types.NavigationError{Path: root, Err: err}
	}

	resolved, err := s.resolveDir(logical, logical)
	if err != nil {
		return nil, err
	}

	node, _ := s.tree.EnterOrCreate(logical, resolved)
	s.log.Info("session opened", "root", logical, "real", resolved, "workers", s.coord.Capacity())
	return s.scan(ctx, node)
}

// ChangeDir moves to target. Trailing separators are ignored. "/" or "\"
// returns to the root, ".." goes up one level, anything else is joined to
// the current logical path and must stay inside the root.
// A directory is scanned only on its first visit or after Clear; the
// returned result is nil when no scan ran.
func (s *Session) ChangeDir(ctx context.Context, target string) (*scanner.Result, error) {
	if s.tree.Len() == 0 {
		return nil, errNotOpen
	}

	if len(target) > 1 {
		if target = strings.TrimRight(target, `/\`); target == "" {
			target = "/"
		}
	}

	switch target {
	case "/", `\`:
		s.tree.ToRoot()
		s.log.Debug("cd root", "path", s.tree.CurrentPath())
		return nil, nil
	case "..":
		s.tree.Up()
		s.log.Debug("cd up", "path", s.tree.CurrentPath())
		return nil, nil
	}

	current := s.tree.CurrentPath()
	logical := tree.Clean(filepath.Join(current, target))
	if logical == current {
		return nil, nil
	}
	root := s.tree.RootPath()
	if logical == root {
		s.tree.ToRoot()
		return nil, nil
	}
	if !within(root, logical) {
		return nil, &types.NavigationError{Path: logical, Err: errOutsideRoot}
	}

	resolved, err := s.resolveDir(logical, filepath.Join(s.tree.RealPath(), target))
	if err != nil {
		return nil, err
	}

	node, existed := s.tree.EnterOrCreate(logical, resolved)
	s.log.Debug("cd", "path", logical, "real", resolved, "existed", existed)
	if existed && node.Scanned() {
		return nil, nil
	}
	return s.scan(ctx, node)
}

// resolveDir checks that candidate is a directory and returns its real
// path. logical names the directory in errors.
func (s *Session) resolveDir(logical, candidate string) (string, error) {
	info, err := os.Stat(candidate)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", &types.NavigationError{Path: logical, Err: err}
	case err != nil:
		return "", &types.PermissionError{Op: "stat", Path: logical, Err: err}
	case !info.IsDir():
		return "", &types.NavigationError{Path: logical}
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", &types.PermissionError{Op: "resolve", Path: logical, Err: err}
	}
	return resolved, nil
}

// Refresh discards the current directory's entries and scans it again.
func (s *Session) Refresh(ctx context.Context) (*scanner.Result, error) {
	node := s.tree.Current()
	if node == nil {
		return nil, errNotOpen
	}

	s.invalidate(node.RealPath)
	s.tree.Clear()
	return s.scan(ctx, node)
}

func (s *Session) scan(ctx context.Context, node *tree.Node) (*scanner.Result, error) {
	res, err := s.coord.Scan(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", node.LogicalPath, err)
	}
	return res, nil
}

// List returns the current directory as a listing in the configured order.
func (s *Session) List() *types.Listing {
	size, objects := s.tree.CurrentAggregates()
	entries := s.tree.CurrentEntries()
	Sort(entries, s.opts.Sort)

	return &types.Listing{
		Path:         s.tree.CurrentPath(),
		Entries:      entries,
		TotalSize:    size,
		TotalObjects: objects,
		Scanned:      s.tree.IsScanned(),
	}
}

// Path returns the current logical path.
func (s *Session) Path() string {
	return s.tree.CurrentPath()
}

// RootPath returns the logical path of the tree root.
func (s *Session) RootPath() string {
	return s.tree.RootPath()
}

// Depth returns the current directory's distance from the root.
func (s *Session) Depth() int {
	return s.tree.Depth()
}

// Workers returns the scan pool capacity.
func (s *Session) Workers() int {
	return s.coord.Capacity()
}

// CreateFile creates an empty file in the current directory. It reports
// false when an object with that name already exists.
func (s *Session) CreateFile(name string) (bool, error) {
	path, err := s.child(name)
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, &types.PermissionError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return false, &types.PermissionError{Op: "create", Path: path, Err: err}
	}

	s.invalidate(path)
	s.log.Info("file created", "path", path)
	return true, nil
}

// CreateDir creates a directory in the current directory. It reports
// false when an object with that name already exists.
func (s *Session) CreateDir(name string) (bool, error) {
	path, err := s.child(name)
	if err != nil {
		return false, err
	}

	err = os.Mkdir(path, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, &types.PermissionError{Op: "create", Path: path, Err: err}
	}

	s.invalidate(path)
	s.log.Info("directory created", "path", path)
	return true, nil
}

// DeleteFile removes a non-directory object from the current directory.
// It reports false when nothing by that name exists.
func (s *Session) DeleteFile(ctx context.Context, name string) (bool, error) {
	return s.remove(ctx, name, false)
}

// DeleteDir removes a directory and everything below it from the current
// directory. It reports false when nothing by that name exists.
func (s *Session) DeleteDir(ctx context.Context, name string) (bool, error) {
	return s.remove(ctx, name, true)
}

func (s *Session) remove(ctx context.Context, name string, dir bool) (bool, error) {
	path, err := s.child(name)
	if err != nil {
		return false, err
	}

	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &types.PermissionError{Op: "delete", Path: path, Err: err}
	}
	if info.IsDir() != dir {
		if dir {
			return false, &types.PermissionError{Op: "delete", Path: path, Err: errNotDir}
		}
		return false, &types.PermissionError{Op: "delete", Path: path, Err: errIsDir}
	}

	start := time.Now()
	if s.trash != nil {
		trashed, err := s.trash.Move(ctx, path)
		if err != nil {
			return false, &types.PermissionError{Op: "delete", Path: path, Err: err}
		}
		s.log.Info("deleted", "path", path, "trashed", trashed, "elapsed", time.Since(start))
	} else {
		if dir {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return false, &types.PermissionError{Op: "delete", Path: path, Err: err}
		}
		s.log.Info("deleted", "path", path, "elapsed", time.Since(start))
	}

	s.invalidate(path)
	return true, nil
}

// child joins name to the current directory's real path.
func (s *Session) child(name string) (string, error) {
	dir := s.tree.RealPath()
	if dir == "" {
		return "", errNotOpen
	}
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid name %q", types.ErrCommand, name)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q: %w", types.ErrCommand, name, errBadName)
	}
	return filepath.Join(dir, name), nil
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Session) invalidate(path string) {
	if err := s.memo.Invalidate(path); err != nil {
		s.log.Warn("size memo invalidation failed", "path", path, "error", err)
	}
}
