// Package tree provides the cursor-based graph of visited directories.
//
// Nodes live in an arena owned by the Tree; parent links are arena
// indices, so the structure has exactly one owner and no cycles. The
// cursor marks the directory the user is currently in.
package tree

import (
	"path/filepath"
	"sync"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Tree is the set of directories visited in a session.
type Tree struct {
	mu     sync.RWMutex
	nodes  []*Node
	cursor int
}

// New returns an empty tree. The first EnterOrCreate establishes the root.
func New() *Tree {
	return &Tree{cursor: noParent}
}

// Clean normalizes a path so equivalent spellings share one node.
// Trailing separators are removed; the filesystem root is kept as is.
func Clean(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// EnterOrCreate moves the cursor to the node for logicalPath, creating it
// as a child of the cursor when it does not exist. It reports whether the
// node already existed.
//
// Entering the cursor's own path is a no-op that reports true.
func (t *Tree) EnterOrCreate(logicalPath, realPath string) (*Node, bool) {
	logicalPath = Clean(logicalPath)
	realPath = Clean(realPath)

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.nodes) == 0 {
		root := newNode(0, noParent, logicalPath, realPath)
		t.nodes = append(t.nodes, root)
		t.cursor = 0
		return root, false
	}

	cur := t.nodes[t.cursor]
	if cur.LogicalPath == logicalPath {
		return cur, true
	}

	if idx, ok := cur.byPath[logicalPath]; ok {
		t.cursor = idx
		return t.nodes[idx], true
	}

	idx := len(t.nodes)
	child := newNode(idx, cur.index, logicalPath, realPath)
	t.nodes = append(t.nodes, child)
	cur.children = append(cur.children, idx)
	cur.byPath[logicalPath] = idx
	t.cursor = idx
	return child, false
}

// Up moves the cursor to its parent. At the root it does nothing.
func (t *Tree) Up() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor < 0 {
		return
	}
	if p := t.nodes[t.cursor].parent; p != noParent {
		t.cursor = p
	}
}

// ToRoot moves the cursor to the root.
func (t *Tree) ToRoot() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.nodes) > 0 {
		t.cursor = 0
	}
}

// Current returns the node under the cursor, or nil for an empty tree.
func (t *Tree) Current() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.cursor < 0 {
		return nil
	}
	return t.nodes[t.cursor]
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// Parent returns the parent of n, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n == nil || n.parent == noParent {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the children of n in insertion order.
func (t *Tree) Children(n *Node) []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Node, 0, len(n.children))
	for _, idx := range n.children {
		out = append(out, t.nodes[idx])
	}
	return out
}

// AppendEntry appends to the cursor node. Safe for concurrent use.
func (t *Tree) AppendEntry(e types.FileEntry) {
	if n := t.Current(); n != nil {
		n.AppendEntry(e)
	}
}

// Clear empties the cursor node's entries and aggregates and marks it
// unscanned. Children and structure are kept.
func (t *Tree) Clear() {
	if n := t.Current(); n != nil {
		n.clear()
	}
}

// CurrentEntries returns a copy of the cursor node's entries.
func (t *Tree) CurrentEntries() []types.FileEntry {
	if n := t.Current(); n != nil {
		return n.Entries()
	}
	return nil
}

// CurrentAggregates returns the cursor node's total size and object count.
func (t *Tree) CurrentAggregates() (int64, int) {
	if n := t.Current(); n != nil {
		return n.Aggregates()
	}
	return 0, 0
}

// IsScanned reports whether the cursor node has been scanned.
func (t *Tree) IsScanned() bool {
	if n := t.Current(); n != nil {
		return n.Scanned()
	}
	return false
}

// CurrentPath returns the cursor node's logical path.
func (t *Tree) CurrentPath() string {
	if n := t.Current(); n != nil {
		return n.LogicalPath
	}
	return ""
}

// RealPath returns the cursor node's resolved filesystem path.
func (t *Tree) RealPath() string {
	if n := t.Current(); n != nil {
		return n.RealPath
	}
	return ""
}

// RootPath returns the root's logical path.
func (t *Tree) RootPath() string {
	if n := t.Root(); n != nil {
		return n.LogicalPath
	}
	return ""
}

// Depth returns the cursor's distance from the root (root = 0).
func (t *Tree) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	depth := 0
	for i := t.cursor; i > 0; i = t.nodes[i].parent {
		depth++
	}
	return depth
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}
