package tree

import (
	"sync"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// noParent marks the root's parent index.
const noParent = -1

// Node is one visited directory.
//
// Structural fields (paths, parent, children) are written only by the Tree
// while holding its lock. Entries and aggregates are guarded by the node's
// own mutex so scan workers can append concurrently.
type Node struct {
	// Identity
	LogicalPath string
	RealPath    string

	// Structure. parent is an index into the tree arena, not a pointer.
	index    int
	parent   int
	children []int
	byPath   map[string]int

	mu           sync.Mutex
	entries      []types.FileEntry
	totalSize    int64
	totalObjects int
	scanned      bool
}

func newNode(index, parent int, logical, real string) *Node {
	return &Node{
		LogicalPath: logical,
		RealPath:    real,
		index:       index,
		parent:      parent,
		byPath:      make(map[string]int),
	}
}

// AppendEntry adds a scanned entry and updates the aggregates in the same
// critical section, so totals always match the entry list.
func (n *Node) AppendEntry(e types.FileEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.entries = append(n.entries, e)
	n.totalSize += e.Size
	n.totalObjects++
}

// Entries returns a copy of the node's entries in append order.
func (n *Node) Entries() []types.FileEntry {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]types.FileEntry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Aggregates returns the summed entry size and the entry count.
func (n *Node) Aggregates() (totalSize int64, totalObjects int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.totalSize, n.totalObjects
}

// Scanned reports whether a scan has completed for this node since it was
// created or last cleared.
func (n *Node) Scanned() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scanned
}

// MarkScanned records that a scan has completed. Only the scan
// coordinator calls this.
func (n *Node) MarkScanned() {
	n.mu.Lock()
	n.scanned = true
	n.mu.Unlock()
}

// clear drops entries, zeroes aggregates and resets the scanned flag.
func (n *Node) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.entries = nil
	n.totalSize = 0
	n.totalObjects = 0
	n.scanned = false
}
