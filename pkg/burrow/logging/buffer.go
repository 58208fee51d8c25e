package logging

import "sync"

// DefaultBufferSize is how many records the TUI log panel keeps.
const DefaultBufferSize = 200

// RingBuffer keeps the most recent log records, overwriting the oldest.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewRingBuffer returns a buffer holding up to size records.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &RingBuffer{entries: make([]Entry, size)}
}

// Add stores e, evicting the oldest record when full.
func (b *RingBuffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Last returns up to n of the newest records, oldest first.
func (b *RingBuffer) Last(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}
	if n > count || n < 0 {
		n = count
	}

	out := make([]Entry, n)
	start := b.next - n
	for i := range n {
		out[i] = b.entries[(start+i+len(b.entries))%len(b.entries)]
	}
	return out
}

// Len returns the number of stored records.
func (b *RingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.full {
		return len(b.entries)
	}
	return b.next
}
