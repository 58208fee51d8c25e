// Package sizecache memoizes recursive directory sizes for one session.
//
// The store is an in-memory badger database: nothing is written to disk
// and the memo is gone when the process exits. Keys are real (resolved)
// directory paths; values are the byte sum of every regular file below.
package sizecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no size is memoized for a path.
var ErrNotFound = errors.New("size not memoized")

// Cache is a concurrency-safe memo of subtree sizes.
type Cache struct {
	db *badger.DB
}

// Open creates an empty in-memory cache.
func Open() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open size cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the cache. A nil cache is a no-op.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the memoized subtree size of dir.
func (c *Cache) Get(dir string) (int64, error) {
	if c == nil {
		return 0, ErrNotFound
	}

	var size int64
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(dir))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt size entry for %s", dir)
			}
			size = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

// Put memoizes the subtree size of dir.
func (c *Cache) Put(dir string, size int64) error {
	if c == nil {
		return nil
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(size))

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(dir), val)
	})
}

// Invalidate drops the memo for path, for everything below it, and for
// every ancestor whose size included it.
func (c *Cache) Invalidate(path string) error {
	if c == nil {
		return nil
	}

	path = filepath.Clean(path)
	prefix := key(path)
	if !strings.HasSuffix(path, string(filepath.Separator)) {
		prefix = append(prefix, filepath.Separator)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var doomed [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			doomed = append(doomed, it.Item().KeyCopy(nil))
		}

		for p := path; ; {
			doomed = append(doomed, key(p))
			parent := filepath.Dir(p)
			if parent == p {
				break
			}
			p = parent
		}

		for _, k := range doomed {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of memoized directories.
func (c *Cache) Len() (int, error) {
	if c == nil {
		return 0, nil
	}

	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func key(dir string) []byte {
	return []byte(filepath.Clean(dir))
}
