package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter_RotatesBySize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burrow.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 64})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	line := []byte(strings.Repeat("x", 40) + "\n")
	for range 3 {
		_, err := w.Write(line)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "expected at least one rotated file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(64))
}

func TestRotatingWriter_PrunesBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burrow.log")

	old := time.Now().Add(-48 * time.Hour)
	for _, name := range []string{
		"burrow.20240101-000000.000.log",
		"burrow.20240102-000000.000.log",
		"burrow.20240103-000000.000.log",
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("old"), 0o644))
		require.NoError(t, os.Chtimes(p, old, old))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), nil, 0o644))

	w, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 1})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Len(t, names, 3, "log, one backup and the unrelated file: %v", names)
	assert.Contains(t, names, "unrelated.txt")
	assert.Contains(t, names, "burrow.log")
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "x.log"), RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestRotatingWriter_Due(t *testing.T) {
	now := time.Now()
	w := &RotatingWriter{
		cfg:        RotationConfig{MaxSize: 100, Daily: true},
		size:       90,
		lastRotate: now,
	}

	assert.False(t, w.due(5, now))
	assert.True(t, w.due(20, now))
	assert.True(t, w.due(1, now.Add(24*time.Hour)))

	w.cfg.Daily = false
	assert.False(t, w.due(1, now.Add(24*time.Hour)))
}
