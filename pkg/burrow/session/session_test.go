package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/sizecache"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds:
//
//	root/a.txt        10 bytes
//	root/Zeta.txt      5 bytes
//	root/docs/b.txt 2048 bytes
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Zeta.txt"), make([]byte, 5), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "b.txt"), make([]byte, 2048), 0o644))
	return root
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Sort == "" {
		opts.Sort = config.SortName
	}
	if opts.Workers == 0 {
		opts.Workers = 4
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func open(t *testing.T, opts Options) (*Session, string) {
	t.Helper()
	root := fixture(t)
	s := newSession(t, opts)
	res, err := s.Open(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, res)
	return s, root
}

func names(l *types.Listing) []string {
	out := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestOpen(t *testing.T) {
	s, root := open(t, Options{})

	l := s.List()
	assert.Equal(t, root, l.Path)
	assert.True(t, l.Scanned)
	assert.Equal(t, 3, l.TotalObjects)
	assert.Equal(t, int64(2063), l.TotalSize)
	assert.Equal(t, root, s.RootPath())
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 4, s.Workers())
}

func TestOpen_StartPath(t *testing.T) {
	root := fixture(t)
	s := newSession(t, Options{StartPath: root})

	_, err := s.Open(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
}

func TestOpen_Errors(t *testing.T) {
	root := fixture(t)

	s := newSession(t, Options{})
	_, err := s.Open(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, types.ErrNavigation)

	s = newSession(t, Options{})
	_, err = s.Open(context.Background(), filepath.Join(root, "a.txt"))
	assert.ErrorIs(t, err, types.ErrNavigation)

	s = newSession(t, Options{})
	_, err = s.Open(context.Background(), root)
	require.NoError(t, err)
	_, err = s.Open(context.Background(), root)
	assert.Error(t, err, "a session opens once")
}

func TestNotOpen(t *testing.T) {
	s := newSession(t, Options{})
	ctx := context.Background()

	_, err := s.ChangeDir(ctx, "x")
	assert.ErrorIs(t, err, errNotOpen)
	_, err = s.Refresh(ctx)
	assert.ErrorIs(t, err, errNotOpen)
	_, err = s.CreateFile("x")
	assert.ErrorIs(t, err, errNotOpen)
}

func TestChangeDir(t *testing.T) {
	s, root := open(t, Options{})
	ctx := context.Background()

	res, err := s.ChangeDir(ctx, "docs")
	require.NoError(t, err)
	require.NotNil(t, res, "first visit scans")
	assert.Equal(t, filepath.Join(root, "docs"), s.Path())
	assert.Equal(t, []string{"b.txt"}, names(s.List()))
	assert.Equal(t, 1, s.Depth())

	res, err = s.ChangeDir(ctx, "..")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, root, s.Path())

	res, err = s.ChangeDir(ctx, "docs")
	require.NoError(t, err)
	assert.Nil(t, res, "a scanned node is not scanned again")

	res, err = s.ChangeDir(ctx, "./")
	require.NoError(t, err)
	assert.Nil(t, res, "same directory is a no-op")
	assert.Equal(t, filepath.Join(root, "docs"), s.Path())

	for _, up := range []string{"../", `..\`, "..//"} {
		_, err = s.ChangeDir(ctx, up)
		require.NoError(t, err, up)
		assert.Equal(t, root, s.Path(), up)
		assert.Equal(t, 0, s.Depth(), up)

		_, err = s.ChangeDir(ctx, up)
		require.NoError(t, err, up)
		assert.Equal(t, root, s.Path(), "%s at the root stays at the root", up)

		_, err = s.ChangeDir(ctx, "docs/")
		require.NoError(t, err, up)
		assert.Equal(t, filepath.Join(root, "docs"), s.Path())
	}

	res, err = s.ChangeDir(ctx, "/")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, root, s.Path())

	_, err = s.ChangeDir(ctx, "..")
	require.NoError(t, err)
	assert.Equal(t, root, s.Path(), "up at the root stays at the root")

	_, err = s.ChangeDir(ctx, `\`)
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
}

func TestChangeDir_StaysInsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "sibling"), 0o755))

	s := newSession(t, Options{})
	ctx := context.Background()
	_, err := s.Open(ctx, root)
	require.NoError(t, err)

	for _, target := range []string{"../sibling", "../", "sub/../../sibling", "../.."} {
		_, err = s.ChangeDir(ctx, target)
		if target == "../" {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, types.ErrNavigation, target)
		}
		assert.Equal(t, root, s.Path(), target)
		assert.Equal(t, 1, s.tree.Len(), "%s adds no node", target)
	}

	_, err = s.ChangeDir(ctx, "sub")
	require.NoError(t, err)
	_, err = s.ChangeDir(ctx, "../")
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
	assert.Equal(t, 0, s.Depth())

	_, err = s.ChangeDir(ctx, "sub")
	require.NoError(t, err)
	_, err = s.ChangeDir(ctx, "sub/..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub"), s.Path(), "a path that cleans to the current directory is a no-op")

	_, err = s.ChangeDir(ctx, "..")
	require.NoError(t, err)
	_, err = s.ChangeDir(ctx, "sub/../")
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
}

func TestChangeDir_MultiSegment(t *testing.T) {
	s, root := open(t, Options{})
	ctx := context.Background()
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs", "inner"), 0o755))

	_, err := s.ChangeDir(ctx, "docs/inner")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docs", "inner"), s.Path())
	assert.Equal(t, 1, s.Depth(), "the node hangs directly under the one it was entered from")

	_, err = s.ChangeDir(ctx, "..")
	require.NoError(t, err)
	assert.Equal(t, root, s.Path())
}

func TestChangeDir_Errors(t *testing.T) {
	s, root := open(t, Options{})
	ctx := context.Background()

	_, err := s.ChangeDir(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNavigation)
	assert.Equal(t, root, s.Path(), "cursor does not move")

	_, err = s.ChangeDir(ctx, "a.txt")
	assert.ErrorIs(t, err, types.ErrNavigation)
	assert.Equal(t, root, s.Path())
}

func TestChangeDir_Symlink(t *testing.T) {
	s, root := open(t, Options{})
	require.NoError(t, os.Symlink(filepath.Join(root, "docs"), filepath.Join(root, "link")))

	_, err := s.ChangeDir(context.Background(), "link")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "link"), s.Path(), "logical path keeps the link name")
	assert.Equal(t, []string{"b.txt"}, names(s.List()))
}

func TestChangeDir_RemovedSinceVisit(t *testing.T) {
	s, root := open(t, Options{})
	ctx := context.Background()

	_, err := s.ChangeDir(ctx, "docs")
	require.NoError(t, err)
	_, err = s.ChangeDir(ctx, "..")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "docs")))
	_, err = s.ChangeDir(ctx, "docs")
	assert.ErrorIs(t, err, types.ErrNavigation)
}

func TestList_Sort(t *testing.T) {
	tests := []struct {
		order string
		want  []string
	}{
		{config.SortName, []string{"a.txt", "docs", "Zeta.txt"}},
		{config.SortSize, []string{"docs", "a.txt", "Zeta.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			s, _ := open(t, Options{Sort: tt.order})
			assert.Equal(t, tt.want, names(s.List()))
		})
	}

	t.Run(config.SortNone, func(t *testing.T) {
		s, _ := open(t, Options{Sort: config.SortNone})
		assert.ElementsMatch(t, []string{"a.txt", "docs", "Zeta.txt"}, names(s.List()))
	})
}

func TestRefresh(t *testing.T) {
	s, root := open(t, Options{Memo: true})

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "c.txt"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.txt"), make([]byte, 1), 0o644))

	before := s.List()
	assert.Equal(t, 3, before.TotalObjects)

	res, err := s.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)

	after := s.List()
	assert.Equal(t, 4, after.TotalObjects)
	assert.Equal(t, int64(10+5+2048+100+1), after.TotalSize, "memoized docs size is dropped")
}

func TestCreate(t *testing.T) {
	s, root := open(t, Options{})

	created, err := s.CreateFile("new.txt")
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, filepath.Join(root, "new.txt"))

	created, err = s.CreateFile("new.txt")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = s.CreateDir("sub")
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, filepath.Join(root, "sub"))

	created, err = s.CreateDir("docs")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 3, s.List().TotalObjects, "mutations do not rescan")

	_, err = s.CreateFile("..")
	assert.ErrorIs(t, err, types.ErrCommand)
}

func TestCreate_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	s, root := open(t, Options{})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	_, err := s.ChangeDir(context.Background(), "locked")
	require.NoError(t, err)

	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err = s.CreateFile("x")
	assert.ErrorIs(t, err, types.ErrPermission)
	_, err = s.CreateDir("y")
	assert.ErrorIs(t, err, types.ErrPermission)
}

func TestDelete(t *testing.T) {
	s, root := open(t, Options{})
	ctx := context.Background()

	deleted, err := s.DeleteFile(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoFileExists(t, filepath.Join(root, "a.txt"))

	deleted, err = s.DeleteFile(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.DeleteFile(ctx, "docs")
	assert.ErrorIs(t, err, types.ErrPermission)
	assert.DirExists(t, filepath.Join(root, "docs"))

	_, err = s.DeleteDir(ctx, "Zeta.txt")
	assert.ErrorIs(t, err, types.ErrPermission)
	assert.FileExists(t, filepath.Join(root, "Zeta.txt"))

	deleted, err = s.DeleteDir(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoDirExists(t, filepath.Join(root, "docs"))

	deleted, err = s.DeleteDir(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMutations_NameMustNotLeaveDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	victim := filepath.Join(base, "victim")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.Mkdir(victim, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(victim, "keep.txt"), []byte("x"), 0o644))

	s := newSession(t, Options{})
	ctx := context.Background()
	_, err := s.Open(ctx, root)
	require.NoError(t, err)

	bad := []string{"../victim", "sub/../../victim", "sub/x", `sub\x`, "/tmp/x", "../victim/keep.txt"}
	for _, name := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := s.DeleteDir(ctx, name)
			assert.ErrorIs(t, err, types.ErrCommand)

			_, err = s.DeleteFile(ctx, name)
			assert.ErrorIs(t, err, types.ErrCommand)

			_, err = s.CreateDir(name)
			assert.ErrorIs(t, err, types.ErrCommand)

			_, err = s.CreateFile(name)
			assert.ErrorIs(t, err, types.ErrCommand)
		})
	}

	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
	assert.NoDirExists(t, filepath.Join(root, "sub", "x"))
	assert.NoFileExists(t, filepath.Join(base, "x"))
}

func TestDelete_SymlinkToDirectoryIsAFile(t *testing.T) {
	s, root := open(t, Options{})
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(filepath.Join(root, "docs"), link))

	deleted, err := s.DeleteFile(context.Background(), "link")
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.NoFileExists(t, link)
	assert.FileExists(t, filepath.Join(root, "docs", "b.txt"), "the target is untouched")
}

func TestMutationsInvalidateMemo(t *testing.T) {
	s, root := open(t, Options{Memo: true})
	resolved, err := filepath.EvalSymlinks(filepath.Join(root, "docs"))
	require.NoError(t, err)

	size, err := s.memo.Get(resolved)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)

	_, err = s.ChangeDir(context.Background(), "docs")
	require.NoError(t, err)
	_, err = s.DeleteFile(context.Background(), "b.txt")
	require.NoError(t, err)

	_, err = s.memo.Get(resolved)
	assert.ErrorIs(t, err, sizecache.ErrNotFound)
}

func TestOptionsFrom(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &config.Config{
		Workers: 3,
		Sort:    config.SortSize,
		Scan:    config.ScanConfig{Memo: true, WalkWorkers: 2},
		Delete:  config.DeleteConfig{UseTrash: true},
	}
	opts, err := OptionsFrom(cfg)
	require.NoError(t, err)

	assert.Equal(t, Options{
		StartPath:   home,
		Workers:     3,
		WalkWorkers: 2,
		Memo:        true,
		Sort:        config.SortSize,
		UseTrash:    true,
	}, opts)
}
