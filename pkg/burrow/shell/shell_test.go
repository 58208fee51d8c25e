package shell

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jamesainslie/burrow/pkg/burrow/output"
	"github.com/jamesainslie/burrow/pkg/burrow/scanner"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	calls []string
	path  string
	err   error
	found bool
}

func (f *fakeSession) record(op, arg string) {
	f.calls = append(f.calls, op+" "+arg)
}

func (f *fakeSession) Path() string { return f.path }

func (f *fakeSession) List() *types.Listing {
	f.record("list", "")
	return &types.Listing{Path: f.path, Scanned: true}
}

func (f *fakeSession) ChangeDir(_ context.Context, target string) (*scanner.Result, error) {
	f.record("cd", target)
	return nil, f.err
}

func (f *fakeSession) Refresh(context.Context) (*scanner.Result, error) {
	f.record("refresh", "")
	if f.err != nil {
		return nil, f.err
	}
	return &scanner.Result{Entries: 2, TotalSize: 2048}, nil
}

func (f *fakeSession) CreateFile(name string) (bool, error) {
	f.record("touch", name)
	return !f.found, f.err
}

func (f *fakeSession) CreateDir(name string) (bool, error) {
	f.record("mkdir", name)
	return !f.found, f.err
}

func (f *fakeSession) DeleteFile(_ context.Context, name string) (bool, error) {
	f.record("rm", name)
	return f.found, f.err
}

func (f *fakeSession) DeleteDir(_ context.Context, name string) (bool, error) {
	f.record("rmdir", name)
	return f.found, f.err
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{}},
		{"   ", Command{}},
		{"ls", Command{Name: CmdList}},
		{"LS", Command{Name: CmdList}},
		{"dir", Command{Name: CmdList}},
		{"Quit", Command{Name: CmdExit}},
		{"cd ..", Command{Name: CmdCd, Arg: ".."}},
		{"cd\tdocs", Command{Name: CmdCd, Arg: "docs"}},
		{"touch my file.txt", Command{Name: CmdTouch, Arg: "my file.txt"}},
		{"  mkdir   photos  ", Command{Name: CmdMkdir, Arg: "photos"}},
		{"ls extra", Command{Name: CmdList, Arg: "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, line := range []string{"touch", "mkdir  ", "rm", "rmdir", "cd", "format c:", "lsx"} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, types.ErrCommand)
		})
	}
}

func TestExecute_OneActionPerCommand(t *testing.T) {
	tests := []struct {
		line string
		want []string
		text string
	}{
		{"ls", []string{"list "}, ""},
		{"cd docs", []string{"cd docs"}, ""},
		{"refresh", []string{"refresh "}, "rescanned /data: 2 objects, 2.0 KiB"},
		{"touch a.txt", []string{"touch a.txt"}, "file a.txt created"},
		{"mkdir d", []string{"mkdir d"}, "directory d created"},
		{"help", nil, ""},
		{"exit", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sess := &fakeSession{path: "/data"}
			sh := New(sess)

			resp := sh.Execute(context.Background(), tt.line)
			require.NoError(t, resp.Err)
			assert.Equal(t, tt.want, sess.calls)
			if tt.text != "" {
				assert.Equal(t, tt.text, resp.Text)
			}
		})
	}
}

func TestExecute_Responses(t *testing.T) {
	sess := &fakeSession{path: "/data"}
	sh := New(sess)
	ctx := context.Background()

	resp := sh.Execute(ctx, "ls")
	require.NotNil(t, resp.Listing)
	assert.Equal(t, "/data", resp.Listing.Path)

	resp = sh.Execute(ctx, "help")
	assert.Contains(t, resp.Text, "rmdir")

	resp = sh.Execute(ctx, "exit")
	assert.True(t, resp.Exit)

	resp = sh.Execute(ctx, "")
	assert.Equal(t, Response{}, resp)

	resp = sh.Execute(ctx, "bogus")
	assert.ErrorIs(t, resp.Err, types.ErrCommand)
	assert.Empty(t, sess.calls[1:], "rejected input runs nothing")
}

func TestExecute_AlreadyExists(t *testing.T) {
	sh := New(&fakeSession{found: true})

	resp := sh.Execute(context.Background(), "touch a.txt")
	assert.Equal(t, "file a.txt already exists", resp.Text)
}

func TestExecute_ConfirmDelete(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		answer  string
		deleted bool
		want    []string
		text    string
	}{
		{"rm yes", "rm a.txt", "Y", true, []string{"rm a.txt"}, "file a.txt deleted"},
		{"rm lower yes", "RM a.txt", "y", true, []string{"rm a.txt"}, "file a.txt deleted"},
		{"rm missing", "rm a.txt", "y", false, []string{"rm a.txt"}, "file a.txt doesn't exist"},
		{"rmdir yes", "rmdir d", "Y", true, []string{"rmdir d"}, "directory d deleted"},
		{"rm no", "rm a.txt", "n", true, nil, "cancelled"},
		{"rm yes word", "rm a.txt", "yes", true, nil, "cancelled"},
		{"rm empty", "rm a.txt", "", true, nil, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{path: "/data", found: tt.deleted}
			sh := New(sess)
			ctx := context.Background()

			resp := sh.Execute(ctx, tt.line)
			assert.NotEmpty(t, resp.Confirm)
			assert.True(t, sh.Pending())
			assert.Empty(t, sess.calls, "nothing runs before the answer")
			assert.Equal(t, resp.Confirm+" ", sh.Prompt())

			resp = sh.Execute(ctx, tt.answer)
			assert.False(t, sh.Pending())
			assert.Equal(t, tt.want, sess.calls)
			assert.Equal(t, tt.text, resp.Text)
			assert.Equal(t, "/data > ", sh.Prompt())
		})
	}
}

func TestExecute_SessionErrors(t *testing.T) {
	boom := &types.PermissionError{Op: "create", Path: "/data/x", Err: errors.New("denied")}
	sess := &fakeSession{path: "/data", err: boom}
	sh := New(sess)
	ctx := context.Background()

	for _, line := range []string{"touch x", "mkdir x", "cd x", "refresh"} {
		resp := sh.Execute(ctx, line)
		assert.ErrorIs(t, resp.Err, types.ErrPermission, line)
		assert.Empty(t, resp.Text, line)
	}

	sh.Execute(ctx, "rmdir x")
	resp := sh.Execute(ctx, "Y")
	assert.ErrorIs(t, resp.Err, types.ErrPermission)
}

func TestResponseRender(t *testing.T) {
	f, err := output.Get("plain")
	require.NoError(t, err)

	text, err := Response{Text: "file a created"}.Render(f)
	require.NoError(t, err)
	assert.Equal(t, "file a created", text)

	text, err = Response{Listing: &types.Listing{
		Path:    "/data",
		Entries: []types.FileEntry{{Name: "a.txt", Size: 3}},
		Scanned: true,
	}}.Render(f)
	require.NoError(t, err)
	assert.Contains(t, text, "a.txt")
	assert.False(t, strings.HasSuffix(text, "\n"))

	text, err = Response{}.Render(f)
	require.NoError(t, err)
	assert.Empty(t, text)
}
