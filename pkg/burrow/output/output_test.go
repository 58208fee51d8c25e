package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleListing() *types.Listing {
	return &types.Listing{
		Path: "/home/user/data",
		Entries: []types.FileEntry{
			{Name: "photos", Kind: types.KindDir, Size: 2048, Permissions: types.Permissions{Read: true, Write: true, Execute: true}},
			{Name: "notes.txt", Kind: types.KindFile, Size: 10, Permissions: types.Permissions{Read: true, Write: true}},
			{Name: "broken", Kind: types.KindFile, Degraded: true, Err: "stat broken: no such file or directory"},
		},
		TotalSize:    2058,
		TotalObjects: 3,
		Scanned:      true,
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		want string
	}{
		{"photos", types.KindDir, TypeDirectory},
		{"archive.zip", types.KindDir, TypeDirectory},
		{"image.PNG", types.KindFile, TypePicture},
		{"scan.jpeg", types.KindFile, TypePicture},
		{"readme.txt", types.KindFile, TypeText},
		{"server.log", types.KindFile, TypeText},
		{"report.pdf", types.KindFile, TypeDocument},
		{"backup.7z", types.KindFile, TypeArchive},
		{"song.mp3", types.KindFile, TypeMusic},
		{"clip.mov", types.KindFile, TypeVideo},
		{"Main.java", types.KindFile, TypeJava},
		{"lib.jar", types.KindFile, TypeJava},
		{"Makefile", types.KindFile, TypeFile},
		{".log", types.KindFile, TypeFile},
		{"binary.exe", types.KindFile, TypeFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectType(types.FileEntry{Name: tt.name, Kind: tt.kind})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleListing())
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		Name:       "photos",
		Type:       TypeDirectory,
		Size:       2048,
		SizeHuman:  "2.0 KiB",
		Attributes: "rwx",
	}, rows[0])
	assert.Equal(t, "rw", rows[1].Attributes)
	assert.Equal(t, TypeText, rows[1].Type)
	assert.True(t, rows[2].Degraded)
	assert.NotEmpty(t, rows[2].Error)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain", "table", "yaml"}, Available())

	for _, name := range Available() {
		f, err := Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := Get("xml")
	assert.ErrorContains(t, err, "unknown output format")

	r := NewRegistry()
	r.Register("plain", func() Formatter { return &PlainFormatter{} })
	assert.Equal(t, []string{"plain"}, r.Available())
}

func render(t *testing.T, name string, l *types.Listing) string {
	t.Helper()
	f, err := Get(name)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, l))
	return buf.String()
}

func TestTableFormatter(t *testing.T) {
	out := render(t, "table", sampleListing())

	for _, want := range []string{
		"/home/user/data", "Name", "Type", "Size", "Attribute",
		"photos", "Directory", "2.0 KiB", "rwx", "notes.txt", "Text",
		"3 objects, 2.0 KiB", "(1 unreadable)",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	out := render(t, "table", &types.Listing{Path: "/x", Scanned: true})
	assert.Contains(t, out, "(empty directory)")

	out = render(t, "table", &types.Listing{Path: "/x"})
	assert.Contains(t, out, "(not scanned)")
}

func TestPlainFormatter(t *testing.T) {
	out := render(t, "plain", sampleListing())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 6)
	assert.Equal(t, "/home/user/data", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "NAME"))
	assert.Contains(t, lines[2], "photos")
	assert.Contains(t, lines[2], "Directory")
	assert.Contains(t, lines[4], "broken (!)")
	assert.Equal(t, "3 objects, 2.0 KiB (1 unreadable)", lines[5])
	assert.NotContains(t, out, "\x1b[", "plain output must not contain ANSI escapes")
}

func TestJSONFormatter(t *testing.T) {
	out := render(t, "json", sampleListing())

	var doc document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "/home/user/data", doc.Path)
	assert.True(t, doc.Scanned)
	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "Directory", doc.Entries[0].Type)
	assert.Equal(t, 3, doc.Totals.Objects)
	assert.Equal(t, int64(2058), doc.Totals.Size)
	assert.Equal(t, 1, doc.Totals.Degraded)
}

func TestJSONFormatter_EmptyEntriesIsArray(t *testing.T) {
	out := render(t, "json", &types.Listing{Path: "/x", Scanned: true})
	assert.Contains(t, out, `"entries": []`)
}

func TestYAMLFormatter(t *testing.T) {
	out := render(t, "yaml", sampleListing())

	var doc document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "/home/user/data", doc.Path)
	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "notes.txt", doc.Entries[1].Name)
	assert.Equal(t, "2.0 KiB", doc.Totals.SizeHuman)
}

func TestMenuAndMessages(t *testing.T) {
	menu := Menu()
	for _, cmd := range []string{"ls", "touch", "mkdir", "rm", "rmdir", "cd", "refresh", "exit"} {
		assert.Contains(t, menu, cmd)
	}

	assert.Equal(t, "/data > ", Prompt("/data"))
	assert.Equal(t, "file a.txt created", Created("file", "a.txt", true))
	assert.Equal(t, "directory d already exists", Created("directory", "d", false))
	assert.Equal(t, "file a.txt deleted", Deleted("file", "a.txt", true))
	assert.Equal(t, "directory d doesn't exist", Deleted("directory", "d", false))
}
