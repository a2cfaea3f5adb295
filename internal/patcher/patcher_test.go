package patcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meiyaku-knights/navi/internal/patcher"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		old     string
		new     string
		want    string
		status  patcher.Status
	}{
		{"Exact", "a\nfoo\nb\n", "foo", "bar", "a\nbar\nb\n", patcher.Replaced},
		{"First Only", "foo foo", "foo", "bar", "bar foo", patcher.Replaced},
		{"CRLF Content", "a\r\nfoo\r\nb\r\n", "foo\nb", "x\ny", "a\nx\ny\n", patcher.ReplacedNormalized},
		{"CRLF Old", "a\nfoo\nb\n", "foo\r\nb", "z", "a\nz\n", patcher.ReplacedNormalized},
		{"Missing", "a\nb\n", "zzz", "y", "a\nb\n", patcher.NotFound},
		{"Empty Old", "a", "", "y", "a", patcher.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := patcher.Apply(tt.content, tt.old, tt.new)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judgments.html")
	require.NoError(t, os.WriteFile(path, []byte("const MIN = 10;\r\nrender();\r\n"), 0o600))

	status, err := patcher.Patch(path, "const MIN = 10;\nrender();", "const MIN = 20;\nrender();")
	require.NoError(t, err)
	assert.Equal(t, patcher.ReplacedNormalized, status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "const MIN = 20;\nrender();\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	status, err = patcher.Patch(path, "missing", "x")
	require.NoError(t, err)
	assert.Equal(t, patcher.NotFound, status)

	_, err = patcher.Patch(filepath.Join(t.TempDir(), "nope"), "a", "b")
	assert.Error(t, err)
}

func TestPatch_ReplacesThroughRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>old</p>\n"), 0o644))
	before, err := os.Stat(path)
	require.NoError(t, err)

	status, err := patcher.Patch(path, "old", "new")
	require.NoError(t, err)
	assert.Equal(t, patcher.Replaced, status)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, os.SameFile(before, after), "content is swapped in, never truncated in place")
	assert.Equal(t, os.FileMode(0o644), after.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
