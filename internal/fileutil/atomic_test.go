package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "game.mem")

	require.NoError(t, WriteFileAtomic(path, []byte("1 2 3 "), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 ", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "game.mem", entries[0].Name())
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "game.mem")
	require.NoError(t, WriteFileAtomic(path, []byte("old"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomicInvalidDir(t *testing.T) {
	t.Parallel()

	err := WriteFileAtomic("/nonexistent/dir/game.mem", []byte("data"), 0644)
	assert.Error(t, err)
}

func TestWithDefaultExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"save", "save.mem"},
		{"saves/monday", "saves/monday.mem"},
		{"save.mem", "save.mem"},
		{"save.txt", "save.txt"},
		{"dir.d/save", "dir.d/save.mem"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, WithDefaultExt(tt.in, ".mem"))
		})
	}
}

func TestHasExt(t *testing.T) {
	assert.True(t, HasExt("a/b.mem", ".mem"))
	assert.True(t, HasExt("B.MEM", ".mem"))
	assert.False(t, HasExt("b.txt", ".mem"))
	assert.False(t, HasExt("mem", ".mem"))
}
