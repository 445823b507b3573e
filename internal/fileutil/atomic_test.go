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
	path := filepath.Join(dir, "casino.hcl")
	require.NoError(t, WriteFileAtomic(path, []byte("server {}\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "server {}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteFile(path, []byte("first"), 0o644, false))

	err := WriteFile(path, []byte("second"), 0o644, false)
	assert.ErrorIs(t, err, ErrExists)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "first", string(data))

	require.NoError(t, WriteFile(path, []byte("second"), 0o644, true))
	data, _ = os.ReadFile(path)
	assert.Equal(t, "second", string(data))
}

func TestWriteFileCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "2026", "run.json")
	require.NoError(t, WriteFile(path, []byte("{}"), 0o600, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x.txt"), []byte("data"), 0o644)
	assert.Error(t, err)
}
