package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, SafeWriteFile(path, []byte("old")))
	require.NoError(t, SafeWriteFile(path, []byte("new")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "no", "such", "file"), []byte("x"))
	require.Error(t, err)
}

func TestSafeWriteFilesRenamesAfterAllWrites(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.png")
	require.NoError(t, SafeWriteFiles(StagedFile{Path: a, Data: []byte("1")}, StagedFile{Path: b, Data: []byte("2")}))

	got, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
	got, err = os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSafeWriteFilesWriteFailureTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(a, []byte("old"), 0o644))

	err := SafeWriteFiles(
		StagedFile{Path: a, Data: []byte("new")},
		StagedFile{Path: filepath.Join(dir, "missing", "b.png"), Data: []byte("x")},
	)
	require.Error(t, err)

	got, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
	_, err = os.Stat(a + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSafeWriteFilesRenameFailureRemovesTemps(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.png")
	require.NoError(t, os.Mkdir(a, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a, "keep"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("old"), 0o644))

	err := SafeWriteFiles(StagedFile{Path: a, Data: []byte("1")}, StagedFile{Path: b, Data: []byte("2")})
	require.Error(t, err)

	got, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
	for _, tmp := range []string{a + ".tmp", b + ".tmp"} {
		_, statErr := os.Stat(tmp)
		assert.True(t, os.IsNotExist(statErr), tmp)
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, EnsureDir(filepath.Join(dir, "a", "b")))
}
