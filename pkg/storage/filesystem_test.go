package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("Computing", "report.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.Equal(t, "Computing/report.pdf", rel)

	folder, name, err := SplitRelative(rel)
	require.NoError(t, err)
	file, err := store.Open(folder, name)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, pair := range [][2]string{
		{"..", "passwd"},
		{"Computing", "../../etc/passwd"},
		{"a/b", "c.pdf"},
		{"", "c.pdf"},
		{"Computing", `..\x`},
	} {
		_, err := store.Resolve(pair[0], pair[1])
		require.ErrorIs(t, err, ErrInvalidPath, "%v", pair)
	}
}

func TestLocalStorageOpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("Computing", "missing.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("Computing", "old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("Computing", "new.pdf", []byte("new"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "Computing", "old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{"Computing/old.pdf"}, deleted)

	file, err := store.Open("Computing", "new.pdf")
	require.NoError(t, err)
	require.NoError(t, file.Close())
}
