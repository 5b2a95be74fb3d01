package storage_test

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masterdex/card-search-go/internal/config"
	"github.com/masterdex/card-search-go/internal/storage"
	"github.com/masterdex/card-search-go/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredFileIsAlwaysInsideBasePath(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)
	path := []string{"..", "dir", "..", "test.txt"}

	f, err := store.Store(strings.NewReader("content"), path...)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dir", "test.txt"), f.AbsolutePath)
}

func TestStoreWithSubDirs(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)
	path := []string{"dir", "sub", "sub2", "test.txt"}

	f, err := store.Store(strings.NewReader("content"), path...)

	require.NoError(t, err)
	assert.FileExists(t, f.AbsolutePath)
	assert.Equal(t, filepath.Join("dir", "sub", "sub2", "test.txt"), f.Path)
}

func TestStoreModeCreateRefusesOverwrite(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("first"), "test.txt")
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("second"), "test.txt")

	require.Error(t, err)
}

func TestStoreModeReplaceTruncates(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.REPLACE})
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("first content"), "test.txt")
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("second"), "test.txt")
	require.NoError(t, err)

	r, err := store.Load("test.txt")
	require.NoError(t, err)
	defer r.Close()

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestSize(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("content"), "test.txt")
	require.NoError(t, err)
	_, err = store.Store(strings.NewReader(""), "empty.txt")
	require.NoError(t, err)

	size, err := store.Size("test.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), size)

	size, err = store.Size("empty.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	_, err = store.Size("doesNotExist.txt")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)

	_, err = store.Load("doesNotExist.txt")

	require.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := test.NewTmpDirWithCleanup(t)
	store, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)

	_, err = store.Store(strings.NewReader("content"), "sub", "test.txt")
	require.NoError(t, err)

	_, err = store.Load("sub")

	require.Error(t, err)
}
