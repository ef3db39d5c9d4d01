package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReader_Caching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(path, []byte("async fn a() {}"), 0o644))

	reader := NewFileReader()
	_, ok := reader.Source(path)
	assert.False(t, ok, "nothing is known before the first read")

	text, err := reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "async fn a() {}", text)
	assert.Equal(t, 1, reader.CachedFiles())

	src, ok := reader.Source(filepath.Join(dir, ".", "main.rs"))
	require.True(t, ok, "lookups clean the path")
	assert.Equal(t, text, src)

	require.NoError(t, os.WriteFile(path, []byte("fn b() {}"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	text, err = reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn b() {}", text, "a modified file is read again")
}

func TestFileReader_Errors(t *testing.T) {
	reader := NewFileReader()

	_, err := reader.ReadFile("")
	assert.EqualError(t, err, "file path cannot be empty")

	_, err = reader.ReadFile(filepath.Join(t.TempDir(), "missing.rs"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
