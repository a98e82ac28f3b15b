package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveRemoveList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	path, size, err := files.Save(ctx, ".png", bytes.NewReader([]byte("image bytes")))
	require.NoError(t, err)
	assert.Equal(t, int64(len("image bytes")), size)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "payment-"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))

	paths, err := files.ListPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)

	require.NoError(t, files.Remove(ctx, path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine
	assert.NoError(t, files.Remove(ctx, path))
}

func TestLocalStorage_UniqueNames(t *testing.T) {
	t.Parallel()

	files, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, _, err := files.Save(ctx, ".png", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	b, _, err := files.Save(ctx, ".png", bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalStorage_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
