package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	data := []byte("hello world, this is a test blob for relax")
	require.NoError(t, store.Put(ctx, "layouts/a/0001.rlx", data))
	require.NoError(t, store.Put(ctx, "layouts/a/CURRENT", []byte("0001.rlx")))
	require.NoError(t, store.Put(ctx, "layouts/b/0001.rlx", []byte("x")))

	t.Run("ReadAt", func(t *testing.T) {
		blob, err := store.Open(ctx, "layouts/a/0001.rlx")
		require.NoError(t, err)
		defer blob.Close()

		require.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 6)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "world", string(buf))

		buf = make([]byte, 10)
		n, err = blob.ReadAt(ctx, buf, int64(len(data)-3))
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 3, n)
		assert.Equal(t, "lax", string(buf[:n]))

		_, err = blob.ReadAt(ctx, buf, int64(len(data)+1))
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReadAll", func(t *testing.T) {
		got, err := ReadAll(ctx, store, "layouts/a/0001.rlx")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "layouts/a/CURRENT", []byte("0002.rlx")))
		got, err := ReadAll(ctx, store, "layouts/a/CURRENT")
		require.NoError(t, err)
		assert.Equal(t, "0002.rlx", string(got))
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "layouts/a/")
		require.NoError(t, err)
		assert.Equal(t, []string{"layouts/a/0001.rlx", "layouts/a/CURRENT"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "layouts/b/0001.rlx"))
		require.NoError(t, store.Delete(ctx, "layouts/b/0001.rlx"))

		_, err := store.Open(ctx, "layouts/b/0001.rlx")
		assert.ErrorIs(t, err, ErrNotFound)

		names, err := store.List(ctx, "layouts/b/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := ReadAll(ctx, store, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, store.Put(cctx, "x", nil), context.Canceled)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", data))
	data[0] = 'X'

	got, err := ReadAll(ctx, store, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_Layout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "a/b/c.rlx", []byte("data")))
	_, err := os.Stat(filepath.Join(root, "a", "b", "c.rlx"))
	require.NoError(t, err)

	// Leftover temp files are invisible to List.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", ".tmp-c.rlx-123"), []byte("partial"), 0o644))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c.rlx"}, names)

	// Empty blobs map to no bytes.
	require.NoError(t, store.Put(ctx, "empty", nil))
	got, err := ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
