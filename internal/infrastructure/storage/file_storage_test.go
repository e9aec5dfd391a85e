package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDocumentStore_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDocumentStore(root, zap.NewNop())

	t.Run("creates parent directories", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "uploads/2025/invoice.txt", []byte("Invoice #1")))
		assert.FileExists(t, filepath.Join(root, "uploads", "2025", "invoice.txt"))

		content, err := store.Read(ctx, "uploads/2025/invoice.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("Invoice #1"), content)
		assert.True(t, store.Exists(ctx, "uploads/2025/invoice.txt"))
	})

	t.Run("directories do not count as files", func(t *testing.T) {
		assert.False(t, store.Exists(ctx, "uploads"))
	})

	t.Run("rejects traversal", func(t *testing.T) {
		err := store.Save(ctx, "../../etc/passwd", []byte("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes storage root")
		assert.False(t, store.Exists(ctx, "../outside.txt"))
	})
}

func TestDocumentStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(t.TempDir(), zap.NewNop())

	require.NoError(t, store.Save(ctx, "a.txt", []byte("a")))
	require.NoError(t, store.Delete(ctx, "a.txt"))
	assert.False(t, store.Exists(ctx, "a.txt"))

	// second delete is a no-op
	assert.NoError(t, store.Delete(ctx, "a.txt"))
}

func TestDocumentStore_MoveAndList(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDocumentStore(root, zap.NewNop())

	require.NoError(t, store.Save(ctx, "inbox/b.pdf", []byte("b")))
	require.NoError(t, store.Save(ctx, "inbox/a.txt", []byte("a")))
	require.NoError(t, store.Save(ctx, "inbox/.hidden", []byte("h")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "inbox", "processed"), 0755))

	files, err := store.List(ctx, "inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("inbox", "a.txt"), filepath.Join("inbox", "b.pdf")}, files)

	require.NoError(t, store.Move(ctx, "inbox/a.txt", "inbox/processed/a.txt"))
	assert.False(t, store.Exists(ctx, "inbox/a.txt"))
	assert.True(t, store.Exists(ctx, "inbox/processed/a.txt"))

	empty, err := store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
