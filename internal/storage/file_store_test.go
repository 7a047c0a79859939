package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sportstock/backend/internal/models"
)

func TestFileStore_LoadMissingUser(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, doc.Items)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	doc := models.InventoryDocument{
		Items: []models.InventoryItem{
			{
				ID:          "a",
				Name:        "Nike",
				Category:    models.CategoryShoes,
				Size:        "42",
				Quantity:    2,
				LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		LastUpdated: "2026-08-01T12:00:00Z",
		UserEmail:   "u1@example.com",
	}
	require.NoError(t, store.Save(ctx, "u1", doc))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, doc, got)

	// No stray temp files after a save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "u1.json", entries[0].Name())
}

func TestFileStore_SaveReplacesDocument(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := models.InventoryDocument{UserEmail: "u1@example.com", Items: []models.InventoryItem{{ID: "a", Name: "Nike"}}}
	require.NoError(t, store.Save(ctx, "u1", first))
	require.NoError(t, store.Save(ctx, "u1", models.InventoryDocument{UserEmail: "u1@example.com"}))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got.Items, "save replaces the whole document")
}

func TestFileStore_PathTraversalGuard(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../escape", models.InventoryDocument{}))

	_, err = os.Stat(filepath.Join(dir, "..", "escape.json"))
	require.True(t, os.IsNotExist(err), "documents must stay inside the data dir")
}
