package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sportstock/backend/internal/models"
)

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1756400000000)

	require.Equal(t, "inventory_abcde_1756400000000.pdf", Filename("abcdefgh-1234", now))

	t.Run("short user id is kept whole", func(t *testing.T) {
		require.Equal(t, "inventory_ab_1756400000000.pdf", Filename("ab", now))
	})
}

func TestBuild(t *testing.T) {
	items := []models.InventoryItem{
		{
			ID:          "a",
			Name:        "Nike Air",
			Category:    models.CategoryShoes,
			Size:        "42",
			Quantity:    2,
			LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "b",
			Name:        "Adidas Tee",
			Category:    models.CategoryClothes,
			Size:        "M",
			Quantity:    5,
			LastUpdated: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := Build("user-123", items, time.Now())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"), "output must be a PDF document")
	require.Greater(t, len(data), 500)
}

func TestBuild_EmptyInventory(t *testing.T) {
	data, err := Build("user-123", nil, time.Now())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
}
