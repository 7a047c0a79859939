package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sportstock/backend/internal/models"
)

func item(id, name string, category models.Category, size string, quantity int) models.InventoryItem {
	return models.InventoryItem{
		ID:          id,
		Name:        name,
		Category:    category,
		Size:        size,
		Quantity:    quantity,
		LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGroups_OrderAndMembership(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "Nike Air", models.CategoryShoes, "42", 5),
		item("2", "Adidas Tee", models.CategoryClothes, "M", 2),
		item("3", "Nike Air", models.CategoryShoes, "43", 1),
		item("4", "Nike Air", models.CategoryClothes, "L", 4),
	}

	groups := Groups(items, "")
	require.Len(t, groups, 3)

	// First-seen key order is preserved.
	require.Equal(t, "Nike Air", groups[0].Name)
	require.Equal(t, models.CategoryShoes, groups[0].Category)
	require.Equal(t, "Adidas Tee", groups[1].Name)
	require.Equal(t, "Nike Air", groups[2].Name)
	require.Equal(t, models.CategoryClothes, groups[2].Category)

	// Size-records keep their original relative order inside a group.
	require.Equal(t, []string{"42", "43"}, []string{groups[0].Sizes[0].Size, groups[0].Sizes[1].Size})
}

func TestGroups_FlattenPreservesMultiset(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "Nike Air", models.CategoryShoes, "42", 5),
		item("2", "Adidas Tee", models.CategoryClothes, "M", 2),
		item("3", "Nike Air", models.CategoryShoes, "43", 1),
		item("4", "Ball", models.CategoryEquipment, "5", 7),
	}

	flattened := make([]models.InventoryItem, 0, len(items))
	for _, g := range Groups(items, "") {
		flattened = append(flattened, g.Sizes...)
	}

	require.Len(t, flattened, len(items))
	require.ElementsMatch(t, items, flattened)
}

func TestGroups_SearchFiltering(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "Nike Air", models.CategoryShoes, "42", 5),
		item("2", "Adidas Tee", models.CategoryClothes, "M", 2),
		item("3", "Ball", models.CategoryEquipment, "5", 7),
	}

	t.Run("name substring is case-insensitive", func(t *testing.T) {
		groups := Groups(items, "nike")
		require.Len(t, groups, 1)
		require.Equal(t, "Nike Air", groups[0].Name)
	})

	t.Run("category partial match passes the whole group", func(t *testing.T) {
		groups := Groups(items, "Equip")
		require.Len(t, groups, 1)
		require.Equal(t, "Ball", groups[0].Name)
		// No partial-group filtering: all size-records come along.
		require.Len(t, groups[0].Sizes, 1)
	})

	t.Run("no match yields no groups", func(t *testing.T) {
		require.Empty(t, Groups(items, "puma"))
	})

	t.Run("empty term passes everything", func(t *testing.T) {
		require.Len(t, Groups(items, ""), 3)
	})
}

func TestSuggestions(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "Nike Air", models.CategoryShoes, "42", 5),
		item("2", "Adidas Tee", models.CategoryClothes, "M", 2),
		item("3", "Nike Air", models.CategoryClothes, "L", 1),
	}

	t.Run("last write wins on category conflict", func(t *testing.T) {
		suggestions := Suggestions(items, "")
		require.Len(t, suggestions, 2)
		require.Equal(t, Suggestion{Name: "Nike Air", Category: models.CategoryClothes}, suggestions[0])
		require.Equal(t, Suggestion{Name: "Adidas Tee", Category: models.CategoryClothes}, suggestions[1])
	})

	t.Run("partial filters by substring", func(t *testing.T) {
		suggestions := Suggestions(items, "Adi")
		require.Len(t, suggestions, 1)
		require.Equal(t, "Adidas Tee", suggestions[0].Name)
	})

	t.Run("empty partial offers all known products", func(t *testing.T) {
		require.Len(t, Suggestions(items, ""), 2)
	})

	t.Run("no items no suggestions", func(t *testing.T) {
		require.Empty(t, Suggestions(nil, ""))
	})
}

func TestCompute(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "Nike Air", models.CategoryShoes, "42", 2),
		item("2", "Nike Air", models.CategoryShoes, "43", 10),
		item("3", "Adidas Tee", models.CategoryClothes, "M", 1),
		item("4", "Ball", models.CategoryEquipment, "5", 3),
	}

	stats := Compute(items)

	// Distinct products = group count, not record count.
	require.Equal(t, 3, stats.ProductCount)
	// Low stock counts records with quantity < 3, independent of grouping.
	require.Equal(t, 2, stats.LowStockCount)
	require.Equal(t, 16, stats.TotalUnits)

	require.Equal(t, []CategoryUnits{
		{Name: models.CategoryClothes, Value: 1},
		{Name: models.CategoryShoes, Value: 12},
		{Name: models.CategoryEquipment, Value: 3},
	}, stats.Categories)
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil)
	require.Zero(t, stats.ProductCount)
	require.Zero(t, stats.LowStockCount)
	require.Zero(t, stats.TotalUnits)
	require.Len(t, stats.Categories, 3)
}
