package inventory

import (
	"strings"

	"github.com/sportstock/backend/internal/models"
)

// LowStockThreshold marks a record as low stock when its quantity drops
// strictly below it. Fixed, not configurable.
const LowStockThreshold = 3

// Group is all size-records sharing a (name, category) pair. It is the unit of
// display and of search filtering; it is derived on demand and never stored.
type Group struct {
	Name     string                 `json:"name"`
	Category models.Category        `json:"category"`
	Sizes    []models.InventoryItem `json:"sizes"`
}

// Suggestion is one known (name, category) pair offered while the user types a
// new product name.
type Suggestion struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
}

// CategoryUnits is the per-category unit total backing the dashboard chart.
type CategoryUnits struct {
	Name  models.Category `json:"name"`
	Value int             `json:"value"`
}

// Stats are the dashboard aggregates over the full (unfiltered) item list.
type Stats struct {
	ProductCount  int             `json:"productCount"`
	LowStockCount int             `json:"lowStockCount"`
	TotalUnits    int             `json:"totalUnits"`
	Categories    []CategoryUnits `json:"categories"`
}

// Groups buckets items by (name, category), preserving the first-seen order of
// keys and the original relative order of the size-records inside each bucket.
// The search term filters whole groups: a group passes when its name contains
// the term case-insensitively or its category contains it as-is. Size-records
// are never filtered individually.
func Groups(items []models.InventoryItem, search string) []Group {
	order := make([]string, 0)
	byKey := make(map[string]*Group)

	for _, item := range items {
		key := item.Name + "\x00" + string(item.Category)
		g, ok := byKey[key]
		if !ok {
			g = &Group{Name: item.Name, Category: item.Category}
			byKey[key] = g
			order = append(order, key)
		}
		g.Sizes = append(g.Sizes, item)
	}

	needle := strings.ToLower(search)
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		if !strings.Contains(strings.ToLower(g.Name), needle) &&
			!strings.Contains(string(g.Category), search) {
			continue
		}
		groups = append(groups, *g)
	}
	return groups
}

// Suggestions extracts the distinct product names with their categories. When
// the same name appears under two categories the later record wins; no
// conflict is surfaced. A non-empty partial keeps only names containing it as
// a substring; an empty partial returns every known product.
func Suggestions(items []models.InventoryItem, partial string) []Suggestion {
	order := make([]string, 0)
	categories := make(map[string]models.Category)

	for _, item := range items {
		if _, seen := categories[item.Name]; !seen {
			order = append(order, item.Name)
		}
		categories[item.Name] = item.Category
	}

	suggestions := make([]Suggestion, 0, len(order))
	for _, name := range order {
		if partial != "" && !strings.Contains(name, partial) {
			continue
		}
		suggestions = append(suggestions, Suggestion{Name: name, Category: categories[name]})
	}
	return suggestions
}

// Compute derives the dashboard stats. The distinct-product count is the
// number of groups, not the number of raw records.
func Compute(items []models.InventoryItem) Stats {
	stats := Stats{
		ProductCount: len(Groups(items, "")),
	}

	units := make(map[models.Category]int)
	for _, item := range items {
		stats.TotalUnits += item.Quantity
		if item.Quantity < LowStockThreshold {
			stats.LowStockCount++
		}
		units[item.Category] += item.Quantity
	}

	for _, category := range models.Categories {
		stats.Categories = append(stats.Categories, CategoryUnits{
			Name:  category,
			Value: units[category],
		})
	}
	return stats
}
