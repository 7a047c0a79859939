package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sportstock/backend/internal/models"
)

// Every mutation returns a new full list; callers hand the result to the sync
// layer, which replaces the remote document wholesale.

// AddOrMerge folds a candidate from the add-product form into the list. An
// exact (name, category, size) match has its quantity increased in place and
// its timestamp refreshed, keeping its id and position. Otherwise a new record
// with a fresh id is inserted at the front (most-recent-first is a display
// convenience only).
func AddOrMerge(items []models.InventoryItem, name string, category models.Category, size string, quantity int, now time.Time) []models.InventoryItem {
	for i, item := range items {
		if item.Name == name && item.Category == category && item.Size == size {
			updated := cloneItems(items)
			updated[i].Quantity += quantity
			updated[i].LastUpdated = now
			return updated
		}
	}

	updated := make([]models.InventoryItem, 0, len(items)+1)
	updated = append(updated, models.InventoryItem{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Size:        size,
		Quantity:    quantity,
		LastUpdated: now,
	})
	return append(updated, items...)
}

// Adjust applies a signed quantity change to the record with the given id. The
// raw amount comes straight from a free-text input: anything non-numeric or
// non-positive makes the whole operation a silent no-op, reported through the
// second return value. Quantities clamp at zero and never go negative.
func Adjust(items []models.InventoryItem, id string, increase bool, rawAmount string, now time.Time) ([]models.InventoryItem, bool) {
	amount, err := strconv.Atoi(strings.TrimSpace(rawAmount))
	if err != nil || amount <= 0 {
		return items, false
	}

	for i, item := range items {
		if item.ID != id {
			continue
		}
		next := item.Quantity - amount
		if increase {
			next = item.Quantity + amount
		}
		if next < 0 {
			next = 0
		}
		updated := cloneItems(items)
		updated[i].Quantity = next
		updated[i].LastUpdated = now
		return updated, true
	}
	return items, false
}

// Remove deletes exactly the record with the given id. There are no cascading
// effects; an emptied product group simply disappears on the next Groups call.
func Remove(items []models.InventoryItem, id string) ([]models.InventoryItem, bool) {
	updated := make([]models.InventoryItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		updated = append(updated, item)
	}
	return updated, found
}

func cloneItems(items []models.InventoryItem) []models.InventoryItem {
	cloned := make([]models.InventoryItem, len(items))
	copy(cloned, items)
	return cloned
}
