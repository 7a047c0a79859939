package models

import (
	"strings"
	"time"
)

// Category is the fixed set of product categories.
type Category string

const (
	CategoryClothes   Category = "Clothes"
	CategoryShoes     Category = "Shoes"
	CategoryEquipment Category = "Equipment"
)

var Categories = []Category{
	CategoryClothes,
	CategoryShoes,
	CategoryEquipment,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// InventoryItem is one stock-keeping record. Two items with the same name and
// category but different sizes are distinct records; a repeated
// (name, category, size) merges into the existing record instead.
type InventoryItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type AddItemRequest struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Size     string   `json:"size"`
	Quantity int      `json:"quantity"`
}

func (r *AddItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Product name is required"
	}
	if !r.Category.Valid() {
		errors["category"] = "Category must be one of Clothes, Shoes or Equipment"
	}
	if strings.TrimSpace(r.Size) == "" {
		errors["size"] = "Size is required"
	}
	if r.Quantity <= 0 {
		errors["quantity"] = "Quantity must be positive"
	}

	return errors
}

// AdjustItemRequest changes a record's quantity. Amount is free text from the
// UI; a non-numeric or non-positive value makes the adjustment a no-op.
type AdjustItemRequest struct {
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

func (r *AdjustItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Direction != DirectionIncrease && r.Direction != DirectionDecrease {
		errors["direction"] = "Direction must be increase or decrease"
	}

	return errors
}
