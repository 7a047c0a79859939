package models

// InventoryDocument is the full persisted body for one user's inventory. Every
// write replaces the whole document; there are no partial updates.
type InventoryDocument struct {
	Items       []InventoryItem `json:"items"`
	LastUpdated string          `json:"lastUpdated"`
	UserEmail   string          `json:"userEmail"`
}
