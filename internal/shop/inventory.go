package shop

import "github.com/linyijun92/naruto-rebirth-game/internal/catalog"

// Purchase quantity bounds per request.
const (
	MinPurchaseQuantity = 1
	MaxPurchaseQuantity = 99
)

// InventoryItem is one entry in a player's inventory. Non-stackable items
// occupy one entry per unit.
type InventoryItem struct {
	rowID    int64
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
}

// InventoryEntry pairs an inventory row with its catalog item for reads.
type InventoryEntry struct {
	InventoryItem
	Item catalog.Item `json:"item"`
}

// PurchaseResult reports a shop purchase settlement.
type PurchaseResult struct {
	ItemID      string `json:"itemId"`
	Quantity    int    `json:"quantity"`
	TotalPrice  int    `json:"totalPrice"`
	NewCurrency int    `json:"newCurrency"`
}

// SellResult reports a sale settlement.
type SellResult struct {
	ItemID            string `json:"itemId"`
	Quantity          int    `json:"quantity"`
	TotalEarned       int    `json:"totalEarned"`
	NewCurrency       int    `json:"newCurrency"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

// UseResult reports a consumable application.
type UseResult struct {
	ItemID            string `json:"itemId"`
	EffectTarget      string `json:"effectTarget"`
	Recovered         int    `json:"recovered"`
	Health            int    `json:"health"`
	Chakra            int    `json:"chakra"`
	RemainingQuantity int    `json:"remainingQuantity"`
}
