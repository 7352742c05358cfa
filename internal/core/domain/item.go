package domain

import "time"

// LowStockThreshold is the stock level below which an item is reported
// as low stock.
const LowStockThreshold = 10

type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusIn  StockStatus = "in_stock"
)

// InventoryItem tracks a product's pricing and its unsold/sold unit
// counters. Stock decreases and Sold increases by equal amounts on a
// sale; Stock increases alone on a restock.
type InventoryItem struct {
	ID        string
	Name      string
	BuyPrice  Cents
	SellPrice Cents
	Stock     int
	Sold      int
	CreatedAt time.Time
	UpdatedAt time.Time
}
