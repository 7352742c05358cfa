// Package metrics derives the displayed financial figures from raw
// item and transaction snapshots. Every function is pure: it reads the
// snapshot it is given and touches nothing else.
package metrics

import "github.com/oleal/shopbook/internal/core/domain"

// ClientBalance folds a client's transactions into a signed total.
// Positive means prepaid credit, negative means the client owes money.
func ClientBalance(txns []domain.Transaction, clientID string) domain.Cents {
	var balance domain.Cents
	for _, tx := range txns {
		if tx.ClientID != clientID {
			continue
		}
		if tx.Type == domain.TransactionCredit {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}
	return balance
}

// TotalOwed sums ClientBalance over all clients.
func TotalOwed(clients []domain.Client, txns []domain.Transaction) domain.Cents {
	var total domain.Cents
	for _, c := range clients {
		total += ClientBalance(txns, c.ID)
	}
	return total
}

// InventoryValue is the value of unsold stock at sale price.
func InventoryValue(items []domain.InventoryItem) domain.Cents {
	var total domain.Cents
	for _, it := range items {
		total += it.SellPrice.MulInt(it.Stock)
	}
	return total
}

// TotalInvestment is the cost basis of everything ever stocked, sold or
// not.
func TotalInvestment(items []domain.InventoryItem) domain.Cents {
	var total domain.Cents
	for _, it := range items {
		total += it.BuyPrice.MulInt(it.Stock + it.Sold)
	}
	return total
}

// TotalRevenue is the cumulative sale income across all items.
func TotalRevenue(items []domain.InventoryItem) domain.Cents {
	var total domain.Cents
	for _, it := range items {
		total += it.SellPrice.MulInt(it.Sold)
	}
	return total
}

// BreakEvenRemaining is the portion of the investment not yet recovered
// by sales, floored at zero.
func BreakEvenRemaining(items []domain.InventoryItem) domain.Cents {
	remaining := TotalInvestment(items) - TotalRevenue(items)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ItemProfit is the margin earned on sold units. Negative when units
// sold below cost.
func ItemProfit(it domain.InventoryItem) domain.Cents {
	return (it.SellPrice - it.BuyPrice).MulInt(it.Sold)
}

// BreakEvenUnits is the tagged result of ItemBreakEven. Units is only
// meaningful when Reachable is true.
type BreakEvenUnits struct {
	Reachable bool
	Units     int
}

// ItemBreakEven reports how many more units must sell for cumulative
// revenue to cover the item's cost basis. If revenue already covers
// cost the result is Reachable with zero units. If the margin is zero
// or negative while cost is still unrecovered, break-even cannot be
// reached and no division is attempted. Units round up.
func ItemBreakEven(it domain.InventoryItem) BreakEvenUnits {
	cost := it.BuyPrice.MulInt(it.Stock + it.Sold)
	revenue := it.SellPrice.MulInt(it.Sold)
	remaining := cost - revenue
	if remaining <= 0 {
		return BreakEvenUnits{Reachable: true}
	}
	margin := it.SellPrice - it.BuyPrice
	if margin <= 0 {
		return BreakEvenUnits{}
	}
	units := (int64(remaining) + int64(margin) - 1) / int64(margin)
	return BreakEvenUnits{Reachable: true, Units: int(units)}
}

// StatusOf maps a stock level to its display category.
func StatusOf(stock int) domain.StockStatus {
	switch {
	case stock == 0:
		return domain.StockStatusOut
	case stock < domain.LowStockThreshold:
		return domain.StockStatusLow
	default:
		return domain.StockStatusIn
	}
}
