package port

import (
	"context"

	"github.com/oleal/shopbook/internal/core/domain"
)

type StockCache interface {
	// SetStock overwrites the cached stock level for an item.
	SetStock(ctx context.Context, itemID string, qty int) error

	// DecrementStock atomically decreases cached stock, returns false if insufficient.
	DecrementStock(ctx context.Context, itemID string, qty int) (bool, error)

	// IncrementStock restores stock (for rollback on failure).
	IncrementStock(ctx context.Context, itemID string, qty int) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}

type SnapshotCache interface {
	// GetItems returns the cached item snapshot; ok is false on a miss.
	GetItems(ctx context.Context) (items []domain.InventoryItem, ok bool, err error)

	// SetItems caches an item snapshot until the adapter's TTL expires.
	SetItems(ctx context.Context, items []domain.InventoryItem) error

	// InvalidateItems drops the cached snapshot.
	InvalidateItems(ctx context.Context) error
}
