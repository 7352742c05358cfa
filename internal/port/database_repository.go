package port

import (
	"context"
	"errors"

	"github.com/oleal/shopbook/internal/core/domain"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a sale asks for more units
	// than the item currently holds.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type InventoryRepository interface {
	// ListItems returns all items, oldest first.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)

	// GetItem retrieves an item by id.
	GetItem(ctx context.Context, id string) (*domain.InventoryItem, error)

	// InsertItem persists a new item.
	InsertItem(ctx context.Context, item domain.InventoryItem) error

	// ApplySale moves qty units from stock to sold in one guarded
	// mutation; returns ErrInsufficientStock when stock would go negative.
	ApplySale(ctx context.Context, id string, qty int) error

	// AddStock increases stock by qty, leaving sold untouched.
	AddStock(ctx context.Context, id string, qty int) error
}

type ClientRepository interface {
	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// GetClient retrieves a client by id.
	GetClient(ctx context.Context, id string) (*domain.Client, error)

	// InsertClient persists a new client.
	InsertClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client and all of its transactions.
	DeleteClient(ctx context.Context, id string) error

	// ListTransactions returns all transactions, newest first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// InsertTransaction persists a new transaction.
	InsertTransaction(ctx context.Context, tx domain.Transaction) error
}
