package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/port"
)

// MemoryAdapter keeps all records in process memory. It is the
// local-state store variant: mutations take effect immediately and
// cannot fail beyond the guard checks.
type MemoryAdapter struct {
	mu        sync.Mutex
	items     map[string]domain.InventoryItem
	itemOrder []string
	clients   map[string]domain.Client
	txns      []domain.Transaction
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items:   make(map[string]domain.InventoryItem),
		clients: make(map[string]domain.Client),
	}
}

func (m *MemoryAdapter) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.InventoryItem, 0, len(m.itemOrder))
	for _, id := range m.itemOrder {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *MemoryAdapter) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &item, nil
}

func (m *MemoryAdapter) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[item.ID]; !exists {
		m.itemOrder = append(m.itemOrder, item.ID)
	}
	m.items[item.ID] = item
	return nil
}

func (m *MemoryAdapter) ApplySale(ctx context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return port.ErrNotFound
	}
	if item.Stock < qty {
		return port.ErrInsufficientStock
	}

	item.Stock -= qty
	item.Sold += qty
	item.UpdatedAt = time.Now()
	m.items[id] = item
	return nil
}

func (m *MemoryAdapter) AddStock(ctx context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return port.ErrNotFound
	}

	item.Stock += qty
	item.UpdatedAt = time.Now()
	m.items[id] = item
	return nil
}

func (m *MemoryAdapter) ListClients(ctx context.Context) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryAdapter) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, ok := m.clients[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &client, nil
}

func (m *MemoryAdapter) InsertClient(ctx context.Context, client domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients[client.ID] = client
	return nil
}

func (m *MemoryAdapter) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.clients, id)

	kept := m.txns[:0]
	for _, tx := range m.txns {
		if tx.ClientID != id {
			kept = append(kept, tx)
		}
	}
	m.txns = kept
	return nil
}

func (m *MemoryAdapter) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Transaction, len(m.txns))
	copy(out, m.txns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryAdapter) InsertTransaction(ctx context.Context, tx domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txns = append(m.txns, tx)
	return nil
}
