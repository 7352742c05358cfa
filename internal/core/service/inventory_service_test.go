package service

import (
	"context"
	"errors"
	"testing"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/port"
)

// Mock InventoryRepository
type mockInventoryRepo struct {
	items     map[string]domain.InventoryItem
	order     []string
	listCalls int
	failApply error
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{items: make(map[string]domain.InventoryItem)}
}

func (m *mockInventoryRepo) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	m.listCalls++
	out := make([]domain.InventoryItem, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *mockInventoryRepo) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &item, nil
}

func (m *mockInventoryRepo) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *mockInventoryRepo) ApplySale(ctx context.Context, id string, qty int) error {
	if m.failApply != nil {
		return m.failApply
	}
	item, ok := m.items[id]
	if !ok {
		return port.ErrNotFound
	}
	if item.Stock < qty {
		return port.ErrInsufficientStock
	}
	item.Stock -= qty
	item.Sold += qty
	m.items[id] = item
	return nil
}

func (m *mockInventoryRepo) AddStock(ctx context.Context, id string, qty int) error {
	item, ok := m.items[id]
	if !ok {
		return port.ErrNotFound
	}
	item.Stock += qty
	m.items[id] = item
	return nil
}

// Mock StockCache
type mockStockCache struct {
	stock          map[string]int
	idempotencySet map[string]bool
	failIncrement  error
}

func newMockStockCache() *mockStockCache {
	return &mockStockCache{
		stock:          make(map[string]int),
		idempotencySet: make(map[string]bool),
	}
}

func (m *mockStockCache) SetStock(ctx context.Context, itemID string, qty int) error {
	m.stock[itemID] = qty
	return nil
}

func (m *mockStockCache) DecrementStock(ctx context.Context, itemID string, qty int) (bool, error) {
	if m.stock[itemID] >= qty {
		m.stock[itemID] -= qty
		return true, nil
	}
	return false, nil
}

func (m *mockStockCache) IncrementStock(ctx context.Context, itemID string, qty int) error {
	if m.failIncrement != nil {
		return m.failIncrement
	}
	m.stock[itemID] += qty
	return nil
}

func (m *mockStockCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

// Mock SnapshotCache
type mockSnapshotCache struct {
	items []domain.InventoryItem
	valid bool
}

func (m *mockSnapshotCache) GetItems(ctx context.Context) ([]domain.InventoryItem, bool, error) {
	if !m.valid {
		return nil, false, nil
	}
	return m.items, true, nil
}

func (m *mockSnapshotCache) SetItems(ctx context.Context, items []domain.InventoryItem) error {
	m.items = items
	m.valid = true
	return nil
}

func (m *mockSnapshotCache) InvalidateItems(ctx context.Context) error {
	m.items = nil
	m.valid = false
	return nil
}

func seedItem(t *testing.T, svc *InventoryService) domain.InventoryItem {
	t.Helper()
	item, err := svc.AddItem(context.Background(), AddItemInput{
		Name:      "Widget",
		BuyPrice:  500,
		SellPrice: 1000,
		Stock:     20,
	})
	if err != nil {
		t.Fatalf("seed item failed: %v", err)
	}
	return item
}

func TestAddItem_Success(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)

	item, err := svc.AddItem(context.Background(), AddItemInput{
		Name:      "  Widget  ",
		BuyPrice:  500,
		SellPrice: 1000,
		Stock:     20,
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if item.Name != "Widget" {
		t.Errorf("expected trimmed name, got %q", item.Name)
	}
	if item.Sold != 0 {
		t.Errorf("expected sold 0, got %d", item.Sold)
	}
	if _, ok := repo.items[item.ID]; !ok {
		t.Error("expected item persisted")
	}
}

func TestAddItem_Validation(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	ctx := context.Background()

	cases := []AddItemInput{
		{Name: "", BuyPrice: 500, SellPrice: 1000, Stock: 20},
		{Name: "Widget", BuyPrice: 0, SellPrice: 1000, Stock: 20},
		{Name: "Widget", BuyPrice: 500, SellPrice: -1, Stock: 20},
		{Name: "Widget", BuyPrice: 500, SellPrice: 1000, Stock: 0},
	}
	for _, in := range cases {
		if _, err := svc.AddItem(ctx, in); !errors.Is(err, ErrValidation) {
			t.Errorf("AddItem(%+v): expected ErrValidation, got %v", in, err)
		}
	}

	if len(repo.items) != 0 {
		t.Error("expected no writes on validation failure")
	}
}

func TestAddItem_SeedsStockCache(t *testing.T) {
	repo := newMockInventoryRepo()
	cache := newMockStockCache()
	svc := NewInventoryService(repo, cache, nil)

	item := seedItem(t, svc)

	if cache.stock[item.ID] != 20 {
		t.Errorf("expected cached stock 20, got %d", cache.stock[item.ID])
	}
}

func TestRecordSale_Success(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	result, err := svc.RecordSale(context.Background(), "req-1", item.ID, 3)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if result.Item.Stock != 17 || result.Item.Sold != 3 {
		t.Errorf("expected stock 17 sold 3, got stock %d sold %d", result.Item.Stock, result.Item.Sold)
	}
	if result.Revenue != 3000 {
		t.Errorf("expected revenue 30.00, got %s", result.Revenue)
	}
}

func TestRecordSale_InvalidQuantity(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	for _, qty := range []int{0, -3} {
		if _, err := svc.RecordSale(context.Background(), "", item.ID, qty); !errors.Is(err, ErrValidation) {
			t.Errorf("quantity %d: expected ErrValidation, got %v", qty, err)
		}
	}
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	_, err := svc.RecordSale(context.Background(), "", item.ID, 21)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	// State unchanged
	got := repo.items[item.ID]
	if got.Stock != 20 || got.Sold != 0 {
		t.Errorf("expected stock 20 sold 0, got stock %d sold %d", got.Stock, got.Sold)
	}
}

func TestRecordSale_UnknownItem(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)

	_, err := svc.RecordSale(context.Background(), "", "missing", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestRecordSale_DuplicateRequest(t *testing.T) {
	repo := newMockInventoryRepo()
	cache := newMockStockCache()
	svc := NewInventoryService(repo, cache, nil)
	item := seedItem(t, svc)

	if _, err := svc.RecordSale(context.Background(), "req-1", item.ID, 1); err != nil {
		t.Fatalf("first sale failed: %v", err)
	}

	_, err := svc.RecordSale(context.Background(), "req-1", item.ID, 1)
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got: %v", err)
	}

	// Stock decremented only once
	got := repo.items[item.ID]
	if got.Stock != 19 || got.Sold != 1 {
		t.Errorf("expected stock 19 sold 1, got stock %d sold %d", got.Stock, got.Sold)
	}
}

func TestRecordSale_RollbackOnStoreFailure(t *testing.T) {
	repo := newMockInventoryRepo()
	cache := newMockStockCache()
	svc := NewInventoryService(repo, cache, nil)
	item := seedItem(t, svc)

	repo.failApply = errors.New("backend unavailable")

	_, err := svc.RecordSale(context.Background(), "req-1", item.ID, 5)
	if err == nil {
		t.Fatal("expected error")
	}

	// Cached stock restored
	if cache.stock[item.ID] != 20 {
		t.Errorf("expected cached stock 20 after rollback, got %d", cache.stock[item.ID])
	}
}

func TestAddStock_Success(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	updated, err := svc.AddStock(context.Background(), item.ID, 5)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if updated.Stock != 25 {
		t.Errorf("expected stock 25, got %d", updated.Stock)
	}
	if updated.Sold != 0 {
		t.Errorf("expected sold untouched, got %d", updated.Sold)
	}
}

func TestAddStock_CacheSyncFailureIsNotFatal(t *testing.T) {
	repo := newMockInventoryRepo()
	cache := newMockStockCache()
	svc := NewInventoryService(repo, cache, nil)
	item := seedItem(t, svc)

	cache.failIncrement = errors.New("cache unavailable")

	// The store write already succeeded; surfacing the cache failure
	// would invite a retry that double-applies the restock.
	updated, err := svc.AddStock(context.Background(), item.ID, 5)
	if err != nil {
		t.Fatalf("expected success despite cache failure, got: %v", err)
	}
	if updated.Stock != 25 {
		t.Errorf("expected stock 25, got %d", updated.Stock)
	}
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	if _, err := svc.AddStock(context.Background(), item.ID, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestListItems_ServesFromSnapshotCache(t *testing.T) {
	repo := newMockInventoryRepo()
	snapshot := &mockSnapshotCache{}
	svc := NewInventoryService(repo, nil, snapshot)
	seedItem(t, svc)

	// First list populates the cache, second is served from it.
	if _, err := svc.ListItems(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	repoCallsAfterFirst := repo.listCalls

	if _, err := svc.ListItems(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.listCalls != repoCallsAfterFirst {
		t.Error("expected second list to hit the snapshot cache")
	}
}

func TestListItems_MutationInvalidatesSnapshot(t *testing.T) {
	repo := newMockInventoryRepo()
	snapshot := &mockSnapshotCache{}
	svc := NewInventoryService(repo, nil, snapshot)
	item := seedItem(t, svc)

	if _, err := svc.ListItems(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := svc.RecordSale(context.Background(), "", item.ID, 2); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	items, err := svc.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if items[0].Stock != 18 {
		t.Errorf("expected refreshed snapshot with stock 18, got %d", items[0].Stock)
	}
}

func TestSummary(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil, nil)
	item := seedItem(t, svc)

	if _, err := svc.RecordSale(context.Background(), "", item.ID, 3); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.TotalItems != 1 {
		t.Errorf("expected 1 item, got %d", summary.TotalItems)
	}
	if summary.InventoryValue != 17000 {
		t.Errorf("expected value 170.00, got %s", summary.InventoryValue)
	}
	if summary.TotalInvestment != 10000 {
		t.Errorf("expected investment 100.00, got %s", summary.TotalInvestment)
	}
	if summary.TotalRevenue != 3000 {
		t.Errorf("expected revenue 30.00, got %s", summary.TotalRevenue)
	}
	if summary.BreakEvenNeeded != 7000 {
		t.Errorf("expected break-even 70.00, got %s", summary.BreakEvenNeeded)
	}
}
