package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/core/metrics"
	"github.com/oleal/shopbook/internal/port"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrInsufficientStock = port.ErrInsufficientStock
	ErrNotFound          = port.ErrNotFound
)

// InventoryService owns the item mutation flows and their validation.
// Both caches are optional; with a nil cache the service works directly
// against the repository.
type InventoryService struct {
	repo     port.InventoryRepository
	stock    port.StockCache
	snapshot port.SnapshotCache
}

func NewInventoryService(repo port.InventoryRepository, stock port.StockCache, snapshot port.SnapshotCache) *InventoryService {
	return &InventoryService{
		repo:     repo,
		stock:    stock,
		snapshot: snapshot,
	}
}

type AddItemInput struct {
	Name      string
	BuyPrice  domain.Cents
	SellPrice domain.Cents
	Stock     int
}

func (s *InventoryService) AddItem(ctx context.Context, in AddItemInput) (domain.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.InventoryItem{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.BuyPrice <= 0 || in.SellPrice <= 0 {
		return domain.InventoryItem{}, fmt.Errorf("%w: prices must be greater than 0", ErrValidation)
	}
	if in.Stock <= 0 {
		return domain.InventoryItem{}, fmt.Errorf("%w: initial stock must be greater than 0", ErrValidation)
	}

	now := time.Now()
	item := domain.InventoryItem{
		ID:        uuid.NewString(),
		Name:      name,
		BuyPrice:  in.BuyPrice,
		SellPrice: in.SellPrice,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("insert item: %w", err)
	}

	if s.stock != nil {
		if err := s.stock.SetStock(ctx, item.ID, item.Stock); err != nil {
			return domain.InventoryItem{}, fmt.Errorf("seed stock cache: %w", err)
		}
	}
	s.invalidateSnapshot(ctx)

	return item, nil
}

type SaleResult struct {
	Item     domain.InventoryItem
	Quantity int
	Revenue  domain.Cents
}

// RecordSale moves qty units from stock to sold. When a stock cache is
// configured, the request id guards against duplicate submissions and
// the cached stock is decremented up front, then restored if the store
// write fails.
func (s *InventoryService) RecordSale(ctx context.Context, requestID, itemID string, qty int) (SaleResult, error) {
	if itemID == "" {
		return SaleResult{}, fmt.Errorf("%w: item id is required", ErrValidation)
	}
	if qty <= 0 {
		return SaleResult{}, fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	}

	if s.stock != nil && requestID != "" {
		ok, err := s.stock.SetIdempotency(ctx, "sale:"+requestID)
		if err != nil {
			return SaleResult{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return SaleResult{}, ErrDuplicateRequest
		}
	}

	if s.stock != nil {
		ok, err := s.stock.DecrementStock(ctx, itemID, qty)
		if err != nil {
			return SaleResult{}, fmt.Errorf("stock decrement failed: %w", err)
		}
		if !ok {
			return SaleResult{}, ErrInsufficientStock
		}
	}

	if err := s.repo.ApplySale(ctx, itemID, qty); err != nil {
		if s.stock != nil {
			if rbErr := s.stock.IncrementStock(ctx, itemID, qty); rbErr != nil {
				return SaleResult{}, fmt.Errorf("apply sale: %w (stock cache rollback failed: %v)", err, rbErr)
			}
		}
		if errors.Is(err, port.ErrInsufficientStock) || errors.Is(err, port.ErrNotFound) {
			return SaleResult{}, err
		}
		return SaleResult{}, fmt.Errorf("apply sale: %w", err)
	}
	s.invalidateSnapshot(ctx)

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return SaleResult{}, fmt.Errorf("reload item: %w", err)
	}

	return SaleResult{
		Item:     *item,
		Quantity: qty,
		Revenue:  item.SellPrice.MulInt(qty),
	}, nil
}

// AddStock restocks an item: stock increases alone, sold is untouched.
func (s *InventoryService) AddStock(ctx context.Context, itemID string, qty int) (domain.InventoryItem, error) {
	if itemID == "" {
		return domain.InventoryItem{}, fmt.Errorf("%w: item id is required", ErrValidation)
	}
	if qty <= 0 {
		return domain.InventoryItem{}, fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	}

	if err := s.repo.AddStock(ctx, itemID, qty); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return domain.InventoryItem{}, err
		}
		return domain.InventoryItem{}, fmt.Errorf("add stock: %w", err)
	}

	if s.stock != nil {
		// Best effort: the store already holds the new stock, and a
		// cached value that stayed low can only reject sales early,
		// never oversell.
		_ = s.stock.IncrementStock(ctx, itemID, qty)
	}
	s.invalidateSnapshot(ctx)

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("reload item: %w", err)
	}
	return *item, nil
}

// ListItems returns the current item snapshot, served from the snapshot
// cache when one is configured and fresh.
func (s *InventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	if s.snapshot != nil {
		items, ok, err := s.snapshot.GetItems(ctx)
		if err == nil && ok {
			return items, nil
		}
		// a cache failure falls through to the repository
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.snapshot != nil {
		// repopulation is best effort; the next read retries
		_ = s.snapshot.SetItems(ctx, items)
	}
	return items, nil
}

type InventorySummary struct {
	TotalItems      int
	InventoryValue  domain.Cents
	TotalInvestment domain.Cents
	TotalRevenue    domain.Cents
	BreakEvenNeeded domain.Cents
}

func (s *InventoryService) Summary(ctx context.Context) (InventorySummary, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return InventorySummary{}, err
	}
	return InventorySummary{
		TotalItems:      len(items),
		InventoryValue:  metrics.InventoryValue(items),
		TotalInvestment: metrics.TotalInvestment(items),
		TotalRevenue:    metrics.TotalRevenue(items),
		BreakEvenNeeded: metrics.BreakEvenRemaining(items),
	}, nil
}

func (s *InventoryService) invalidateSnapshot(ctx context.Context) {
	if s.snapshot != nil {
		_ = s.snapshot.InvalidateItems(ctx)
	}
}
