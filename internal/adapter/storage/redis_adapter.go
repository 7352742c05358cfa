package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/oleal/shopbook/internal/core/domain"
)

const (
	stockKeyPrefix    = "stock:"
	itemSnapshotKey   = "snapshot:items"
	idempotencyKeyTTL = 24 * time.Hour
)

var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

// RedisAdapter serves two cache roles: atomic stock counters with sale
// idempotency keys, and a msgpack-encoded item snapshot for reads.
type RedisAdapter struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, snapshotTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, snapshotTTL: snapshotTTL}
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID string, qty int) error {
	key := stockKeyPrefix + itemID
	return r.client.Set(ctx, key, qty, 0).Err()
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, itemID string, qty int) (bool, error) {
	key := stockKeyPrefix + itemID

	result, err := decrementStockScript.Run(ctx, r.client, []string{key}, qty).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisAdapter) IncrementStock(ctx context.Context, itemID string, qty int) error {
	key := stockKeyPrefix + itemID
	return r.client.IncrBy(ctx, key, int64(qty)).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) GetItems(ctx context.Context) ([]domain.InventoryItem, bool, error) {
	data, err := r.client.Get(ctx, itemSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.InventoryItem
	if err := msgpack.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (r *RedisAdapter) SetItems(ctx context.Context, items []domain.InventoryItem) error {
	data, err := msgpack.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemSnapshotKey, data, r.snapshotTTL).Err()
}

func (r *RedisAdapter) InvalidateItems(ctx context.Context) error {
	return r.client.Del(ctx, itemSnapshotKey).Err()
}
