package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Cache membungkus operasi Redis yang dipakai handler & notifier supaya
// gampang di-fake di test. Semua method best-effort: error Redis tidak
// boleh menggagalkan request.
type Cache struct {
	R *redis.Client
}

func (c *Cache) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	return c.R.Get(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Result()
}

func (c *Cache) SetOrderStatus(ctx context.Context, orderID string, payload []byte) error {
	return c.R.Set(ctx, fmt.Sprintf(KeyOrderStatus, orderID), payload, TTLStatusCache).Err()
}

// SeenEvent: dedup per event_id. Return true jika event sudah pernah diproses.
func (c *Cache) SeenEvent(ctx context.Context, service, eventID string) (bool, error) {
	key := fmt.Sprintf(KeyDedup, service, eventID)
	ok, err := c.R.SetNX(ctx, key, "1", TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// SeenWebhook: shortcut dedup notifikasi (order_id + transaction_status).
func (c *Cache) SeenWebhook(ctx context.Context, orderID, transactionStatus string) (bool, error) {
	key := fmt.Sprintf(KeyWebhookSeen, orderID, transactionStatus)
	ok, err := c.R.SetNX(ctx, key, "1", TTLWebhook).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
