package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.BalanceCache using Redis. It holds the
// last successful live balance reading per wallet, consulted when the
// wallet service becomes unreachable before falling back to the ledger.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
	}
}

// Get returns the cached balance in sats and true, or false on a miss.
func (c *BalanceCache) Get(ctx context.Context, walletID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+walletID).Result()
	if err != nil {
		if err == goredis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis balance get: %w", err)
	}
	sats, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis balance parse: %w", err)
	}
	return sats, true, nil
}

// Set stores a live balance reading with TTL.
func (c *BalanceCache) Set(ctx context.Context, walletID string, sats int64, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+walletID, strconv.FormatInt(sats, 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}
