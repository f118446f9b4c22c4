package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const balanceKeyPrefix = "account:balance:"

// scanBatch is the COUNT hint passed to SCAN while flushing.
const scanBatch = 500

// BalanceCache stores account balances in redis as decimal strings.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{
		client: client,
		ttl:    ttl,
	}
}

// BalanceKey is the redis key for an account's cached balance.
func BalanceKey(accountNumber string) string {
	return balanceKeyPrefix + accountNumber
}

// Get returns the cached balance and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, accountNumber string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, BalanceKey(accountNumber)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to get cached balance: %w", err)
	}

	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to parse cached balance %q: %w", val, err)
	}
	return balance, true, nil
}

func (c *BalanceCache) Set(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	if err := c.client.Set(ctx, BalanceKey(accountNumber), balance.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

// Invalidate drops the cached balances of the given accounts.
func (c *BalanceCache) Invalidate(ctx context.Context, accountNumbers ...string) error {
	if len(accountNumbers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(accountNumbers))
	for _, n := range accountNumbers {
		keys = append(keys, BalanceKey(n))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached balances: %w", err)
	}
	return nil
}

// Flush removes every cached balance. Other keys in the database are left alone.
func (c *BalanceCache) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, balanceKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached balances: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to flush cached balances: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *BalanceCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (c *BalanceCache) GetStats() *redis.PoolStats {
	return c.client.PoolStats()
}

// Close closes the Redis client connection
func (c *BalanceCache) Close() error {
	return c.client.Close()
}
