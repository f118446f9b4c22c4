package account

import (
	"context"

	"github.com/shopspring/decimal"
)

// NopBalanceCache is used when no cache is configured. Every lookup misses.
type NopBalanceCache struct{}

func (NopBalanceCache) Get(context.Context, string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}
func (NopBalanceCache) Set(context.Context, string, decimal.Decimal) error { return nil }
func (NopBalanceCache) Invalidate(context.Context, ...string) error        { return nil }
