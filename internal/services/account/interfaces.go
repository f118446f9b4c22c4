package account

import (
	"context"
	"time"

	"bankledger/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the account ledger
type Service interface {
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*models.Account, error)
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(ctx context.Context, sourceAccountNumber, destinationAccountNumber string, amount decimal.Decimal) (decimal.Decimal, error)
}

// BalanceCache is the read-through cache in front of the account store
type BalanceCache interface {
	Get(ctx context.Context, accountNumber string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, accountNumber string, balance decimal.Decimal) error
	Invalidate(ctx context.Context, accountNumbers ...string) error
}

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	// result is "success" or the domain error code, "error" for anything else
	RecordOperationResult(operation, result string)

	RecordCacheHit(operation string)
	RecordCacheMiss(operation string)
}
