package repositories

import (
	"context"
	"errors"

	"bankledger/internal/models"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrAccountNotLocked = errors.New("account is not part of the transaction")
)

// AccountRepository is the account store used by the ledger.
type AccountRepository interface {
	// FindByID returns ErrAccountNotFound when no account has the number.
	FindByID(ctx context.Context, accountNumber string) (*models.Account, error)
	// Create inserts a new account and returns ErrDuplicateAccount on a key collision.
	Create(ctx context.Context, account *models.Account) error
	// Save upserts an account by account number.
	Save(ctx context.Context, account *models.Account) error
	// SaveAll upserts every account or none of them.
	SaveAll(ctx context.Context, accounts []*models.Account) error

	// ExecuteInTransaction runs fn with exclusive access to the listed
	// accounts. Writes made through the repository passed to fn are kept
	// only if fn returns nil; fn's error is returned unchanged.
	ExecuteInTransaction(ctx context.Context, accountNumbers []string, fn func(AccountRepository) error) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}
