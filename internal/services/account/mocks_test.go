package account

import (
	"context"
	"errors"
	"sync"

	"bankledger/internal/models"
	"bankledger/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindByID(ctx context.Context, accountNumber string) (*models.Account, error) {
	args := m.Called(ctx, accountNumber)
	if acc := args.Get(0); acc != nil {
		return acc.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, account *models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockRepository) Save(ctx context.Context, account *models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockRepository) SaveAll(ctx context.Context, accounts []*models.Account) error {
	return m.Called(ctx, accounts).Error(0)
}

func (m *mockRepository) ExecuteInTransaction(ctx context.Context, accountNumbers []string, fn func(repositories.AccountRepository) error) error {
	args := m.Called(ctx, accountNumbers)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// failingSaveAllRepository lets every unit run but fails its SaveAll.
type failingSaveAllRepository struct {
	repositories.AccountRepository
	err error
}

func (r *failingSaveAllRepository) ExecuteInTransaction(ctx context.Context, ids []string, fn func(repositories.AccountRepository) error) error {
	return r.AccountRepository.ExecuteInTransaction(ctx, ids, func(tx repositories.AccountRepository) error {
		return fn(&failingSaveAllRepository{AccountRepository: tx, err: r.err})
	})
}

func (r *failingSaveAllRepository) SaveAll(context.Context, []*models.Account) error {
	return r.err
}

// spyCache is an in-process BalanceCache that records invalidations.
type spyCache struct {
	mu            sync.Mutex
	values        map[string]decimal.Decimal
	invalidated   []string
	invalidateErr error
	getErr        error
}

func newSpyCache() *spyCache {
	return &spyCache{values: make(map[string]decimal.Decimal)}
}

func (c *spyCache) Get(_ context.Context, accountNumber string) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return decimal.Zero, false, c.getErr
	}
	v, ok := c.values[accountNumber]
	return v, ok, nil
}

func (c *spyCache) Set(_ context.Context, accountNumber string, balance decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[accountNumber] = balance
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, accountNumbers ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	for _, n := range accountNumbers {
		delete(c.values, n)
		c.invalidated = append(c.invalidated, n)
	}
	return nil
}

func (c *spyCache) has(accountNumber string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[accountNumber]
	return ok
}

var errStoreDown = errors.New("store unavailable")
