package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bankledger/internal/models"
	"bankledger/internal/repositories/journal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(number, balance string) *models.Account {
	return &models.Account{
		AccountNumber: number,
		FirstName:     "Jane",
		LastName:      "Doe",
		Balance:       decimal.RequireFromString(balance),
	}
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, newAccount("123", "10.50")))

	got, err := repo.FindByID(ctx, "123")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got.Balance))
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.FindByID(ctx, "999")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = repo.Create(ctx, newAccount("123", "0"))
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestMemoryRepository_FindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newAccount("123", "10")))

	got, err := repo.FindByID(ctx, "123")
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(1000)

	again, err := repo.FindByID(ctx, "123")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(again.Balance))
}

func TestMemoryRepository_TransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newAccount("a", "100")))
	require.NoError(t, repo.Create(ctx, newAccount("b", "0")))

	boom := errors.New("boom")
	err = repo.ExecuteInTransaction(ctx, []string{"a", "b"}, func(tx AccountRepository) error {
		a, err := tx.FindByID(ctx, "a")
		require.NoError(t, err)
		a.Balance = a.Balance.Sub(decimal.NewFromInt(40))
		require.NoError(t, tx.Save(ctx, a))

		staged, err := tx.FindByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(60).Equal(staged.Balance))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	a, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(a.Balance))
}

func TestMemoryRepository_SaveAll(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newAccount("a", "100")))
	require.NoError(t, repo.Create(ctx, newAccount("b", "0")))

	tests := []struct {
		name     string
		accounts []*models.Account
		wantErr  error
		wantA    string
		wantB    string
	}{
		{
			name:     "both legs applied",
			accounts: []*models.Account{newAccount("a", "70"), newAccount("b", "30")},
			wantA:    "70",
			wantB:    "30",
		},
		{
			name:     "negative leg rejects the batch",
			accounts: []*models.Account{newAccount("a", "-1"), newAccount("b", "101")},
			wantErr:  models.ErrNegativeBalance,
			wantA:    "70",
			wantB:    "30",
		},
		{
			name:     "oversized leg rejects the batch",
			accounts: []*models.Account{newAccount("a", "0"), newAccount("b", "100000000000000000000")},
			wantErr:  models.ErrBalanceOutOfRange,
			wantA:    "70",
			wantB:    "30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.SaveAll(ctx, tt.accounts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			a, _ := repo.FindByID(ctx, "a")
			b, _ := repo.FindByID(ctx, "b")
			assert.True(t, decimal.RequireFromString(tt.wantA).Equal(a.Balance))
			assert.True(t, decimal.RequireFromString(tt.wantB).Equal(b.Balance))
		})
	}
}

func TestMemoryRepository_WriteOutsideLockedSet(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newAccount("a", "1")))
	require.NoError(t, repo.Create(ctx, newAccount("b", "1")))

	err = repo.ExecuteInTransaction(ctx, []string{"a"}, func(tx AccountRepository) error {
		return tx.Save(ctx, newAccount("b", "5"))
	})
	assert.ErrorIs(t, err, ErrAccountNotLocked)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo, err := NewMemoryRepository(nil)
	require.NoError(t, err)

	called := false
	err = repo.ExecuteInTransaction(ctx, []string{"a"}, func(tx AccountRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemoryRepository_JournalReplay(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.journal")

	j, err := journal.Open(path)
	require.NoError(t, err)
	repo, err := NewMemoryRepository(j)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, newAccount("a", "100")))
	require.NoError(t, repo.Create(ctx, newAccount("b", "0")))
	require.NoError(t, repo.SaveAll(ctx, []*models.Account{newAccount("a", "75.25"), newAccount("b", "24.75")}))
	_ = repo.ExecuteInTransaction(ctx, []string{"a"}, func(tx AccountRepository) error {
		require.NoError(t, tx.Save(ctx, newAccount("a", "0")))
		return errors.New("rolled back")
	})
	require.NoError(t, j.Close())

	j, err = journal.Open(path)
	require.NoError(t, err)
	defer j.Close()
	restored, err := NewMemoryRepository(j)
	require.NoError(t, err)

	a, err := restored.FindByID(ctx, "a")
	require.NoError(t, err)
	b, err := restored.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("75.25").Equal(a.Balance))
	assert.True(t, decimal.RequireFromString("24.75").Equal(b.Balance))
	assert.Equal(t, "Jane", a.FirstName)
}
