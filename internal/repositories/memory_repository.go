package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/repositories/journal"
)

// journalEntry is one committed unit: the final state of every account it wrote.
type journalEntry struct {
	Accounts []*models.Account `json:"accounts"`
}

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	locks    *accountLocks
	journal  *journal.Journal
	now      func() time.Time
}

// NewMemoryRepository returns an in-process account store. When j is not
// nil the store is rebuilt from it and every commit is appended to it.
func NewMemoryRepository(j *journal.Journal) (AccountRepository, error) {
	r := &memoryRepository{
		accounts: make(map[string]*models.Account),
		locks:    newAccountLocks(),
		journal:  j,
		now:      time.Now,
	}
	if j == nil {
		return r, nil
	}

	err := j.Replay(func(raw json.RawMessage) error {
		var entry journalEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("failed to decode journal entry: %w", err)
		}
		for _, account := range entry.Accounts {
			r.accounts[account.AccountNumber] = account
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}
	return r, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, accountNumber string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[accountNumber]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (r *memoryRepository) Create(ctx context.Context, account *models.Account) error {
	return r.ExecuteInTransaction(ctx, []string{account.AccountNumber}, func(tx AccountRepository) error {
		return tx.Create(ctx, account)
	})
}

func (r *memoryRepository) Save(ctx context.Context, account *models.Account) error {
	return r.ExecuteInTransaction(ctx, []string{account.AccountNumber}, func(tx AccountRepository) error {
		return tx.Save(ctx, account)
	})
}

func (r *memoryRepository) SaveAll(ctx context.Context, accounts []*models.Account) error {
	return r.ExecuteInTransaction(ctx, accountNumbers(accounts), func(tx AccountRepository) error {
		return tx.SaveAll(ctx, accounts)
	})
}

func (r *memoryRepository) ExecuteInTransaction(ctx context.Context, ids []string, fn func(AccountRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	release := r.locks.acquire(ids)
	defer release()

	tx := &memoryTx{
		repo:   r,
		locked: make(map[string]struct{}, len(ids)),
		staged: make(map[string]*models.Account),
	}
	for _, id := range ids {
		tx.locked[id] = struct{}{}
	}

	if err := fn(tx); err != nil {
		return err
	}
	return r.commit(tx)
}

// commit journals the staged writes, then publishes them under one lock.
func (r *memoryRepository) commit(tx *memoryTx) error {
	if len(tx.order) == 0 {
		return nil
	}

	entry := journalEntry{Accounts: make([]*models.Account, 0, len(tx.order))}
	for _, id := range tx.order {
		entry.Accounts = append(entry.Accounts, tx.staged[id])
	}
	if r.journal != nil {
		if err := r.journal.Append(entry); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range entry.Accounts {
		r.accounts[account.AccountNumber] = account
	}
	return nil
}

func (r *memoryRepository) Ping(ctx context.Context) error {
	return nil
}

// memoryTx is the repository handed to ExecuteInTransaction callbacks.
// Writes are staged and only become visible when the unit commits.
type memoryTx struct {
	repo   *memoryRepository
	locked map[string]struct{}
	staged map[string]*models.Account
	order  []string
}

func (tx *memoryTx) FindByID(ctx context.Context, accountNumber string) (*models.Account, error) {
	if account, ok := tx.staged[accountNumber]; ok {
		return account.Clone(), nil
	}
	return tx.repo.FindByID(ctx, accountNumber)
}

func (tx *memoryTx) Create(ctx context.Context, account *models.Account) error {
	if err := tx.checkLocked(account.AccountNumber); err != nil {
		return err
	}
	if _, err := tx.FindByID(ctx, account.AccountNumber); err == nil {
		return ErrDuplicateAccount
	}

	now := tx.repo.now()
	account.CreatedAt = now
	account.UpdatedAt = now
	return tx.stage(account)
}

func (tx *memoryTx) Save(ctx context.Context, account *models.Account) error {
	if err := tx.checkLocked(account.AccountNumber); err != nil {
		return err
	}

	now := tx.repo.now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	return tx.stage(account)
}

func (tx *memoryTx) SaveAll(ctx context.Context, accounts []*models.Account) error {
	for _, account := range accounts {
		if err := tx.checkLocked(account.AccountNumber); err != nil {
			return err
		}
		if account.Balance.IsNegative() {
			return models.ErrNegativeBalance
		}
		if !models.FitsPrecision(account.Balance) {
			return models.ErrBalanceOutOfRange
		}
	}
	for _, account := range accounts {
		if err := tx.Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func (tx *memoryTx) ExecuteInTransaction(ctx context.Context, ids []string, fn func(AccountRepository) error) error {
	for _, id := range ids {
		if err := tx.checkLocked(id); err != nil {
			return err
		}
	}
	return fn(tx)
}

func (tx *memoryTx) Ping(ctx context.Context) error {
	return tx.repo.Ping(ctx)
}

func (tx *memoryTx) checkLocked(accountNumber string) error {
	if _, ok := tx.locked[accountNumber]; !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotLocked, accountNumber)
	}
	return nil
}

func (tx *memoryTx) stage(account *models.Account) error {
	if account.Balance.IsNegative() {
		return models.ErrNegativeBalance
	}
	if !models.FitsPrecision(account.Balance) {
		return models.ErrBalanceOutOfRange
	}
	if _, ok := tx.staged[account.AccountNumber]; !ok {
		tx.order = append(tx.order, account.AccountNumber)
	}
	tx.staged[account.AccountNumber] = account.Clone()
	return nil
}

func accountNumbers(accounts []*models.Account) []string {
	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.AccountNumber)
	}
	return ids
}
