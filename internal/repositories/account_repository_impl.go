package repositories

import (
	"context"
	"errors"
	"fmt"

	"bankledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns the SQL account store. The db must be opened
// with TranslateError so key collisions surface as gorm.ErrDuplicatedKey.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) FindByID(ctx context.Context, accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) Save(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Save(account)
	if result.Error != nil {
		return fmt.Errorf("failed to save account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) SaveAll(ctx context.Context, accounts []*models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range accounts {
			if err := tx.Save(account).Error; err != nil {
				return fmt.Errorf("failed to save account %s: %w", account.AccountNumber, err)
			}
		}
		return nil
	})
}

// ExecuteInTransaction takes SELECT ... FOR UPDATE row locks on the listed
// accounts in LockOrder before running fn. Rows that do not exist yet are
// not locked; concurrent inserts of the same key are settled by the
// primary key.
func (r *accountRepository) ExecuteInTransaction(ctx context.Context, accountNumbers []string, fn func(AccountRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := LockOrder(accountNumbers)
		if len(ids) > 0 {
			var locked []models.Account
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("account_number IN ?", ids).
				Order("account_number").
				Find(&locked).Error
			if err != nil {
				return fmt.Errorf("failed to lock accounts: %w", err)
			}
		}

		txRepo := &accountRepository{db: tx}
		return fn(txRepo)
	})
}

func (r *accountRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
