package account

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"bankledger/internal/errors"
	"bankledger/internal/models"
	"bankledger/internal/repositories"
	"bankledger/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repo    repositories.AccountRepository
	cache   BalanceCache
	metrics MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new account ledger
func NewService(
	repo repositories.AccountRepository,
	cache BalanceCache,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}

	// Cache, metrics and logger are optional
	if cache == nil {
		cache = NopBalanceCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("ledger"),
	}
}

func (s *service) GetBalance(ctx context.Context, accountNumber string) (balance decimal.Decimal, err error) {
	defer s.observe(OpGetBalance, time.Now(), &err, zap.String("account_number", accountNumber))

	if accountNumber == "" {
		return decimal.Zero, errors.ErrAccountNotFound
	}

	cached, ok, cacheErr := s.cache.Get(ctx, accountNumber)
	switch {
	case cacheErr != nil:
		s.logger.Warn("balance cache lookup failed", zap.String("account_number", accountNumber), zap.Error(cacheErr))
	case ok:
		s.metrics.RecordCacheHit(OpGetBalance)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(OpGetBalance)

	// Fill under the account lock so a concurrent mutation cannot be
	// overwritten by an older read.
	err = s.repo.ExecuteInTransaction(ctx, []string{accountNumber}, func(tx repositories.AccountRepository) error {
		account, err := s.find(ctx, tx, accountNumber, errors.ErrAccountNotFound)
		if err != nil {
			return err
		}
		balance = account.Balance

		if err := s.cache.Set(ctx, accountNumber, balance); err != nil {
			s.logger.Warn("balance cache fill failed", zap.String("account_number", accountNumber), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *service) CreateAccount(ctx context.Context, req *CreateAccountRequest) (account *models.Account, err error) {
	if req == nil {
		defer s.observe(OpCreateAccount, time.Now(), &err)
		return nil, errors.ErrInvalidAccountData
	}
	defer s.observe(OpCreateAccount, time.Now(), &err, zap.String("account_number", req.AccountNumber))

	if err := validation.ValidateNewAccount(req.AccountNumber, req.FirstName, req.LastName, req.Balance); err != nil {
		return nil, err
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	account = &models.Account{
		AccountNumber: req.AccountNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Balance:       balance,
	}

	err = s.repo.ExecuteInTransaction(ctx, []string{account.AccountNumber}, func(tx repositories.AccountRepository) error {
		_, err := tx.FindByID(ctx, account.AccountNumber)
		switch {
		case err == nil:
			return errors.ErrDuplicateAccount
		case !stderrors.Is(err, repositories.ErrAccountNotFound):
			return fmt.Errorf("failed to look up account: %w", err)
		}

		if err := tx.Create(ctx, account); err != nil {
			if stderrors.Is(err, repositories.ErrDuplicateAccount) {
				return errors.ErrDuplicateAccount
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return s.invalidate(ctx, account.AccountNumber)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	defer s.observe(OpDeposit, time.Now(), &err,
		zap.String("account_number", accountNumber), zap.Stringer("amount", amount))

	if err := validation.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if accountNumber == "" {
		return decimal.Zero, errors.ErrAccountNotFound
	}

	err = s.repo.ExecuteInTransaction(ctx, []string{accountNumber}, func(tx repositories.AccountRepository) error {
		account, err := s.find(ctx, tx, accountNumber, errors.ErrAccountNotFound)
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(amount)
		if !models.FitsPrecision(account.Balance) {
			return errors.ErrBalanceLimit
		}
		if err := tx.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		if err := s.invalidate(ctx, accountNumber); err != nil {
			return err
		}

		balance = account.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *service) Transfer(ctx context.Context, sourceAccountNumber, destinationAccountNumber string, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	defer s.observe(OpTransfer, time.Now(), &err,
		zap.String("source_account_number", sourceAccountNumber),
		zap.String("destination_account_number", destinationAccountNumber),
		zap.Stringer("amount", amount))

	if err := validation.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if sourceAccountNumber == destinationAccountNumber {
		return decimal.Zero, errors.ErrSelfTransfer
	}

	ids := []string{sourceAccountNumber, destinationAccountNumber}
	err = s.repo.ExecuteInTransaction(ctx, ids, func(tx repositories.AccountRepository) error {
		source, err := s.find(ctx, tx, sourceAccountNumber, errors.ErrSourceAccountNotFound)
		if err != nil {
			return err
		}
		destination, err := s.find(ctx, tx, destinationAccountNumber, errors.ErrDestinationAccountNotFound)
		if err != nil {
			return err
		}

		if source.Balance.LessThan(amount) {
			return errors.ErrInsufficientFunds
		}

		source.Balance = source.Balance.Sub(amount)
		destination.Balance = destination.Balance.Add(amount)
		if !models.FitsPrecision(destination.Balance) {
			return errors.ErrBalanceLimit
		}
		if err := tx.SaveAll(ctx, []*models.Account{source, destination}); err != nil {
			return fmt.Errorf("failed to save accounts: %w", err)
		}
		if err := s.invalidate(ctx, sourceAccountNumber, destinationAccountNumber); err != nil {
			return err
		}

		balance = source.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// find loads an account inside a unit. An empty number is reported as
// notFound without touching the store.
func (s *service) find(ctx context.Context, tx repositories.AccountRepository, accountNumber string, notFound *errors.DomainError) (*models.Account, error) {
	if accountNumber == "" {
		return nil, notFound
	}
	account, err := tx.FindByID(ctx, accountNumber)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// invalidate drops cached balances inside the unit; a failure aborts it.
func (s *service) invalidate(ctx context.Context, accountNumbers ...string) error {
	if err := s.cache.Invalidate(ctx, accountNumbers...); err != nil {
		return fmt.Errorf("failed to invalidate cached balance: %w", err)
	}
	return nil
}

// observe records duration and outcome of an operation and logs it.
func (s *service) observe(operation string, start time.Time, errp *error, fields ...zap.Field) {
	s.metrics.RecordOperationDuration(operation, time.Since(start))

	err := *errp
	fields = append(fields, zap.String("operation", operation))
	switch {
	case err == nil:
		s.metrics.RecordOperationResult(operation, ResultSuccess)
		if operation == OpGetBalance {
			s.logger.Debug("balance read", fields...)
		} else {
			s.logger.Info("ledger operation applied", fields...)
		}
	case errors.CodeOf(err) != "":
		code := errors.CodeOf(err)
		s.metrics.RecordOperationResult(operation, code)
		s.logger.Debug("ledger operation rejected", append(fields, zap.String("code", code), zap.Error(err))...)
	default:
		s.metrics.RecordOperationResult(operation, ResultError)
		s.logger.Error("ledger operation failed", append(fields, zap.Error(err))...)
	}
}
