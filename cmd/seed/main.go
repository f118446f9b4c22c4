// Command seed creates accounts listed in SEED_ACCOUNTS through the ledger.
//
//	SEED_ACCOUNTS="1001:Jane:Doe:250.00,1002:John:Roe"
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"strings"

	"bankledger/internal/config"
	"bankledger/internal/errors"
	"bankledger/internal/logging"
	"bankledger/internal/repositories"
	"bankledger/internal/services/account"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	requests, err := parseSeedAccounts(os.Getenv("SEED_ACCOUNTS"))
	if err != nil {
		logger.Fatal("invalid SEED_ACCOUNTS", zap.Error(err))
	}
	if len(requests) == 0 {
		logger.Fatal("SEED_ACCOUNTS must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore, err := repositories.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	created, skipped, err := seed(ctx, account.NewService(repo, nil, nil, logger), requests, logger)
	if err != nil {
		logger.Error("seeding stopped", zap.Error(err))
		return
	}
	logger.Info("seeding finished", zap.Int("created", created), zap.Int("skipped", skipped))
}

// seed creates every account, skipping numbers that already exist.
func seed(ctx context.Context, svc account.Service, requests []*account.CreateAccountRequest, logger *zap.Logger) (created, skipped int, err error) {
	for _, req := range requests {
		if _, err := svc.CreateAccount(ctx, req); err != nil {
			if stderrors.Is(err, errors.ErrDuplicateAccount) {
				logger.Info("account already exists", zap.String("account_number", req.AccountNumber))
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("account %s: %w", req.AccountNumber, err)
		}
		created++
	}
	return created, skipped, nil
}

// parseSeedAccounts reads comma separated number:first:last[:balance] entries.
func parseSeedAccounts(raw string) ([]*account.CreateAccountRequest, error) {
	var requests []*account.CreateAccountRequest
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 && len(parts) != 4 {
			return nil, fmt.Errorf("entry %q: want number:first:last[:balance]", entry)
		}

		req := &account.CreateAccountRequest{
			AccountNumber: parts[0],
			FirstName:     parts[1],
			LastName:      parts[2],
		}
		if len(parts) == 4 {
			balance, err := decimal.NewFromString(parts[3])
			if err != nil {
				return nil, fmt.Errorf("entry %q: invalid balance: %w", entry, err)
			}
			req.Balance = &balance
		}
		requests = append(requests, req)
	}
	return requests, nil
}
