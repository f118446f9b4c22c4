package repositories

import (
	"context"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/repositories/journal"

	"go.uber.org/zap"
)

const poolStatsInterval = time.Minute

// OpenStore builds the account store selected by cfg.StoreDriver. The
// returned func releases it. SQL stores log pool stats until ctx is done.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AccountRepository, func() error, error) {
	if cfg.StoreDriver != config.StoreMemory {
		db, err := OpenDB(cfg.StoreDriver, cfg.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		go MonitorDBPool(ctx, db, logger, poolStatsInterval)
		return NewAccountRepository(db), func() error { return CloseDB(db) }, nil
	}

	if cfg.JournalPath == "" {
		logger.Warn("JOURNAL_PATH is empty, balances will not survive a restart")
		repo, err := NewMemoryRepository(nil)
		return repo, func() error { return nil }, err
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, nil, err
	}
	repo, err := NewMemoryRepository(j)
	if err != nil {
		_ = j.Close()
		return nil, nil, err
	}
	logger.Info("memory store ready", zap.String("journal", cfg.JournalPath))
	return repo, j.Close, nil
}
