package repository

import (
	"context"
	"fmt"
	"log/slog"

	"govdoc/internal/config"
	"govdoc/internal/domain/repositories"
	"govdoc/internal/repository/postgres"
	"govdoc/internal/repository/sqlite"
)

// Store bundles the document repository with its transaction manager
type Store struct {
	Documents repositories.DocumentRepository
	TxManager repositories.TransactionManager
	closeFn   func()
}

// Close releases the underlying connection pool
func (s *Store) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open connects the driver selected by cfg.DBDriver and ensures the schema exists
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	var store *Store

	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		store = &Store{
			Documents: postgres.NewDocumentRepository(repoConfig),
			TxManager: postgres.NewTransactionManager(pool, logger),
			closeFn:   pool.Close,
		}

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repoConfig := &sqlite.RepositoryConfig{
			DB:     db,
			Tables: sqlite.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		store = &Store{
			Documents: sqlite.NewDocumentRepository(repoConfig),
			TxManager: sqlite.NewTransactionManager(db, logger),
			closeFn:   func() { db.Close() },
		}

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	if err := store.Documents.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.Info("database connected",
		"driver", cfg.DBDriver,
		"table_prefix", cfg.TablePrefix,
	)
	return store, nil
}
