package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/postgres"
)

// Dependencies содержит хранилище приложения и outbox поверх него.
type Dependencies struct {
	Store      domain.Store
	OutboxRepo domain.OutboxRepository
	Driver     string
	close      func() error
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d == nil || d.close == nil {
		return nil
	}
	return d.close()
}

// initRuntimeDependencies поднимает хранилище выбранного драйвера.
func initRuntimeDependencies(ctx context.Context, cfg StorageConfig, logger *log.Entry) (*Dependencies, error) {
	switch cfg.Driver {
	case "", StorageDriverMemory:
		store := memory.NewStore()
		logger.WithField("driver", StorageDriverMemory).Info("storage initialized")
		return &Dependencies{
			Store:      store,
			OutboxRepo: store,
			Driver:     StorageDriverMemory,
		}, nil
	case StorageDriverPostgres:
		return initPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func initPostgres(ctx context.Context, cfg StorageConfig, logger *log.Entry) (*Dependencies, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("postgres auto-migrate: %w", err)
		}
	}
	state, err := store.MigrationStatus(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("postgres migration status: %w", err)
	}
	entry := logger.WithFields(log.Fields{
		"version": state.Version,
		"applied": state.Applied,
		"pending": state.Pending(),
	})
	if state.Pending() > 0 {
		entry.Warn("postgres schema is behind embedded migrations, run cmd/migrate")
	} else {
		entry.Info("postgres schema is up to date")
	}

	logger.WithField("driver", StorageDriverPostgres).Info("storage initialized")
	return &Dependencies{
		Store:      store,
		OutboxRepo: postgres.NewOutboxRepository(store),
		Driver:     StorageDriverPostgres,
		close:      store.Close,
	}, nil
}
