package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/bms-server/internal/cache"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bms-server/internal/migrations"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
	"github.com/magabrotheeeer/bms-server/internal/services/user"
	"github.com/magabrotheeeer/bms-server/internal/storage/repository"
)

type storageBackend struct {
	cfg        *config.Config
	db         *repository.Storage
	cache      *cache.Cache
	users      *user.Service
	agreements *agreement.Service
}

// StorageOpener возвращает Opener, работающий с базой и кешем из cfg.
func StorageOpener(cfg *config.Config, log *slog.Logger) Opener {
	return func(ctx context.Context) (Backend, error) {
		db, err := repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to connect storage: %w", err)
		}
		b := &storageBackend{cfg: cfg, db: db}

		var agreementCache agreement.Cache
		if cfg.AddressRedis != "" {
			c, err := cache.InitServer(ctx, cfg.RedisConnection)
			if err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("cache not initialized: %w", err)
			}
			b.cache = c
			agreementCache = c
		}

		b.users = user.New(db, log)
		b.agreements = agreement.New(db, agreementCache, rabbitmq.NopPublisher{}, log)
		return b, nil
	}
}

func (b *storageBackend) Migrate() (uint, error) {
	if err := migrations.Run(b.db.DB, b.cfg.MigrationsPath); err != nil {
		return 0, err
	}
	version, _, err := migrations.Version(b.db.DB, b.cfg.MigrationsPath)
	return version, err
}

func (b *storageBackend) Promote(ctx context.Context, email string) error {
	return b.users.PromoteToAdmin(ctx, email)
}

func (b *storageBackend) Reconcile(ctx context.Context) (models.ReconcileResult, error) {
	return b.agreements.Reconcile(ctx)
}

func (b *storageBackend) Close() error {
	if b.cache != nil {
		_ = b.cache.Close()
	}
	return b.db.Close()
}
