// Package reconciler содержит приложение фоновой сверки арендного состояния.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/bms-server/internal/cache"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
	"github.com/magabrotheeeer/bms-server/internal/storage/repository"
)

const passTimeout = 5 * time.Minute

// App представляет приложение сверки.
type App struct {
	cron   *cron.Cron
	db     *repository.Storage
	cache  *cache.Cache
	logger *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(ctx, db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения сверки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{db: db, logger: logger}

	var agreementCache agreement.Cache
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
		app.cache = redisCache
		agreementCache = redisCache
	}

	service := agreement.New(db, agreementCache, rabbitmq.NopPublisher{}, logger)

	c, err := NewCron(ctx, service, cfg.ReconcileSchedule, passTimeout, logger)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", cfg.ReconcileSchedule, err)
	}
	app.cron = c

	return app, nil
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.cron.Start()
	a.logger.Info("reconciler started")

	<-ctx.Done()

	a.logger.Info("shutting down reconciler")
	<-a.cron.Stop().Done()
	a.closeResources()

	return nil
}

func (a *App) closeResources() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
