// Package bms собирает HTTP-сервер системы управления зданием.
package bms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/bms-server/internal/cache"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/cookie"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/bms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/migrations"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
	"github.com/magabrotheeeer/bms-server/internal/services/announcement"
	"github.com/magabrotheeeer/bms-server/internal/services/apartment"
	"github.com/magabrotheeeer/bms-server/internal/services/coupon"
	"github.com/magabrotheeeer/bms-server/internal/services/payment"
	"github.com/magabrotheeeer/bms-server/internal/services/user"
	"github.com/magabrotheeeer/bms-server/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type eventPublisher interface {
	Publish(routingKey string, message any) error
	Close() error
}

// App представляет HTTP-приложение.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher eventPublisher
}

// New создает новый экземпляр приложения: подключает хранилище, применяет миграции,
// поднимает кеш и брокер (если настроены) и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	logger.Info("storage connected")

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("migrations applied", slog.String("path", cfg.MigrationsPath))

	app := &App{
		logger:    logger,
		db:        db,
		publisher: rabbitmq.NopPublisher{},
	}

	var (
		apartmentCache apartment.Cache
		agreementCache agreement.Cache
	)
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
		app.cache = redisCache
		apartmentCache = redisCache
		agreementCache = redisCache
		logger.Info("cache connected", slog.String("addr", cfg.AddressRedis))
	} else {
		logger.Warn("redis address is empty, apartment cache disabled")
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		app.publisher = publisher
		logger.Info("event publisher connected", slog.String("exchange", cfg.RabbitMQExchange))
	}

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	deps := Deps{
		Logger:         logger,
		Tokens:         tokens,
		Cookies:        cookie.Options{Production: cfg.IsProduction()},
		AllowedOrigins: cfg.AllowedOrigins,
		Users:          db,
		DB:             db,

		UserService: user.New(db, logger),
		ApartmentService: apartment.New(db, apartmentCache, logger, apartment.Options{
			CacheTTL:        cfg.CacheTTL,
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		}),
		AgreementService:    agreement.New(db, agreementCache, app.publisher, logger),
		CouponService:       coupon.New(db, logger),
		AnnouncementService: announcement.New(db, logger),
		PaymentService:      payment.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting http server", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down http server")
	case err, ok := <-errCh:
		if ok && err != nil {
			a.closeResources()
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to shutdown http server", sl.Err(err))
	}
	a.closeResources()

	a.logger.Info("http server stopped")
	return nil
}

func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
}
