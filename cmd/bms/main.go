// Package main BMS Server API
//
// @title           BMS Server API
// @version         1.0
// @description     API системы управления зданием: квартиры, договоры аренды, купоны, объявления и платежи
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description JWT, выданный POST /jwt.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/bms-server/internal/app/bms"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/logger"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
)

func main() {
	// .env необязателен, переменные окружения могут быть заданы снаружи
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)

	log.Info("starting bms-server", slog.String("env", cfg.Env))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bms.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("bms-server stopped gracefully")
}
