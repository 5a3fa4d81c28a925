// Package logger настраивает slog для бинарников сервиса.
package logger

import (
	"io"
	"log/slog"

	"github.com/magabrotheeeer/bms-server/internal/config"
)

// New возвращает текстовый slog.Logger: debug в local и dev, info в prod.
func New(env string, w io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == config.EnvProd {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
