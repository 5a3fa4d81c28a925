package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
)

// Reconciler выполняет один проход сверки арендного состояния.
type Reconciler interface {
	Reconcile(ctx context.Context) (models.ReconcileResult, error)
}

// NewCron собирает планировщик с одной задачей сверки по расписанию schedule.
// Следующий запуск пропускается, пока предыдущий не завершился.
func NewCron(ctx context.Context, job Reconciler, schedule string, timeout time.Duration, log *slog.Logger) (*cron.Cron, error) {
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, func() { runOnce(ctx, job, timeout, log) }); err != nil {
		return nil, err
	}
	return c, nil
}

func runOnce(ctx context.Context, job Reconciler, timeout time.Duration, log *slog.Logger) {
	const op = "reconciler.runOnce"
	log = log.With(slog.String("op", op))

	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := job.Reconcile(runCtx)
	if err != nil {
		log.Error("reconcile pass failed", sl.Err(err))
		return
	}
	log.Info("reconcile pass finished", slog.Int("repaired", result.Total()))
}

// cronLogger перенаправляет журнал cron в slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append([]any{sl.Err(err)}, keysAndValues...)...)
}
