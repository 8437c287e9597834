package reconciler

import (
	"context"
	"time"

	reconcile "github.com/dkomnin/SBS-BookingService/internal/usecase/reconcile_deadlines"
)

// ReconcileUseCase интерфейс use case сверки дедлайнов
type ReconcileUseCase interface {
	Execute(ctx context.Context) (*reconcile.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически запускает сверку платёжных дедлайнов
type Worker struct {
	useCase  ReconcileUseCase
	interval time.Duration
	logger   Logger
}

// NewWorker создает новый экземпляр воркера
func NewWorker(useCase ReconcileUseCase, interval time.Duration, logger Logger) *Worker {
	return &Worker{
		useCase:  useCase,
		interval: interval,
		logger:   logger,
	}
}

// Run запускает цикл сверки до отмены контекста
// Первый проход выполняется сразу: пропущенные за простой сервиса дедлайны
// должны быть обработаны без ожидания тикера
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Reconciler worker started, interval=%s", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reconciler worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	result, err := w.useCase.Execute(ctx)
	if err != nil {
		w.logger.Error("Reconciler run failed: %v", err)
		return
	}

	if result.Expired > 0 || result.Warned > 0 {
		w.logger.Info("Reconciler run done: expired=%d, warned=%d", result.Expired, result.Warned)
	}
}
