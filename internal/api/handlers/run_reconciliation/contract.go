package run_reconciliation

import (
	"context"

	reconcile "github.com/dkomnin/SBS-BookingService/internal/usecase/reconcile_deadlines"
)

type ReconcileUseCase interface {
	Execute(ctx context.Context) (*reconcile.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
