package resolve_deposit

import (
	"context"

	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

type DepositService interface {
	Resolve(ctx context.Context, req *models.ResolveDepositRequest) (*models.DepositStateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
