package submit_deposit

import (
	"context"

	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

type DepositService interface {
	Submit(ctx context.Context, req *models.SubmitDepositRequest) (*models.DepositStateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
