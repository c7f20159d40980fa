package get_available_now

import (
	"context"

	getAvailableNow "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_available_now"
)

type GetAvailableNowUseCase interface {
	Execute(ctx context.Context, req *getAvailableNow.Request) (*getAvailableNow.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
