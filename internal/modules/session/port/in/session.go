package in

import (
	"context"

	"pomodoro/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.CommandOutput, error)
	Stop(ctx context.Context, input dto.StopInput) (dto.CommandOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.HistoryItem, error)
}
