package in

import (
	"context"
	"time"

	sessiondto "pomodoro/internal/modules/session/dto"
	sessionin "pomodoro/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Start opens or resumes a session. duration is nil when the flag was not
// given, so the configured default applies.
func (h CLIHandler) Start(ctx context.Context, kind string, duration *time.Duration) (sessiondto.CommandOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Kind: kind, Duration: duration})
}

func (h CLIHandler) Stop(ctx context.Context, reset bool) (sessiondto.CommandOutput, error) {
	return h.usecase.Stop(ctx, sessiondto.StopInput{Reset: reset})
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit, offset int) ([]sessiondto.HistoryItem, error) {
	return h.usecase.History(ctx, sessiondto.HistoryInput{Limit: limit, Offset: offset})
}
