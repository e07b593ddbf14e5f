package out

import (
	"context"

	"pomodoro/internal/modules/session/domain"
)

// ListSessionsParams pages through sessions newest first. Limit <= 0 means
// no limit.
type ListSessionsParams struct {
	Limit  int
	Offset int
}

// ListEventsParams pages through events newest first, optionally restricted
// to one session. Limit <= 0 means no limit.
type ListEventsParams struct {
	SessionID string
	Limit     int
	Offset    int
}

// EventStore is append-only. Lists are ordered by identifier descending,
// which matches creation order descending.
type EventStore interface {
	InsertSession(ctx context.Context, session domain.Session) (domain.Session, error)
	GetSession(ctx context.Context, id string) (domain.Session, error)
	ListSessions(ctx context.Context, params ListSessionsParams) ([]domain.Session, error)
	InsertEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context, params ListEventsParams) ([]domain.Event, error)
}

// HookDispatcher forwards a recorded event to user hooks. Implementations
// must not block on the hook; callers discard the returned error.
type HookDispatcher interface {
	Dispatch(ctx context.Context, session domain.Session, event domain.Event) error
}
