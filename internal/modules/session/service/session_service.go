package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	"pomodoro/internal/platform/clock"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/id"
)

// Defaults holds the planned durations used when start gets no duration.
type Defaults struct {
	Focus time.Duration
	Break time.Duration
}

func (d Defaults) For(kind domain.SessionKind) time.Duration {
	if kind == domain.SessionKindBreak {
		return d.Break
	}
	return d.Focus
}

// Head is the most recent event across all sessions together with the
// session it belongs to. Both are nil when nothing was recorded yet.
type Head struct {
	Event   *domain.Event
	Session *domain.Session
}

type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	store    sessionout.EventStore
	defaults Defaults
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.EventStore, defaults Defaults) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store, defaults: defaults}
}

// NewSession builds an unsaved session of the requested kind. A nil duration
// falls back to the configured default for that kind.
func (s *SessionService) NewSession(rawKind string, duration *time.Duration) (domain.Session, error) {
	if rawKind == "" {
		rawKind = string(domain.SessionKindFocus)
	}
	kind, err := domain.ParseSessionKind(rawKind)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	planned := s.defaults.For(kind)
	if duration != nil {
		planned = *duration
	}
	if planned < 0 {
		return domain.Session{}, fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	return domain.Session{
		ID:              s.idGen.New(),
		Kind:            kind,
		PlannedDuration: planned.Truncate(time.Second),
		CreatedAt:       s.clock.Now(),
	}, nil
}

func (s *SessionService) CreateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	return s.store.InsertSession(ctx, session)
}

// Record appends an event of kind to session after checking it may follow
// prev, the kind of the session's current last event.
func (s *SessionService) Record(ctx context.Context, session domain.Session, prev *domain.EventKind, kind domain.EventKind) (domain.Event, error) {
	if err := domain.CanAppend(prev, kind); err != nil {
		return domain.Event{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	return s.store.InsertEvent(ctx, domain.Event{
		ID:        s.idGen.New(),
		Kind:      kind,
		SessionID: session.ID,
		CreatedAt: s.clock.Now(),
	})
}

// Head loads the global latest event and its session. It fails with
// ErrInconsistentState when that event does not belong to the latest
// session, since only the latest session may ever be live.
func (s *SessionService) Head(ctx context.Context) (Head, error) {
	events, err := s.store.ListEvents(ctx, sessionout.ListEventsParams{Limit: 1})
	if err != nil {
		return Head{}, err
	}
	latestSession, err := s.LatestSession(ctx)
	if err != nil {
		return Head{}, err
	}
	if len(events) == 0 {
		if latestSession != nil {
			return Head{}, fmt.Errorf("%w: session %s has no events", apperrors.ErrInconsistentState, latestSession.ID)
		}
		return Head{}, nil
	}
	event := events[0]
	session, err := s.store.GetSession(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Head{}, fmt.Errorf("session %s referenced by event %s: %w", event.SessionID, event.ID, err)
		}
		return Head{}, err
	}
	if latestSession == nil || latestSession.ID != session.ID {
		return Head{}, fmt.Errorf("%w: latest event %s belongs to session %s, not the latest session", apperrors.ErrInconsistentState, event.ID, session.ID)
	}
	return Head{Event: &event, Session: &session}, nil
}

func (s *SessionService) LatestSession(ctx context.Context) (*domain.Session, error) {
	sessions, err := s.store.ListSessions(ctx, sessionout.ListSessionsParams{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (s *SessionService) Sessions(ctx context.Context, limit, offset int) ([]domain.Session, error) {
	return s.store.ListSessions(ctx, sessionout.ListSessionsParams{Limit: limit, Offset: offset})
}

// Timeline returns every event of one session, oldest first.
func (s *SessionService) Timeline(ctx context.Context, sessionID string) ([]domain.Event, error) {
	events, err := s.store.ListEvents(ctx, sessionout.ListEventsParams{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	slices.Reverse(events)
	return events, nil
}

// Evaluate replays a session at the current time.
func (s *SessionService) Evaluate(ctx context.Context, session domain.Session) (domain.Status, []domain.Event, error) {
	events, err := s.Timeline(ctx, session.ID)
	if err != nil {
		return domain.Status{}, nil, err
	}
	replay := domain.ReplayEvents(events, s.clock.Now())
	return domain.AssembleStatus(session, replay), events, nil
}
