package out_test

import (
	"context"
	"database/sql"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionadapter "pomodoro/internal/modules/session/adapter/out"
	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/id"
	"pomodoro/internal/platform/tx"
)

var base = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*sessionadapter.SQLiteEventStore, *sql.DB) {
	t.Helper()
	db, err := sessionadapter.OpenSQLiteInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := sessionadapter.NewSQLiteEventStore(context.Background(), db, sessionadapter.DefaultQueries())
	require.NoError(t, err)
	return store, db
}

func seedSession(t *testing.T, store *sessionadapter.SQLiteEventStore, kinds ...domain.EventKind) (domain.Session, []domain.Event) {
	t.Helper()
	ctx := context.Background()
	ids := id.UUIDv7{}
	session, err := store.InsertSession(ctx, domain.Session{
		ID:              ids.New(),
		Kind:            domain.SessionKindFocus,
		PlannedDuration: 25 * time.Minute,
		CreatedAt:       base,
	})
	require.NoError(t, err)
	events := make([]domain.Event, 0, len(kinds))
	for i, kind := range kinds {
		event, err := store.InsertEvent(ctx, domain.Event{
			ID:        ids.New(),
			Kind:      kind,
			SessionID: session.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		events = append(events, event)
	}
	return session, events
}

func TestInsertAndGetSession(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	session, _ := seedSession(t, store)
	assert.Equal(t, domain.SessionKindFocus, session.Kind)
	assert.Equal(t, int64(1500), session.PlannedSecs())
	assert.True(t, session.CreatedAt.Equal(base))

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.PlannedDuration, got.PlannedDuration)

	_, err = store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListEventsNewestFirstAndReversible(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	session, events := seedSession(t, store, domain.EventStarted, domain.EventPaused, domain.EventResumed, domain.EventPaused)
	seedSession(t, store, domain.EventStarted)

	listed, err := store.ListEvents(ctx, sessionout.ListEventsParams{SessionID: session.ID})
	require.NoError(t, err)
	require.Len(t, listed, 4)
	for i := 1; i < len(listed); i++ {
		assert.Greater(t, listed[i-1].ID, listed[i].ID)
	}

	slices.Reverse(listed)
	for i := range events {
		assert.Equal(t, events[i].ID, listed[i].ID)
		assert.Equal(t, events[i].Kind, listed[i].Kind)
	}
	for i := 1; i < len(listed); i++ {
		assert.True(t, listed[i].CreatedAt.After(listed[i-1].CreatedAt))
	}
}

func TestListEventsAcrossSessionsAndPaging(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	seedSession(t, store, domain.EventStarted, domain.EventAborted)
	second, _ := seedSession(t, store, domain.EventStarted)

	latest, err := store.ListEvents(ctx, sessionout.ListEventsParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, second.ID, latest[0].SessionID)
	assert.Equal(t, domain.EventStarted, latest[0].Kind)

	page, err := store.ListEvents(ctx, sessionout.ListEventsParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.EventAborted, page[0].Kind)

	all, err := store.ListEvents(ctx, sessionout.ListEventsParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := store.GetEvent(ctx, latest[0].ID)
	require.NoError(t, err)
	assert.Equal(t, latest[0].ID, got.ID)
}

func TestListSessionsNewestFirst(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first, _ := seedSession(t, store)
	second, _ := seedSession(t, store)
	third, _ := seedSession(t, store)

	sessions, err := store.ListSessions(ctx, sessionout.ListSessionsParams{})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})

	page, err := store.ListSessions(ctx, sessionout.ListSessionsParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
}

func TestEventForUnknownSessionIsRejected(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.InsertEvent(context.Background(), domain.Event{
		ID:        "evt",
		Kind:      domain.EventStarted,
		SessionID: "nope",
		CreatedAt: base,
	})
	assert.Error(t, err)
}

func TestUnknownStoredVariantFailsLoudly(t *testing.T) {
	store, db := newStore(t)
	session, _ := seedSession(t, store)
	// Bypass the CHECK constraint to simulate a row written by a newer version.
	_, err := db.Exec(`PRAGMA ignore_check_constraints = ON`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO session_events (session_event_id, session_event_kind, session_id, created_at) VALUES ('zzz', 'snoozed', ?, ?)`, session.ID, base.Format(time.RFC3339Nano))
	require.NoError(t, err)

	_, err = store.ListEvents(context.Background(), sessionout.ListEventsParams{SessionID: session.ID})
	assert.ErrorIs(t, err, apperrors.ErrUnknownVariant)
}

func TestWritesInsideFailedUnitAreRolledBack(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()
	manager := tx.NewSQLManager(db)

	err := manager.Within(ctx, func(ctx context.Context) error {
		_, err := store.InsertSession(ctx, domain.Session{ID: "sess", Kind: domain.SessionKindBreak, CreatedAt: base})
		require.NoError(t, err)
		_, err = store.InsertEvent(ctx, domain.Event{ID: "evt", Kind: domain.EventStarted, SessionID: "missing", CreatedAt: base})
		return err
	})
	require.Error(t, err)

	sessions, err := store.ListSessions(ctx, sessionout.ListSessionsParams{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
