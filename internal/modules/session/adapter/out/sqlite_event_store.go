package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// OpenSQLite opens the state database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return openSQLite(dbPath)
}

// OpenSQLiteInMemory opens an ephemeral database that lives as long as the
// returned handle.
func OpenSQLiteInMemory() (*sql.DB, error) {
	return openSQLite(":memory:")
}

func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

type SQLiteEventStore struct {
	db      *sql.DB
	queries Queries
}

func NewSQLiteEventStore(ctx context.Context, db *sql.DB, queries Queries) (*SQLiteEventStore, error) {
	store := &SQLiteEventStore{db: db, queries: queries}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

var _ sessionout.EventStore = (*SQLiteEventStore)(nil)

func (s *SQLiteEventStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.queries.EnableForeignKeys); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.queries.Schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteEventStore) exec(ctx context.Context) tx.Queryer {
	return tx.Executor(ctx, s.db)
}

func (s *SQLiteEventStore) InsertSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	kind, err := session.Kind.MarshalText()
	if err != nil {
		return domain.Session{}, fmt.Errorf("insert session: %w", err)
	}
	row := s.exec(ctx).QueryRowContext(ctx, s.queries.InsertSession,
		session.ID,
		string(kind),
		session.PlannedSecs(),
		session.CreatedAt.UTC().Format(timeLayout),
	)
	stored, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return stored, nil
}

func (s *SQLiteEventStore) GetSession(ctx context.Context, id string) (domain.Session, error) {
	session, err := scanSession(s.exec(ctx).QueryRowContext(ctx, s.queries.GetSession, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("get session %s: %w", id, apperrors.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return session, nil
}

func (s *SQLiteEventStore) ListSessions(ctx context.Context, params sessionout.ListSessionsParams) ([]domain.Session, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, s.queries.ListSessions, limit(params.Limit), offset(params.Offset))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteEventStore) InsertEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	kind, err := event.Kind.MarshalText()
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert session event: %w", err)
	}
	row := s.exec(ctx).QueryRowContext(ctx, s.queries.InsertSessionEvent,
		event.ID,
		string(kind),
		event.SessionID,
		event.CreatedAt.UTC().Format(timeLayout),
	)
	stored, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert session event: %w", err)
	}
	return stored, nil
}

func (s *SQLiteEventStore) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := scanEvent(s.exec(ctx).QueryRowContext(ctx, s.queries.GetSessionEvent, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, fmt.Errorf("get session event %s: %w", id, apperrors.ErrNotFound)
		}
		return domain.Event{}, fmt.Errorf("get session event %s: %w", id, err)
	}
	return event, nil
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, params sessionout.ListEventsParams) ([]domain.Event, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, s.queries.ListSessionEvents,
		params.SessionID,
		params.SessionID,
		limit(params.Limit),
		offset(params.Offset),
	)
	if err != nil {
		return nil, fmt.Errorf("list session events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var (
		id, kind, createdAt string
		plannedSecs         int64
	)
	if err := row.Scan(&id, &kind, &plannedSecs, &createdAt); err != nil {
		return domain.Session{}, err
	}
	parsedKind, err := domain.ParseSessionKind(kind)
	if err != nil {
		return domain.Session{}, err
	}
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse created_at: %w", err)
	}
	return domain.Session{
		ID:              id,
		Kind:            parsedKind,
		PlannedDuration: time.Duration(plannedSecs) * time.Second,
		CreatedAt:       created.UTC(),
	}, nil
}

func scanEvent(row scanner) (domain.Event, error) {
	var id, kind, sessionID, createdAt string
	if err := row.Scan(&id, &kind, &sessionID, &createdAt); err != nil {
		return domain.Event{}, err
	}
	parsedKind, err := domain.ParseEventKind(kind)
	if err != nil {
		return domain.Event{}, err
	}
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse created_at: %w", err)
	}
	return domain.Event{ID: id, Kind: parsedKind, SessionID: sessionID, CreatedAt: created.UTC()}, nil
}

// limit maps "no limit" to SQLite's LIMIT -1.
func limit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

func offset(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
