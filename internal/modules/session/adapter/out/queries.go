package out

// Queries is the statement table used by SQLiteEventStore. It is built once
// during start-up and handed to the store.
type Queries struct {
	Schema             string
	EnableForeignKeys  string
	InsertSession      string
	GetSession         string
	ListSessions       string
	InsertSessionEvent string
	GetSessionEvent    string
	ListSessionEvents  string
}

func DefaultQueries() Queries {
	return Queries{
		Schema: `
CREATE TABLE IF NOT EXISTS sessions (
  session_id TEXT PRIMARY KEY,
  session_kind TEXT NOT NULL CHECK (session_kind IN ('focus', 'break')),
  planned_secs INTEGER NOT NULL CHECK (planned_secs >= 0),
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS session_events (
  session_event_id TEXT PRIMARY KEY,
  session_event_kind TEXT NOT NULL CHECK (session_event_kind IN ('started', 'resumed', 'paused', 'aborted', 'completed')),
  session_id TEXT NOT NULL REFERENCES sessions(session_id),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id, session_event_id);
`,
		InsertSession: `
INSERT INTO sessions (session_id, session_kind, planned_secs, created_at)
VALUES (?, ?, ?, ?)
RETURNING session_id, session_kind, planned_secs, created_at;
`,
		GetSession: `
SELECT session_id, session_kind, planned_secs, created_at
FROM sessions
WHERE session_id = ?;
`,
		ListSessions: `
SELECT session_id, session_kind, planned_secs, created_at
FROM sessions
ORDER BY session_id DESC
LIMIT ? OFFSET ?;
`,
		InsertSessionEvent: `
INSERT INTO session_events (session_event_id, session_event_kind, session_id, created_at)
VALUES (?, ?, ?, ?)
RETURNING session_event_id, session_event_kind, session_id, created_at;
`,
		GetSessionEvent: `
SELECT session_event_id, session_event_kind, session_id, created_at
FROM session_events
WHERE session_event_id = ?;
`,
		ListSessionEvents: `
SELECT session_event_id, session_event_kind, session_id, created_at
FROM session_events
WHERE (? = '' OR session_id = ?)
ORDER BY session_event_id DESC
LIMIT ? OFFSET ?;
`,
		EnableForeignKeys: `PRAGMA foreign_keys = ON;`,
	}
}
