package domain

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "pomodoro/internal/platform/errors"
)

// SessionKind is the type of a session. The string form is the stored value.
type SessionKind string

const (
	SessionKindFocus SessionKind = "focus"
	SessionKindBreak SessionKind = "break"
)

func ParseSessionKind(raw string) (SessionKind, error) {
	switch SessionKind(raw) {
	case SessionKindFocus, SessionKindBreak:
		return SessionKind(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown session kind: %s", apperrors.ErrUnknownVariant, raw)
	}
}

func (k SessionKind) String() string { return string(k) }

func (k SessionKind) MarshalText() ([]byte, error) {
	if _, err := ParseSessionKind(string(k)); err != nil {
		return nil, err
	}
	return []byte(k), nil
}

func (k *SessionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSessionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// EventKind is one transition in the session lifecycle.
type EventKind string

const (
	// EventStarted is always the first event of a session.
	EventStarted EventKind = "started"
	// EventResumed is only valid while the session is paused.
	EventResumed EventKind = "resumed"
	// EventPaused is only valid while the session is running.
	EventPaused EventKind = "paused"
	// EventAborted is terminal. Written when the user resets a live session.
	EventAborted EventKind = "aborted"
	// EventCompleted is terminal. Written when the planned time runs out.
	EventCompleted EventKind = "completed"
)

func ParseEventKind(raw string) (EventKind, error) {
	switch EventKind(raw) {
	case EventStarted, EventResumed, EventPaused, EventAborted, EventCompleted:
		return EventKind(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown session event kind: %s", apperrors.ErrUnknownVariant, raw)
	}
}

func (k EventKind) String() string { return string(k) }

// Opens reports whether the event starts a running segment.
func (k EventKind) Opens() bool {
	return k == EventStarted || k == EventResumed
}

func (k EventKind) Terminal() bool {
	return k == EventAborted || k == EventCompleted
}

func (k EventKind) MarshalText() ([]byte, error) {
	if _, err := ParseEventKind(string(k)); err != nil {
		return nil, err
	}
	return []byte(k), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Session is one planned focus or break interval. It is never mutated after
// it is stored.
type Session struct {
	ID              string
	Kind            SessionKind
	PlannedDuration time.Duration
	CreatedAt       time.Time
}

func (s Session) PlannedSecs() int64 {
	return int64(s.PlannedDuration / time.Second)
}

type sessionJSON struct {
	ID          string      `json:"id"`
	Kind        SessionKind `json:"kind"`
	PlannedSecs int64       `json:"planned_secs"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{ID: s.ID, Kind: s.Kind, PlannedSecs: s.PlannedSecs(), CreatedAt: s.CreatedAt})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	raw := sessionJSON{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session{
		ID:              raw.ID,
		Kind:            raw.Kind,
		PlannedDuration: time.Duration(raw.PlannedSecs) * time.Second,
		CreatedAt:       raw.CreatedAt,
	}
	return nil
}

// Event is one immutable lifecycle transition recorded against a session.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}
