package dto

import "time"

type StartInput struct {
	Kind string
	// Duration overrides the configured default for Kind when set.
	Duration *time.Duration
}

type StopInput struct {
	Reset bool
}

// CommandOutput describes what a start or stop command did.
type CommandOutput struct {
	Message string
	// Changed is false when the command was a no-op.
	Changed     bool
	SessionID   string
	SessionKind string
	EventID     string
	EventKind   string
}

// StatusOutput is the render model of the status command.
type StatusOutput struct {
	Kind          string `json:"kind" yaml:"kind"`
	State         string `json:"state" yaml:"state"`
	PlannedSecs   int64  `json:"planned_secs" yaml:"planned_secs"`
	ElapsedSecs   int64  `json:"elapsed_secs" yaml:"elapsed_secs"`
	RemainingSecs int64  `json:"remaining_secs" yaml:"remaining_secs"`
}

type HistoryInput struct {
	Limit  int
	Offset int
}

type HistoryItem struct {
	SessionID   string    `json:"session_id"`
	Kind        string    `json:"kind"`
	State       string    `json:"state"`
	PlannedSecs int64     `json:"planned_secs"`
	ElapsedSecs int64     `json:"elapsed_secs"`
	CreatedAt   time.Time `json:"created_at"`
}
