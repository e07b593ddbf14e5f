package domain

import "time"

// State is the lifecycle state derived from a session's last event.
type State string

const (
	StateNone      State = "none"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateAborted   State = "aborted"
	StateCompleted State = "completed"
)

func StateOf(kind EventKind) State {
	switch kind {
	case EventStarted, EventResumed:
		return StateRunning
	case EventPaused:
		return StatePaused
	case EventAborted:
		return StateAborted
	case EventCompleted:
		return StateCompleted
	default:
		return StateNone
	}
}

// Replay is the result of walking one session's history.
type Replay struct {
	Elapsed time.Duration
	// Open is set when the last running segment has not been closed yet.
	Open  bool
	State State
}

// ReplayEvents sums the running segments of one session. events must be
// ordered oldest first. An open segment is measured up to now.
func ReplayEvents(events []Event, now time.Time) Replay {
	var (
		segmentStart *time.Time
		elapsed      time.Duration
	)
	for i := range events {
		event := events[i]
		if event.Kind.Opens() {
			at := event.CreatedAt
			segmentStart = &at
			continue
		}
		if segmentStart != nil {
			elapsed += event.CreatedAt.Sub(*segmentStart)
			segmentStart = nil
		}
	}
	if segmentStart != nil {
		elapsed += now.Sub(*segmentStart)
	}
	if elapsed < 0 {
		elapsed = 0
	}

	state := StateNone
	if len(events) > 0 {
		state = StateOf(events[len(events)-1].Kind)
	}
	return Replay{Elapsed: elapsed, Open: segmentStart != nil, State: state}
}

// Status is the renderable summary of the latest session.
type Status struct {
	Kind          string
	State         State
	PlannedSecs   int64
	ElapsedSecs   int64
	RemainingSecs int64
}

// EmptyStatus is reported when no session exists.
func EmptyStatus() Status {
	return Status{Kind: string(StateNone), State: StateNone}
}

// AssembleStatus combines a session with the replay of its history.
func AssembleStatus(session Session, replay Replay) Status {
	planned := session.PlannedSecs()
	elapsed := int64(replay.Elapsed / time.Second)
	remaining := planned - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Kind:          session.Kind.String(),
		State:         replay.State,
		PlannedSecs:   planned,
		ElapsedSecs:   elapsed,
		RemainingSecs: remaining,
	}
}

// Expired reports whether a running session has used its planned time and
// must be completed.
func (s Status) Expired() bool {
	return s.State == StateRunning && s.RemainingSecs == 0
}
