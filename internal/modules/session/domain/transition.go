package domain

import (
	"fmt"

	apperrors "pomodoro/internal/platform/errors"
)

// Effect is what a command does to the event log.
type Effect int

const (
	// EffectNone leaves the log untouched.
	EffectNone Effect = iota
	// EffectNewSession creates a session and records its Started event.
	EffectNewSession
	// EffectAppend records an event against the session of the latest event.
	EffectAppend
)

// Outcome identifies the message shown to the user after a command.
type Outcome int

const (
	OutcomeStarted Outcome = iota
	OutcomeAlreadyRunning
	OutcomeResumed
	OutcomePaused
	OutcomeAlreadyPaused
	OutcomeAborted
	OutcomeNothingToStop
	OutcomeNoSession
)

// Message renders the outcome for a session of the given kind.
func (o Outcome) Message(kind SessionKind) string {
	switch o {
	case OutcomeStarted:
		return fmt.Sprintf("Started a new %s session.", kind)
	case OutcomeAlreadyRunning:
		return fmt.Sprintf("A %s session is already running.", kind)
	case OutcomeResumed:
		return fmt.Sprintf("Resumed the %s session.", kind)
	case OutcomePaused:
		return fmt.Sprintf("Paused the %s session.", kind)
	case OutcomeAlreadyPaused:
		return fmt.Sprintf("The %s session is already paused.", kind)
	case OutcomeAborted:
		return fmt.Sprintf("Aborted the %s session.", kind)
	case OutcomeNothingToStop:
		return fmt.Sprintf("No active %s session to stop.", kind)
	default:
		return "No active session found."
	}
}

// Transition is the decision for one command given the latest event.
type Transition struct {
	Effect  Effect
	Kind    EventKind
	Outcome Outcome
}

// DecideStart applies the start column of the transition table. latest is
// the most recent event across all sessions, nil when none exists.
func DecideStart(latest *Event) Transition {
	if latest == nil {
		return Transition{Effect: EffectNewSession, Kind: EventStarted, Outcome: OutcomeStarted}
	}
	switch latest.Kind {
	case EventStarted, EventResumed:
		return Transition{Effect: EffectNone, Outcome: OutcomeAlreadyRunning}
	case EventPaused:
		return Transition{Effect: EffectAppend, Kind: EventResumed, Outcome: OutcomeResumed}
	default:
		return Transition{Effect: EffectNewSession, Kind: EventStarted, Outcome: OutcomeStarted}
	}
}

// DecideStop applies the stop columns of the transition table. With reset
// a live session is aborted instead of paused.
func DecideStop(latest *Event, reset bool) Transition {
	if latest == nil {
		return Transition{Effect: EffectNone, Outcome: OutcomeNoSession}
	}
	switch latest.Kind {
	case EventStarted, EventResumed:
		if reset {
			return Transition{Effect: EffectAppend, Kind: EventAborted, Outcome: OutcomeAborted}
		}
		return Transition{Effect: EffectAppend, Kind: EventPaused, Outcome: OutcomePaused}
	case EventPaused:
		if reset {
			return Transition{Effect: EffectAppend, Kind: EventAborted, Outcome: OutcomeAborted}
		}
		return Transition{Effect: EffectNone, Outcome: OutcomeAlreadyPaused}
	default:
		return Transition{Effect: EffectNone, Outcome: OutcomeNothingToStop}
	}
}

// CanAppend checks that next may follow prev in one session's log. prev is
// nil for a session without events.
func CanAppend(prev *EventKind, next EventKind) error {
	if prev == nil {
		if next != EventStarted {
			return fmt.Errorf("%w: first event must be %s, got %s", apperrors.ErrInconsistentState, EventStarted, next)
		}
		return nil
	}
	last := *prev
	if last.Terminal() {
		return fmt.Errorf("%w: %s follows terminal %s", apperrors.ErrInconsistentState, next, last)
	}
	switch next {
	case EventStarted:
		return fmt.Errorf("%w: %s follows %s", apperrors.ErrInconsistentState, next, last)
	case EventResumed:
		if last != EventPaused {
			return fmt.Errorf("%w: %s requires a paused session, got %s", apperrors.ErrInconsistentState, next, last)
		}
	case EventPaused:
		if !last.Opens() {
			return fmt.Errorf("%w: %s requires a running session, got %s", apperrors.ErrInconsistentState, next, last)
		}
	}
	return nil
}
