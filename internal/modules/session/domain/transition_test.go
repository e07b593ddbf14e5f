package domain

import (
	"errors"
	"testing"

	apperrors "pomodoro/internal/platform/errors"
)

func latest(kind EventKind) *Event {
	return &Event{ID: "evt", Kind: kind, SessionID: "sess"}
}

func TestTransitionTable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		latest *Event
		start  Transition
		stop   Transition
		reset  Transition
	}{
		{
			name:   "none",
			latest: nil,
			start:  Transition{Effect: EffectNewSession, Kind: EventStarted, Outcome: OutcomeStarted},
			stop:   Transition{Effect: EffectNone, Outcome: OutcomeNoSession},
			reset:  Transition{Effect: EffectNone, Outcome: OutcomeNoSession},
		},
		{
			name:   "started",
			latest: latest(EventStarted),
			start:  Transition{Effect: EffectNone, Outcome: OutcomeAlreadyRunning},
			stop:   Transition{Effect: EffectAppend, Kind: EventPaused, Outcome: OutcomePaused},
			reset:  Transition{Effect: EffectAppend, Kind: EventAborted, Outcome: OutcomeAborted},
		},
		{
			name:   "resumed",
			latest: latest(EventResumed),
			start:  Transition{Effect: EffectNone, Outcome: OutcomeAlreadyRunning},
			stop:   Transition{Effect: EffectAppend, Kind: EventPaused, Outcome: OutcomePaused},
			reset:  Transition{Effect: EffectAppend, Kind: EventAborted, Outcome: OutcomeAborted},
		},
		{
			name:   "paused",
			latest: latest(EventPaused),
			start:  Transition{Effect: EffectAppend, Kind: EventResumed, Outcome: OutcomeResumed},
			stop:   Transition{Effect: EffectNone, Outcome: OutcomeAlreadyPaused},
			reset:  Transition{Effect: EffectAppend, Kind: EventAborted, Outcome: OutcomeAborted},
		},
		{
			name:   "aborted",
			latest: latest(EventAborted),
			start:  Transition{Effect: EffectNewSession, Kind: EventStarted, Outcome: OutcomeStarted},
			stop:   Transition{Effect: EffectNone, Outcome: OutcomeNothingToStop},
			reset:  Transition{Effect: EffectNone, Outcome: OutcomeNothingToStop},
		},
		{
			name:   "completed",
			latest: latest(EventCompleted),
			start:  Transition{Effect: EffectNewSession, Kind: EventStarted, Outcome: OutcomeStarted},
			stop:   Transition{Effect: EffectNone, Outcome: OutcomeNothingToStop},
			reset:  Transition{Effect: EffectNone, Outcome: OutcomeNothingToStop},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DecideStart(tc.latest); got != tc.start {
				t.Fatalf("start: expected %+v, got %+v", tc.start, got)
			}
			if got := DecideStop(tc.latest, false); got != tc.stop {
				t.Fatalf("stop: expected %+v, got %+v", tc.stop, got)
			}
			if got := DecideStop(tc.latest, true); got != tc.reset {
				t.Fatalf("stop --reset: expected %+v, got %+v", tc.reset, got)
			}
		})
	}
}

func TestDecisionsNeverBreakAppendRules(t *testing.T) {
	t.Parallel()
	for _, kind := range []EventKind{EventStarted, EventResumed, EventPaused, EventAborted, EventCompleted} {
		prev := kind
		for _, tr := range []Transition{DecideStart(latest(kind)), DecideStop(latest(kind), false), DecideStop(latest(kind), true)} {
			switch tr.Effect {
			case EffectAppend:
				if err := CanAppend(&prev, tr.Kind); err != nil {
					t.Fatalf("decision after %s appends invalid %s: %v", kind, tr.Kind, err)
				}
			case EffectNewSession:
				if !kind.Terminal() {
					t.Fatalf("new session decided while %s session is live", kind)
				}
			}
		}
	}
}

func TestCanAppendRejectsInvalidSequences(t *testing.T) {
	t.Parallel()
	kind := func(k EventKind) *EventKind { return &k }
	cases := []struct {
		prev *EventKind
		next EventKind
	}{
		{nil, EventPaused},
		{nil, EventResumed},
		{kind(EventStarted), EventStarted},
		{kind(EventStarted), EventResumed},
		{kind(EventPaused), EventPaused},
		{kind(EventAborted), EventResumed},
		{kind(EventCompleted), EventAborted},
	}
	for _, tc := range cases {
		if err := CanAppend(tc.prev, tc.next); !errors.Is(err, apperrors.ErrInconsistentState) {
			t.Fatalf("expected inconsistent state for %v -> %s, got %v", tc.prev, tc.next, err)
		}
	}
	if err := CanAppend(nil, EventStarted); err != nil {
		t.Fatalf("started must open a session: %v", err)
	}
	if err := CanAppend(kind(EventPaused), EventCompleted); err != nil {
		t.Fatalf("paused session may complete: %v", err)
	}
}

func TestOutcomeMessages(t *testing.T) {
	t.Parallel()
	cases := map[Outcome]string{
		OutcomeStarted:        "Started a new focus session.",
		OutcomeAlreadyRunning: "A focus session is already running.",
		OutcomeResumed:        "Resumed the focus session.",
		OutcomePaused:         "Paused the focus session.",
		OutcomeAlreadyPaused:  "The focus session is already paused.",
		OutcomeAborted:        "Aborted the focus session.",
		OutcomeNothingToStop:  "No active focus session to stop.",
		OutcomeNoSession:      "No active session found.",
	}
	for outcome, want := range cases {
		if got := outcome.Message(SessionKindFocus); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
