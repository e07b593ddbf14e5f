package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pomodoro/internal/modules/session/domain"
	sessiondto "pomodoro/internal/modules/session/dto"
	sessionin "pomodoro/internal/modules/session/port/in"
	sessionout "pomodoro/internal/modules/session/port/out"
	"pomodoro/internal/modules/session/service"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/tx"
)

type Interactor struct {
	svc    *service.SessionService
	tx     tx.Manager
	hooks  sessionout.HookDispatcher
	logger *zap.Logger
}

func NewInteractor(svc *service.SessionService, txm tx.Manager, hooks sessionout.HookDispatcher, logger *zap.Logger) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{svc: svc, tx: txm, hooks: hooks, logger: logger}
}

// recorded is an event written by the current command, forwarded to hooks
// once the write unit has committed.
type recorded struct {
	session domain.Session
	event   domain.Event
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.CommandOutput, error) {
	draft, err := i.svc.NewSession(input.Kind, input.Duration)
	if err != nil {
		return sessiondto.CommandOutput{}, err
	}

	var (
		out  sessiondto.CommandOutput
		done *recorded
	)
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		head, err := i.svc.Head(ctx)
		if err != nil {
			return err
		}
		decision := domain.DecideStart(head.Event)
		i.logDecision("start", head, decision)

		switch decision.Effect {
		case domain.EffectNewSession:
			session, err := i.svc.CreateSession(ctx, draft)
			if err != nil {
				return err
			}
			event, err := i.svc.Record(ctx, session, nil, decision.Kind)
			if err != nil {
				return err
			}
			done = &recorded{session: session, event: event}
			out = output(decision.Outcome, session, &event)
		case domain.EffectAppend:
			event, err := i.svc.Record(ctx, *head.Session, &head.Event.Kind, decision.Kind)
			if err != nil {
				return err
			}
			done = &recorded{session: *head.Session, event: event}
			out = output(decision.Outcome, *head.Session, &event)
		default:
			out = output(decision.Outcome, *head.Session, nil)
		}
		return nil
	})
	if err != nil {
		return sessiondto.CommandOutput{}, err
	}
	i.dispatch(ctx, done)
	return out, nil
}

func (i *Interactor) Stop(ctx context.Context, input sessiondto.StopInput) (sessiondto.CommandOutput, error) {
	var (
		out  sessiondto.CommandOutput
		done *recorded
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		head, err := i.svc.Head(ctx)
		if err != nil {
			return err
		}
		decision := domain.DecideStop(head.Event, input.Reset)
		i.logDecision("stop", head, decision)

		if head.Session == nil {
			out = sessiondto.CommandOutput{Message: decision.Outcome.Message("")}
			return nil
		}
		if decision.Effect != domain.EffectAppend {
			out = output(decision.Outcome, *head.Session, nil)
			return nil
		}
		event, err := i.svc.Record(ctx, *head.Session, &head.Event.Kind, decision.Kind)
		if err != nil {
			return err
		}
		done = &recorded{session: *head.Session, event: event}
		out = output(decision.Outcome, *head.Session, &event)
		return nil
	})
	if err != nil {
		return sessiondto.CommandOutput{}, err
	}
	i.dispatch(ctx, done)
	return out, nil
}

// Status replays the latest session. A running session whose planned time
// is used up is completed here, so repeated calls record Completed once.
func (i *Interactor) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	var (
		status domain.Status
		done   *recorded
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		session, err := i.svc.LatestSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			status = domain.EmptyStatus()
			return nil
		}
		evaluated, events, err := i.svc.Evaluate(ctx, *session)
		if err != nil {
			return err
		}
		status = evaluated
		if !status.Expired() {
			return nil
		}

		last := events[len(events)-1].Kind
		event, err := i.svc.Record(ctx, *session, &last, domain.EventCompleted)
		if err != nil {
			return err
		}
		status.State = domain.StateOf(event.Kind)
		done = &recorded{session: *session, event: event}
		i.logger.Debug("session completed",
			zap.String("session_id", session.ID),
			zap.Int64("planned_secs", status.PlannedSecs),
			zap.Int64("elapsed_secs", status.ElapsedSecs),
		)
		return nil
	})
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	i.dispatch(ctx, done)
	return sessiondto.StatusOutput{
		Kind:          status.Kind,
		State:         string(status.State),
		PlannedSecs:   status.PlannedSecs,
		ElapsedSecs:   status.ElapsedSecs,
		RemainingSecs: status.RemainingSecs,
	}, nil
}

// History lists recent sessions newest first with their replayed state. It
// never records events.
func (i *Interactor) History(ctx context.Context, input sessiondto.HistoryInput) ([]sessiondto.HistoryItem, error) {
	if input.Limit < 0 || input.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative", apperrors.ErrInvalidInput)
	}
	sessions, err := i.svc.Sessions(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]sessiondto.HistoryItem, 0, len(sessions))
	for _, session := range sessions {
		status, _, err := i.svc.Evaluate(ctx, session)
		if err != nil {
			return nil, err
		}
		items = append(items, sessiondto.HistoryItem{
			SessionID:   session.ID,
			Kind:        status.Kind,
			State:       string(status.State),
			PlannedSecs: status.PlannedSecs,
			ElapsedSecs: status.ElapsedSecs,
			CreatedAt:   session.CreatedAt,
		})
	}
	return items, nil
}

// dispatch hands a recorded event to the hooks. Failures are logged and
// dropped; they never change the command's result.
func (i *Interactor) dispatch(ctx context.Context, done *recorded) {
	if done == nil || i.hooks == nil {
		return
	}
	if err := i.hooks.Dispatch(ctx, done.session, done.event); err != nil {
		i.logger.Debug("hook dispatch failed",
			zap.String("session_id", done.session.ID),
			zap.String("event", done.event.Kind.String()),
			zap.Error(err),
		)
	}
}

func (i *Interactor) logDecision(command string, head service.Head, decision domain.Transition) {
	latest := "none"
	if head.Event != nil {
		latest = head.Event.Kind.String()
	}
	i.logger.Debug("decided transition",
		zap.String("command", command),
		zap.String("latest", latest),
		zap.Int("effect", int(decision.Effect)),
		zap.String("event", decision.Kind.String()),
	)
}

func output(outcome domain.Outcome, session domain.Session, event *domain.Event) sessiondto.CommandOutput {
	out := sessiondto.CommandOutput{
		Message:     outcome.Message(session.Kind),
		SessionID:   session.ID,
		SessionKind: session.Kind.String(),
	}
	if event != nil {
		out.Changed = true
		out.EventID = event.ID
		out.EventKind = event.Kind.String()
	}
	return out
}
