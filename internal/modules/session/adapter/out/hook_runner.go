package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
)

// HookPayload is written as JSON to the hook's stdin.
type HookPayload struct {
	Session      domain.Session `json:"session"`
	SessionEvent domain.Event   `json:"session_event"`
}

// HookRunner runs executables from dir: "start" for started and resumed
// events, "stop" for the rest. A missing file is skipped.
//
// Hooks are best-effort: the process is spawned, handed its payload and
// released. Its exit status is never awaited and never affects the caller.
type HookRunner struct {
	dir string
}

func NewHookRunner(dir string) sessionout.HookDispatcher {
	return &HookRunner{dir: dir}
}

func HookName(kind domain.EventKind) string {
	if kind.Opens() {
		return "start"
	}
	return "stop"
}

func (r *HookRunner) Dispatch(_ context.Context, session domain.Session, event domain.Event) error {
	path := filepath.Join(r.dir, HookName(event.Kind))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat hook: %w", err)
	}

	payload, err := json.Marshal(HookPayload{Session: session, SessionEvent: event})
	if err != nil {
		return fmt.Errorf("marshal hook payload: %w", err)
	}

	// Not bound to ctx: the hook must outlive the command.
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open hook stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn hook: %w", err)
	}
	_, writeErr := stdin.Write(payload)
	closeErr := stdin.Close()
	_ = cmd.Process.Release()
	if writeErr != nil {
		return fmt.Errorf("write hook payload: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close hook stdin: %w", closeErr)
	}
	return nil
}

// NoopHooks is used when hooks are disabled.
type NoopHooks struct{}

func (NoopHooks) Dispatch(context.Context, domain.Session, domain.Event) error {
	return nil
}
