package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	sessioninadapter "pomodoro/internal/modules/session/adapter/in"
	sessionoutadapter "pomodoro/internal/modules/session/adapter/out"
	sessionout "pomodoro/internal/modules/session/port/out"
	sessionservice "pomodoro/internal/modules/session/service"
	sessionusecase "pomodoro/internal/modules/session/usecase"
	"pomodoro/internal/platform/clock"
	"pomodoro/internal/platform/config"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/id"
	"pomodoro/internal/platform/logging"
	"pomodoro/internal/platform/tx"
	"pomodoro/internal/ui/watch"
)

// Options are the process-wide switches taken from the command line.
type Options struct {
	// InMemory keeps the event log in a private in-memory database.
	InMemory   bool
	NoHooks    bool
	Verbose    bool
	ConfigPath string
}

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	Config     config.Config
	Logger     *zap.Logger

	db *sql.DB
}

func New(ctx context.Context, opts Options) (*App, error) {
	logger := logging.New(opts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.Warn("falling back to default config", zap.Error(err))
		cfg = config.Default()
	}
	logger.Debug("loaded config",
		zap.String("config_path", cfg.ConfigPath),
		zap.String("db_path", cfg.DBPath),
		zap.String("hooks_dir", cfg.HooksDir),
		zap.Duration("focus", cfg.FocusDuration),
		zap.Duration("break", cfg.BreakDuration),
	)

	var db *sql.DB
	if opts.InMemory {
		db, err = sessionoutadapter.OpenSQLiteInMemory()
	} else {
		db, err = sessionoutadapter.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	store, err := sessionoutadapter.NewSQLiteEventStore(ctx, db, sessionoutadapter.DefaultQueries())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new event store: %w", err)
	}

	var hooks sessionout.HookDispatcher = sessionoutadapter.NoopHooks{}
	if !opts.NoHooks {
		hooks = sessionoutadapter.NewHookRunner(cfg.HooksDir)
	}

	svc := sessionservice.NewSessionService(
		clock.SystemClock{},
		id.UUIDv7{},
		store,
		sessionservice.Defaults{Focus: cfg.FocusDuration, Break: cfg.BreakDuration},
	)
	sessionUC := sessionusecase.NewInteractor(svc, tx.NewSQLManager(db), hooks, logger)

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		Config:     cfg,
		Logger:     logger,
		db:         db,
	}, nil
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.db.Close()
}

// RunWatch runs the full-screen status view. kind is used when the view
// starts a new session.
func RunWatch(app *App, kind string) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return fmt.Errorf("%w: watch needs an interactive terminal", apperrors.ErrInvalidInput)
	}
	program := tea.NewProgram(watch.NewModel(app.SessionCLI, kind), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
