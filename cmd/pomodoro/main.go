package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/bootstrap"
	sessioninadapter "pomodoro/internal/modules/session/adapter/in"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &bootstrap.Options{}

	root := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Pomodoro timer backed by an event log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.InMemory, "in-memory", false, "use a throwaway in-memory database")
	root.PersistentFlags().BoolVar(&opts.NoHooks, "no-hooks", false, "do not run hook scripts")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/pomodoro/config.yaml)")

	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newStopCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	return root
}

// withApp builds the application for one command and closes it afterwards.
func withApp(ctx context.Context, opts *bootstrap.Options, fn func(app *bootstrap.App) error) error {
	app, err := bootstrap.New(ctx, *opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newStartCmd(opts *bootstrap.Options) *cobra.Command {
	var (
		mode     string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session or resume a paused one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var planned *time.Duration
			if cmd.Flags().Changed("duration") {
				planned = &duration
			}
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(cmd.Context(), mode, planned)
				if err != nil {
					return err
				}
				return sessioninadapter.RenderCommand(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "focus", "session kind: focus|break")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "planned duration (default from config)")
	return cmd
}

func newStopCmd(opts *bootstrap.Options) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Pause the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Stop(cmd.Context(), reset)
				if err != nil {
					return err
				}
				return sessioninadapter.RenderCommand(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVarP(&reset, "reset", "r", false, "abort the session instead of pausing it")
	return cmd
}

func newStatusCmd(opts *bootstrap.Options) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the latest session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				status, err := app.SessionCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				return sessioninadapter.RenderStatus(cmd.OutOrStdout(), status, output, format)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", sessioninadapter.OutputText, "output mode: text|json|yaml")
	cmd.Flags().StringVarP(&format, "format", "f", "", "text/template for text output")
	return cmd
}

func newHistoryCmd(opts *bootstrap.Options) *cobra.Command {
	var (
		limit, offset int
		output        string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				items, err := app.SessionCLI.History(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if len(items) == 0 && (output == "" || output == sessioninadapter.OutputText) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				return sessioninadapter.RenderHistory(cmd.OutOrStdout(), items, output)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "sessions to show, 0 for all")
	cmd.Flags().IntVar(&offset, "offset", 0, "sessions to skip")
	cmd.Flags().StringVarP(&output, "output", "o", sessioninadapter.OutputText, "output mode: text|json")
	return cmd
}

func newWatchCmd(opts *bootstrap.Options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the latest session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				return bootstrap.RunWatch(app, mode)
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "focus", "kind of session started from the view: focus|break")
	return cmd
}
