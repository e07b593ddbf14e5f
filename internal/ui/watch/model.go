package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/ui/theme"
)

// RefreshInterval is how often the status is polled. Every poll may complete
// an expired session.
const RefreshInterval = time.Second

type sessionPort interface {
	Start(ctx context.Context, kind string, duration *time.Duration) (sessiondto.CommandOutput, error)
	Stop(ctx context.Context, reset bool) (sessiondto.CommandOutput, error)
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
}

type tickMsg time.Time

type statusMsg struct {
	status sessiondto.StatusOutput
	err    error
}

type commandMsg struct {
	out sessiondto.CommandOutput
	err error
}

type keyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "abort")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.Help, k.Quit},
	}
}

// Model shows the latest session with a progress bar and lets the user start,
// pause and abort it.
type Model struct {
	session sessionPort
	// kind is used when space starts a new session.
	kind string

	keys     keyMap
	help     help.Model
	progress progress.Model

	status  sessiondto.StatusOutput
	message string
	err     error
	loaded  bool
}

func NewModel(session sessionPort, kind string) Model {
	return Model{
		session:  session,
		kind:     kind,
		keys:     defaultKeys(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		status:   sessiondto.StatusOutput{Kind: "none", State: "none"},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadStatusCmd(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(msg.Width-8, 60))

	case tickMsg:
		return m, tea.Batch(m.loadStatusCmd(), tickCmd())

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.loaded = true
		}

	case commandMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.message = msg.out.Message
		return m, m.loadStatusCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Toggle):
			if m.status.State == "running" {
				return m, m.stopCmd(false)
			}
			return m, m.startCmd()
		case key.Matches(msg, m.keys.Reset):
			return m, m.stopCmd(true)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("pomodoro"))
	b.WriteString("\n\n")

	if !m.loaded && m.err == nil {
		b.WriteString(theme.Muted.Render("loading..."))
	} else {
		b.WriteString(fmt.Sprintf("%s  %s\n\n", m.status.Kind, theme.State(m.status.State).Render(m.status.State)))
		b.WriteString(m.progress.ViewAs(Ratio(m.status)))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("elapsed %s   remaining %s", mmss(m.status.ElapsedSecs), mmss(m.status.RemainingSecs)))
	}
	if m.message != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Muted.Render(m.message))
	}
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Error.Render("error: " + m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return theme.App.Render(theme.PaneActive.Render(b.String()))
}

// Ratio is the used share of the planned time, clamped to [0, 1].
func Ratio(status sessiondto.StatusOutput) float64 {
	if status.PlannedSecs <= 0 {
		if status.State == "completed" {
			return 1
		}
		return 0
	}
	ratio := float64(status.ElapsedSecs) / float64(status.PlannedSecs)
	return max(0, min(ratio, 1))
}

func mmss(secs int64) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func tickCmd() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.session.Status(context.Background())
		return statusMsg{status: status, err: err}
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), m.kind, nil)
		return commandMsg{out: out, err: err}
	}
}

func (m Model) stopCmd(reset bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Stop(context.Background(), reset)
		return commandMsg{out: out, err: err}
	}
}
