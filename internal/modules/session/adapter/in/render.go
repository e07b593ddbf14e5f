package in

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	sessiondto "pomodoro/internal/modules/session/dto"
	apperrors "pomodoro/internal/platform/errors"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// DefaultStatusTemplate renders one status line with elapsed and remaining
// time as MM:SS.
const DefaultStatusTemplate = "{{ .kind }} | {{ .state }} | elapsed {{ mmss .elapsed_secs }} | remaining {{ mmss .remaining_secs }}"

var templateFuncs = template.FuncMap{
	"mmss": MMSS,
}

// MMSS formats seconds as zero-padded minutes and seconds. Minutes are not
// wrapped into hours.
func MMSS(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// RenderStatus writes status in the requested mode. format replaces the
// default template in text mode and is ignored otherwise.
func RenderStatus(w io.Writer, status sessiondto.StatusOutput, mode, format string) error {
	switch mode {
	case "", OutputText:
		if format == "" {
			format = DefaultStatusTemplate
		}
		tmpl, err := template.New("status").Funcs(templateFuncs).Option("missingkey=error").Parse(format)
		if err != nil {
			return fmt.Errorf("parse status template: %w", err)
		}
		if err := tmpl.Execute(w, statusFields(status)); err != nil {
			return fmt.Errorf("render status template: %w", err)
		}
		_, err = fmt.Fprintln(w)
		return err
	case OutputJSON:
		return writeJSON(w, status)
	case OutputYAML:
		payload, err := yaml.Marshal(status)
		if err != nil {
			return fmt.Errorf("marshal status yaml: %w", err)
		}
		_, err = w.Write(payload)
		return err
	default:
		return fmt.Errorf("%w: unknown output mode %q", apperrors.ErrInvalidInput, mode)
	}
}

// statusFields exposes the status under the same names as its JSON form.
func statusFields(status sessiondto.StatusOutput) map[string]any {
	return map[string]any{
		"kind":           status.Kind,
		"state":          status.State,
		"planned_secs":   status.PlannedSecs,
		"elapsed_secs":   status.ElapsedSecs,
		"remaining_secs": status.RemainingSecs,
	}
}

func RenderHistory(w io.Writer, items []sessiondto.HistoryItem, mode string) error {
	switch mode {
	case "", OutputText:
		table := tablewriter.NewWriter(w)
		table.Header("Session", "Kind", "State", "Planned", "Elapsed", "Created")
		rows := lo.Map(items, func(item sessiondto.HistoryItem, _ int) []string {
			return []string{
				item.SessionID,
				item.Kind,
				item.State,
				MMSS(item.PlannedSecs),
				MMSS(item.ElapsedSecs),
				item.CreatedAt.Local().Format(time.DateTime),
			}
		})
		for _, row := range rows {
			if err := table.Append(row); err != nil {
				return fmt.Errorf("append history row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("render history table: %w", err)
		}
		return nil
	case OutputJSON:
		return writeJSON(w, items)
	default:
		return fmt.Errorf("%w: unknown output mode %q", apperrors.ErrInvalidInput, mode)
	}
}

// RenderCommand prints the outcome of start or stop.
func RenderCommand(w io.Writer, out sessiondto.CommandOutput) error {
	_, err := fmt.Fprintln(w, out.Message)
	return err
}

func writeJSON(w io.Writer, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(append(payload, '\n'))
	return err
}

