// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keiyara/memotype/internal/evaluate"
	"github.com/keiyara/memotype/internal/model"
	"github.com/keiyara/memotype/internal/schedule"
	"github.com/keiyara/memotype/internal/session"
	"github.com/keiyara/memotype/internal/store"
)

// Practice modes stored with each session.
const (
	ModeAdaptive   = "adaptive"
	ModeSequential = "sequential"
)

var (
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7CB342"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type tickMsg time.Time

// Model implements the Bubble Tea practice UI.
type Model struct {
	items     []*model.StudyItem
	scheduler *schedule.Scheduler
	seq       *session.Sequential // nil in adaptive mode.
	tracker   *session.Tracker
	store     *store.Store // nil disables history logging.
	mode      string

	width  int
	height int

	challenge *evaluate.Challenge
	input     textinput.Model
	attempts  []model.AttemptLog
	feedback  string
	done      bool

	summary model.SessionSummary
}

// NewModel constructs a practice model. seq selects sequential mode when
// non-nil; otherwise the scheduler drives item selection.
func NewModel(items []*model.StudyItem, sched *schedule.Scheduler, seq *session.Sequential, tracker *session.Tracker, st *store.Store) *Model {
	input := textinput.New()
	input.Placeholder = "type the answer and press enter"
	input.Focus()

	mode := ModeAdaptive
	if seq != nil {
		mode = ModeSequential
	}

	m := &Model{
		items:     items,
		scheduler: sched,
		seq:       seq,
		tracker:   tracker,
		store:     st,
		mode:      mode,
		input:     input,
	}
	m.tracker.Start()
	if m.seq != nil {
		m.seq.Start()
	}
	m.advance()
	return m
}

// Summary returns the session summary; valid once the program has quit.
func (m *Model) Summary() model.SessionSummary {
	return m.summary
}

// Finished reports whether the session ended normally.
func (m *Model) Finished() bool {
	return m.done
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		// The elapsed display is advisory; scoring uses the challenge's
		// own wall clock at submit time.
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.finish()
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			if m.done {
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyCtrlN:
			// Skip ahead without recording a result.
			if m.seq != nil {
				m.seq.Skip()
				m.advance()
			}
			return m, nil
		case tea.KeyCtrlB:
			if m.seq != nil {
				if item := m.seq.Back(); item != nil {
					m.present(item)
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	if m.challenge == nil {
		m.finish()
		return
	}
	item := m.challenge.Item()
	result := m.challenge.Complete(m.input.Value())

	m.scheduler.Update(item, result.Accuracy)
	m.tracker.Record(result)
	if m.seq != nil {
		m.seq.Record(result)
	}
	m.attempts = append(m.attempts, model.AttemptLog{
		ItemID:      result.ItemID,
		Accuracy:    result.Accuracy,
		WPM:         result.WPM,
		TimeTakenMs: int64(result.TimeTakenSeconds * 1000),
		RecordedAt:  time.Now(),
	})
	m.feedback = renderFeedback(result)
	m.advance()
}

func (m *Model) advance() {
	var item *model.StudyItem
	if m.seq != nil {
		item = m.seq.Next()
	} else {
		item = m.scheduler.SelectNext(m.items)
	}
	if item == nil {
		m.finish()
		return
	}
	m.present(item)
}

func (m *Model) present(item *model.StudyItem) {
	m.challenge = evaluate.NewChallenge(item)
	m.challenge.Start()
	m.input.Reset()
}

func (m *Model) finish() {
	if m.done {
		return
	}
	m.done = true

	endedAt := time.Now()
	record := m.tracker.RecordRow(m.mode, endedAt)
	if m.seq != nil {
		m.summary = m.seq.End()
		m.tracker.End()
	} else {
		m.summary = m.tracker.End()
	}

	if m.store == nil || record.ItemsStudied == 0 {
		return
	}
	if _, err := m.store.InsertSession(context.Background(), record, m.attempts); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || m.challenge == nil {
		return ""
	}
	item := m.challenge.Item()

	contentWidth := 60
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 20 {
			contentWidth = 20
		}
	}

	var b strings.Builder
	if item.Context != "" {
		b.WriteString(contextStyle.Render(wrapText(item.Context, contentWidth)))
		b.WriteString("\n\n")
	}
	b.WriteString(promptStyle.Render(wrapText(item.Prompt, contentWidth)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.feedback != "" {
		b.WriteString("\n\n")
		b.WriteString(m.feedback)
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(b.String())

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	elapsed := int(m.challenge.Elapsed().Seconds())
	segments := []string{fmt.Sprintf("Time %d:%02d", elapsed/60, elapsed%60)}
	if m.seq != nil {
		done, total := m.seq.Progress()
		segments = append(segments, fmt.Sprintf("Item %d/%d", done, total))
	} else {
		studied, correct, _, _ := m.tracker.Snapshot()
		segments = append(segments, fmt.Sprintf("Studied %d · Correct %d", studied, correct))
	}
	segments = append(segments, "esc to end")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func renderFeedback(result model.AttemptResult) string {
	line := fmt.Sprintf("%.0f%% accuracy · %.1f WPM", result.Accuracy*100, result.WPM)
	if result.Accuracy >= session.DefaultCorrectThreshold {
		return goodStyle.Render(line)
	}
	return badStyle.Render(line)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
