// Package configedit is the interactive editor for the tenant's policy
// endpoint setting.
package configedit

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bargainbaas/bargain-cli/internal/configsync"
	"github.com/bargainbaas/bargain-cli/internal/tui"
)

// Model edits a single configsync.Field. The field is loaded on Init and
// the save action stays disabled until that load succeeds.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	field  *configsync.Field

	label   string
	input   textinput.Model
	spinner spinner.Model
	state   configsync.State

	// pending names the request in flight, empty when idle.
	pending string
}

const (
	msgLoading = "Loading configuration..."
	msgSaving  = "Saving..."
)

type loadedMsg struct{ err error }

type savedMsg struct {
	state configsync.State
	err   error
}

// New creates the editor. label is shown above the input.
func New(ctx context.Context, field *configsync.Field, label string) Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "https://your-shop.example/api/bargain/policy"
	ti.CharLimit = 2048
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SpinnerStyle

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		field:   field,
		label:   label,
		input:   ti,
		spinner: s,
		state:   field.State(),
		pending: msgLoading,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	ctx, field := m.ctx, m.field
	return func() tea.Msg {
		return loadedMsg{err: field.Load(ctx)}
	}
}

func (m Model) submit() tea.Cmd {
	ctx, field := m.ctx, m.field
	return func() tea.Msg {
		st, err := field.Submit(ctx)
		return savedMsg{state: st, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.pending != "" || !m.state.CanSave() {
				return m, nil
			}
			m.pending = msgSaving
			return m, m.submit()
		case tea.KeyCtrlR:
			if m.pending != "" {
				return m, nil
			}
			m.pending = msgLoading
			m.state = m.field.State()
			return m, m.load()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.field.Edit(m.input.Value())
		if m.pending == "" {
			m.state = m.field.State()
		}
		return m, cmd

	case loadedMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.pending = ""
		m.state = m.field.State()
		if msg.err == nil {
			m.input.SetValue(m.state.Local)
			m.input.CursorEnd()
		}
		return m, nil

	case savedMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.pending = ""
		m.state = m.field.State()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// State returns the last observed field state.
func (m Model) State() configsync.State {
	return m.state
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(tui.TitleStyle.Render("Tenant configuration") + "\n")
	sb.WriteString(tui.LabelStyle.Render(m.label) + "\n")
	sb.WriteString(m.input.View() + "\n\n")

	save := "[enter] Save"
	if m.pending != "" || !m.state.CanSave() {
		sb.WriteString(tui.DisabledStyle.Render(save))
	} else {
		sb.WriteString(tui.SubtitleStyle.Render(save))
	}
	sb.WriteString("  " + tui.MutedStyle.Render("[ctrl+r] Reload  [esc] Quit") + "\n")

	switch {
	case m.pending != "":
		sb.WriteString(m.spinner.View() + tui.SpinnerStyle.Render(" "+m.pending) + "\n")
	case m.state.Message == "":
		if m.state.Dirty {
			sb.WriteString(tui.MutedStyle.Render("Unsaved changes") + "\n")
		}
	case m.state.Status == configsync.Saved:
		sb.WriteString(tui.SuccessStyle.Render(m.state.Message) + "\n")
	default:
		sb.WriteString(tui.ErrorStyle.Render(m.state.Message) + "\n")
	}
	return sb.String()
}

// Run runs the editor and returns the final field state.
func Run(ctx context.Context, field *configsync.Field, label string) (configsync.State, error) {
	p := tea.NewProgram(New(ctx, field, label), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return field.State(), err
	}
	return final.(Model).State(), nil
}
