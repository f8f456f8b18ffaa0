// internal/ui/interactive.go
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("cancelled")

type textInputModel struct {
	question  string
	textInput textinput.Model
	validate  func(string) error
	err       error
	cancelled bool
}

func newTextInput(question, placeholder, defaultValue string, validate func(string) error) textInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return textInputModel{
		question:  question,
		textInput: ti,
		validate:  validate,
	}
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(strings.TrimSpace(m.textInput.Value())); err != nil {
					m.err = err
					return m, nil
				}
			}
			return m, tea.Quit
		}
	}

	m.err = nil
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.question + "\n\n")
	sb.WriteString(m.textInput.View() + "\n\n")
	if m.err != nil {
		sb.WriteString(color.RedString(m.err.Error()) + "\n")
	}
	sb.WriteString("(enter to confirm, esc to cancel)")
	return sb.String()
}

// AskInput presents the user with a text input field. validate may be nil;
// when set, enter is refused until it passes.
func AskInput(question, placeholder, defaultValue string, validate func(string) error) (string, error) {
	p := tea.NewProgram(newTextInput(question, placeholder, defaultValue, validate))
	m, err := p.Run()
	if err != nil {
		return "", err
	}

	final := m.(textInputModel)
	if final.cancelled {
		return "", ErrCancelled
	}
	result := strings.TrimSpace(final.textInput.Value())
	if result == "" {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("input cannot be empty")
	}
	return result, nil
}
