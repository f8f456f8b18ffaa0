// internal/ui/apikey.go
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const boxWidth = 63

// APIKeyActions are the side effects the key screen can trigger.
type APIKeyActions struct {
	Copy     func(text string) error
	OpenDocs func(url string) error
}

// APIKeyModel shows the tenant API key with copy and documentation shortcuts.
type APIKeyModel struct {
	apiKey          string
	maskedKey       string
	docsURL         string
	revealed        bool
	actions         APIKeyActions
	flashMessage    string    // temporary message after an action
	flashMessageSet time.Time // when the flash message was set
}

type flashTickMsg time.Time

// NewAPIKeyModel creates the key screen. masked is what is shown until the
// user presses 's'.
func NewAPIKeyModel(apiKey, masked, docsURL string, actions APIKeyActions) APIKeyModel {
	return APIKeyModel{
		apiKey:    apiKey,
		maskedKey: masked,
		docsURL:   docsURL,
		actions:   actions,
	}
}

func (m APIKeyModel) Init() tea.Cmd {
	return nil
}

func flashTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return flashTickMsg(t)
	})
}

func (m APIKeyModel) flash(msg string) (APIKeyModel, tea.Cmd) {
	m.flashMessage = msg
	m.flashMessageSet = time.Now()
	return m, flashTick()
}

func (m APIKeyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "c", "C":
			if m.apiKey == "" {
				return m.flash("⚠️  No API key issued yet")
			}
			if m.actions.Copy == nil {
				return m, nil
			}
			if err := m.actions.Copy(m.apiKey); err != nil {
				return m.flash("⚠️  Could not copy: " + err.Error())
			}
			return m.flash("✓ API key copied to clipboard!")
		case "b", "B":
			if m.actions.OpenDocs == nil {
				return m, nil
			}
			if err := m.actions.OpenDocs(m.docsURL); err != nil {
				return m.flash("⚠️  Could not open browser: " + err.Error())
			}
			return m.flash("✓ Browser opened!")
		case "s", "S":
			m.revealed = !m.revealed
			return m, nil
		}
	case flashTickMsg:
		if m.flashMessage != "" && time.Since(m.flashMessageSet) >= 2*time.Second {
			m.flashMessage = ""
		}
		return m, nil
	}
	return m, nil
}

func (m APIKeyModel) shownKey() string {
	if m.apiKey == "" {
		return "(not issued)"
	}
	if m.revealed {
		return m.apiKey
	}
	return m.maskedKey
}

func (m APIKeyModel) View() string {
	var sb strings.Builder
	sb.WriteString(RenderAPIKeyBox(m.shownKey(), m.docsURL))

	if m.flashMessage != "" {
		styled := color.GreenString(m.flashMessage)
		if strings.HasPrefix(m.flashMessage, "⚠️") {
			styled = color.YellowString(m.flashMessage)
		}
		sb.WriteString("  " + styled + "\n")
	}

	dim := color.New(color.Faint)
	sb.WriteString("  " + dim.Sprint("'c' copy key  •  's' show/hide  •  'b' docs  •  'q' quit") + "\n")
	return sb.String()
}

// RenderAPIKeyBox draws the key and the documentation link inside a box.
func RenderAPIKeyBox(shownKey, docsURL string) string {
	var sb strings.Builder
	blank := "│" + strings.Repeat(" ", boxWidth) + "│\n"

	sb.WriteString("┌" + strings.Repeat("─", boxWidth) + "┐\n")
	sb.WriteString(blank)
	sb.WriteString("│" + centerText("Integration API Key", boxWidth) + "│\n")
	sb.WriteString(blank)
	sb.WriteString(padLineColored("Send this key with every request from your store:", "Send this key with every request from your store:", 2))
	sb.WriteString(blank)

	keyLine := fmt.Sprintf("  %s  ", shownKey)
	sb.WriteString("│" + centerTextColored(color.CyanString(keyLine), keyLine, boxWidth) + "│\n")
	sb.WriteString(blank)

	if docsURL != "" {
		sb.WriteString(padLineColored("Integration guide:", "Integration guide:", 2))
		sb.WriteString(padLineColored(Hyperlink(docsURL, truncate(docsURL, boxWidth-6)), truncate(docsURL, boxWidth-6), 4))
		sb.WriteString(blank)
	}

	sb.WriteString("└" + strings.Repeat("─", boxWidth) + "┘\n")
	return sb.String()
}

// padLineColored creates a padded line with colored text
func padLineColored(coloredContent, plainContent string, leftPad int) string {
	visibleLen := runewidth.StringWidth(plainContent)
	rightPad := boxWidth - leftPad - visibleLen
	if rightPad < 0 {
		rightPad = 0
	}
	return "│" + strings.Repeat(" ", leftPad) + coloredContent + strings.Repeat(" ", rightPad) + "│\n"
}

// centerText centers text within a given width
func centerText(text string, width int) string {
	return centerTextColored(text, text, width)
}

// centerTextColored centers colored text within a given width
func centerTextColored(coloredText, plainText string, width int) string {
	textLen := runewidth.StringWidth(plainText)
	if textLen >= width {
		return coloredText
	}
	leftPad := (width - textLen) / 2
	rightPad := width - textLen - leftPad
	return strings.Repeat(" ", leftPad) + coloredText + strings.Repeat(" ", rightPad)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// ShowAPIKey runs the key screen until the user quits.
func ShowAPIKey(apiKey, masked, docsURL string, actions APIKeyActions) error {
	p := tea.NewProgram(NewAPIKeyModel(apiKey, masked, docsURL, actions))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to display API key: %w", err)
	}
	return nil
}
