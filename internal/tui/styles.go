// Package tui holds the shared lipgloss styles for the bargain screens.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette - BargainBaaS brand colors
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#38A169", Dark: "#48BB78"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#D69E2E", Dark: "#F6E05E"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#E53E3E", Dark: "#FC8181"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#718096", Dark: "#A0AEC0"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1A202C", Dark: "#F7FAFC"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#CBD5E0", Dark: "#4A5568"}
)

// Base styles
var (
	// Title style for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// SubtitleStyle for section headers
	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// LabelStyle for key names in key-value pairs
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	// ValueStyle for values
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// MutedStyle for less important text
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SpinnerStyle for spinner text
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// DisabledStyle for affordances that can't be used yet
	DisabledStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)
)

// Panel styles for dashboard
var (
	// PanelStyle for bordered panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// ActivePanelStyle for selected/active panels
	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(1, 2)
)

// Progress bar styles
var (
	// ProgressBarFilled style for filled portion
	ProgressBarFilled = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	// ProgressBarEmpty style for empty portion
	ProgressBarEmpty = lipgloss.NewStyle().
				Foreground(ColorMuted)

	// ProgressBarWarning style when the rate is low
	ProgressBarWarning = lipgloss.NewStyle().
				Foreground(ColorWarning)

	// ProgressBarCritical style when the rate is very low
	ProgressBarCritical = lipgloss.NewStyle().
				Foreground(ColorError)
)

// IsTTY returns true if stdout is a terminal
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseInteractive determines if interactive TUI should be used
func ShouldUseInteractive(forceInteractive, noColor bool) bool {
	// Disable for non-TTY (pipes, scripts)
	if !IsTTY() {
		return false
	}
	// Respect --no-color flag
	if noColor {
		return false
	}
	return forceInteractive || term.IsTerminal(int(os.Stdin.Fd()))
}

// RateBar renders a 0-100 rate as a bar. Low rates are drawn in the
// warning colors.
func RateBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	percent = max(0, min(percent, 100))

	filled := min(int(percent/100.0*float64(width)), width)
	empty := width - filled

	var style lipgloss.Style
	switch {
	case percent < 10:
		style = ProgressBarCritical
	case percent < 25:
		style = ProgressBarWarning
	default:
		style = ProgressBarFilled
	}

	return style.Render(strings.Repeat("█", filled)) + ProgressBarEmpty.Render(strings.Repeat("░", empty))
}
