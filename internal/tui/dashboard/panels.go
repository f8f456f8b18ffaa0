// Package dashboard is the interactive analytics screen.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bargainbaas/bargain-cli/internal/analytics"
	"github.com/bargainbaas/bargain-cli/internal/tui"
)

// Panel represents a bordered panel in the dashboard
type Panel struct {
	Title   string
	Content string
	Width   int
	Active  bool
}

// Render renders the panel with a border and title
func (p Panel) Render() string {
	style := tui.PanelStyle
	if p.Active {
		style = tui.ActivePanelStyle
	}

	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	titleStyle := tui.SubtitleStyle
	if p.Active {
		titleStyle = titleStyle.Foreground(tui.ColorPrimary)
	}

	var sb strings.Builder
	if p.Title != "" {
		sb.WriteString(titleStyle.Render(p.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(p.Content)

	return style.Render(sb.String())
}

// KeyValuePanel creates a panel with key-value pairs
type KeyValuePanel struct {
	Title  string
	Items  []KeyValue
	Width  int
	Active bool
}

// KeyValue represents a key-value pair
type KeyValue struct {
	Key   string
	Value string
	Style lipgloss.Style // Optional style for the value
}

// Render renders the key-value panel
func (p KeyValuePanel) Render() string {
	var lines []string
	maxKeyLen := 0

	for _, item := range p.Items {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(item.Key))
	}

	for _, item := range p.Items {
		key := tui.LabelStyle.Render(padRight(item.Key+":", maxKeyLen+1))
		value := item.Value
		if item.Style.Value() != "" {
			value = item.Style.Render(value)
		} else {
			value = tui.ValueStyle.Render(value)
		}
		lines = append(lines, key+" "+value)
	}

	panel := Panel{
		Title:   p.Title,
		Content: strings.Join(lines, "\n"),
		Width:   p.Width,
		Active:  p.Active,
	}
	return panel.Render()
}

// RatePanel shows percentages as bars.
type RatePanel struct {
	Title  string
	Items  []RateItem
	Width  int
	Active bool
}

// RateItem is one labelled percentage.
type RateItem struct {
	Label   string
	Percent float64
	Detail  string // e.g., "128 of 380"
}

// Render renders the rate panel
func (p RatePanel) Render() string {
	var lines []string
	barWidth := 20

	for _, item := range p.Items {
		label := tui.LabelStyle.Render(padRight(item.Label+":", 12))
		bar := tui.RateBar(item.Percent, barWidth)
		pct := tui.ValueStyle.Render(fmt.Sprintf("%5.1f%%", item.Percent))

		detail := ""
		if item.Detail != "" {
			detail = " " + tui.MutedStyle.Render("("+item.Detail+")")
		}

		lines = append(lines, label+" "+bar+" "+pct+detail)
	}

	panel := Panel{
		Title:   p.Title,
		Content: strings.Join(lines, "\n"),
		Width:   p.Width,
		Active:  p.Active,
	}
	return panel.Render()
}

// SeriesPanel draws one horizontal bar per series point for each column.
type SeriesPanel struct {
	Title   string
	Columns []string
	Points  []analytics.Point
	Width   int
}

// Render renders the series panel
func (p SeriesPanel) Render() string {
	if len(p.Points) == 0 {
		panel := Panel{
			Title:   p.Title,
			Content: tui.MutedStyle.Render("No activity yet"),
			Width:   p.Width,
		}
		return panel.Render()
	}

	labelWidth := 0
	for _, pt := range p.Points {
		labelWidth = max(labelWidth, runewidth.StringWidth(pt.Label))
	}

	maxValue := make([]float64, len(p.Columns))
	for _, pt := range p.Points {
		for i := range p.Columns {
			if i < len(pt.Values) {
				maxValue[i] = max(maxValue[i], pt.Values[i])
			}
		}
	}

	// label, then per column: bar + value
	barWidth := 12
	if p.Width > 0 && len(p.Columns) > 0 {
		avail := p.Width - 6 - labelWidth - len(p.Columns)*8
		barWidth = max(4, min(24, avail/len(p.Columns)))
	}
	styles := []lipgloss.Style{tui.SubtitleStyle, tui.SuccessStyle}

	var lines []string
	header := padRight("", labelWidth)
	for _, col := range p.Columns {
		header += "  " + padRight(col, barWidth+6)
	}
	lines = append(lines, tui.MutedStyle.Render(header))

	for _, pt := range p.Points {
		line := tui.LabelStyle.Render(padRight(pt.Label, labelWidth))
		for i := range p.Columns {
			var v float64
			if i < len(pt.Values) {
				v = pt.Values[i]
			}
			n := 0
			if maxValue[i] > 0 {
				n = int(v / maxValue[i] * float64(barWidth))
			}
			style := styles[i%len(styles)]
			bar := style.Render(strings.Repeat("▇", n)) + strings.Repeat(" ", barWidth-n)
			line += "  " + bar + " " + padRight(fmt.Sprintf("%.0f", v), 5)
		}
		lines = append(lines, line)
	}

	panel := Panel{
		Title:   p.Title,
		Content: strings.Join(lines, "\n"),
		Width:   p.Width,
	}
	return panel.Render()
}

// HelpBar renders a help bar at the bottom of the screen
func HelpBar(items []HelpItem) string {
	var parts []string
	for _, item := range items {
		key := lipgloss.NewStyle().
			Bold(true).
			Foreground(tui.ColorPrimary).
			Render("[" + item.Key + "]")
		label := tui.MutedStyle.Render(item.Label)
		parts = append(parts, key+label)
	}
	return strings.Join(parts, "  ")
}

// HelpItem represents a keyboard shortcut
type HelpItem struct {
	Key   string
	Label string
}

// Helper functions

func padRight(s string, length int) string {
	w := runewidth.StringWidth(s)
	if w >= length {
		return s
	}
	return s + strings.Repeat(" ", length-w)
}
