package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/bargainbaas/bargain-cli/internal/analytics"
	"github.com/bargainbaas/bargain-cli/internal/tui"
)

// RefreshInterval is the minimum gap between manual refreshes.
const RefreshInterval = 2 * time.Second

// Config wires the dashboard.
type Config struct {
	Fetcher *analytics.Fetcher

	// Account is shown in the title bar, e.g. the stored email.
	Account string
	Version string

	// Limiter overrides the refresh throttle (tests).
	Limiter *rate.Limiter
}

// Model is the BubbleTea model for the analytics dashboard. It starts on
// zero placeholders and fills in when the one-shot fetch returns; a failed
// fetch leaves whatever was on screen.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	fetcher *analytics.Fetcher
	limiter *rate.Limiter
	spinner spinner.Model

	account string
	version string

	snap     analytics.Snapshot
	fetching bool
	gen      int
	notice   string

	width  int
	height int
}

// SnapshotMsg carries a finished fetch. Gen identifies the mount it belongs to.
type SnapshotMsg struct {
	Snap analytics.Snapshot
	Gen  int
}

// NewModel creates the dashboard. Quitting cancels ctx-derived requests.
func NewModel(ctx context.Context, cfg Config) Model {
	ctx, cancel := context.WithCancel(ctx)
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(RefreshInterval), 1)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SpinnerStyle

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		fetcher: cfg.Fetcher,
		limiter: limiter,
		spinner: s,
		account: cfg.Account,
		version: cfg.Version,
		snap:    cfg.Fetcher.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	// The initial mount consumes the limiter token so an immediate 'r' is throttled.
	m.limiter.Allow()
	return tea.Batch(m.spinner.Tick, fetchCmd(m.ctx, m.fetcher, m.gen))
}

func fetchCmd(ctx context.Context, f *analytics.Fetcher, gen int) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snap: f.Fetch(ctx), Gen: gen}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "r":
			if !m.limiter.Allow() {
				m.notice = fmt.Sprintf("Refresh is limited to once every %s", RefreshInterval)
				return m, nil
			}
			m.notice = ""
			m.gen++
			m.fetching = true
			return m, fetchCmd(m.ctx, m.fetcher, m.gen)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		if msg.Gen != m.gen || m.ctx.Err() != nil {
			return m, nil
		}
		m.fetching = false
		m.snap = msg.Snap
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Snapshot returns what is currently displayed.
func (m Model) Snapshot() analytics.Snapshot {
	return m.snap
}

func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	var sections []string
	sections = append(sections, m.renderTitle(width))

	panelWidth := width - 4
	counters := KeyValuePanel{Title: "OVERVIEW", Width: panelWidth}
	for _, def := range analytics.Counters {
		if def.Name == analytics.ConversionRate {
			continue
		}
		counters.Items = append(counters.Items, KeyValue{Key: def.Label, Value: m.snap.FormatCounter(def)})
	}

	conv := m.snap.Counter(analytics.ConversionRate)
	rates := RatePanel{
		Title: "CONVERSION",
		Width: panelWidth,
		Items: []RateItem{{
			Label:   "Rate",
			Percent: conv,
			Detail: fmt.Sprintf("%.0f of %.0f",
				m.snap.Counter(analytics.TotalDealsClosed), m.snap.Counter(analytics.TotalNegotiations)),
		}},
	}
	sections = append(sections, counters.Render(), rates.Render())

	series := SeriesPanel{
		Title:   "DAILY ACTIVITY",
		Columns: analytics.Columns,
		Points:  m.snap.Series,
		Width:   panelWidth,
	}
	sections = append(sections, series.Render())

	help := HelpBar([]HelpItem{
		{Key: "r", Label: "efresh"},
		{Key: "q", Label: "uit"},
	})
	sections = append(sections, "\n"+help, m.renderStatusLine())

	return strings.Join(sections, "\n")
}

func (m Model) renderTitle(width int) string {
	title := "BARGAINBAAS ANALYTICS"
	if m.account != "" {
		title += " · " + m.account
	}
	if m.version != "" {
		title += " (" + m.version + ")"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(tui.ColorPrimary).
		Width(width).
		Align(lipgloss.Center).
		Render(title)
}

func (m Model) renderStatusLine() string {
	var parts []string
	switch {
	case !m.snap.Loaded:
		parts = append(parts, m.spinner.View()+tui.SpinnerStyle.Render(" Loading analytics..."))
	case m.fetching:
		parts = append(parts, m.spinner.View()+tui.SpinnerStyle.Render(" Refreshing..."))
	default:
		parts = append(parts, tui.MutedStyle.Render("Last update: "+m.snap.FetchedAt.Format("15:04:05")))
	}
	if m.notice != "" {
		parts = append(parts, tui.WarningStyle.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

// Run runs the dashboard until the user quits.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(NewModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
