package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bargainbaas/bargain-cli/internal/analytics"
)

type stubSource struct {
	raw   string
	err   error
	calls int
}

func (s *stubSource) Analytics(ctx context.Context) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.raw), nil
}

const samplePayload = `{
	"total_negotiations": 380,
	"total_deals_closed": 128,
	"total_volume": 10816.5,
	"conversion_rate": 33.68,
	"chart_data": [{"date": "2026-03-01", "chats": 42, "deals": 12}]
}`

func newTestModel(src *stubSource, limiter *rate.Limiter) Model {
	f := analytics.NewFetcher(analytics.FetcherConfig{Source: src})
	return NewModel(context.Background(), Config{Fetcher: f, Account: "ops@shop.test", Limiter: limiter})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialViewShowsPlaceholders(t *testing.T) {
	m := newTestModel(&stubSource{raw: samplePayload}, nil)
	view := m.View()

	assert.Contains(t, view, "Loading analytics")
	assert.Contains(t, view, "$0.00")
	assert.Contains(t, view, "0.0%")
	assert.Contains(t, view, "No activity yet")
}

func TestSnapshotFillsView(t *testing.T) {
	src := &stubSource{raw: samplePayload}
	m := newTestModel(src, nil)

	msg := fetchCmd(context.Background(), m.fetcher, 0)()
	updated, _ := m.Update(msg)
	m = updated.(Model)

	require.True(t, m.Snapshot().Loaded)
	view := m.View()
	assert.Contains(t, view, "380")
	assert.Contains(t, view, "$10,816.50")
	assert.Contains(t, view, "33.7%")
	assert.Contains(t, view, "2026-03-01")
	assert.NotContains(t, view, "Loading analytics")
	assert.Contains(t, view, "Last update")
}

func TestFailedFetchKeepsPlaceholders(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	m := newTestModel(src, nil)

	updated, _ := m.Update(fetchCmd(context.Background(), m.fetcher, 0)())
	m = updated.(Model)

	assert.False(t, m.Snapshot().Loaded)
	assert.Contains(t, m.View(), "Loading analytics")
}

func TestStaleSnapshotIgnored(t *testing.T) {
	m := newTestModel(&stubSource{raw: samplePayload}, rate.NewLimiter(rate.Inf, 1))

	updated, _ := m.Update(key("r"))
	m = updated.(Model)
	require.Equal(t, 1, m.gen)

	snap := analytics.Decode([]byte(samplePayload))
	updated, _ = m.Update(SnapshotMsg{Snap: snap, Gen: 0})
	m = updated.(Model)
	assert.False(t, m.Snapshot().Loaded)

	updated, _ = m.Update(SnapshotMsg{Snap: snap, Gen: 1})
	m = updated.(Model)
	assert.True(t, m.Snapshot().Loaded)
}

func TestRefreshIsRateLimited(t *testing.T) {
	m := newTestModel(&stubSource{raw: samplePayload}, rate.NewLimiter(rate.Every(time.Hour), 1))
	m.Init()

	updated, cmd := m.Update(key("r"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Refresh is limited")
}

func TestQuitCancelsRequests(t *testing.T) {
	m := newTestModel(&stubSource{raw: samplePayload}, nil)

	updated, cmd := m.Update(key("q"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)

	// A result arriving after quit is dropped.
	updated, _ = m.Update(SnapshotMsg{Snap: analytics.Decode([]byte(samplePayload))})
	assert.False(t, updated.(Model).Snapshot().Loaded)
}

func TestSeriesPanelEmpty(t *testing.T) {
	p := SeriesPanel{Title: "DAILY ACTIVITY", Columns: analytics.Columns, Width: 60}
	assert.Contains(t, p.Render(), "No activity yet")
}
