// Package analytics turns the tenant analytics payload into a Snapshot the
// CLI and dashboard can always render, whatever the backend sent.
package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Counter names as sent by the backend.
const (
	TotalNegotiations = "total_negotiations"
	TotalDealsClosed  = "total_deals_closed"
	TotalVolume       = "total_volume"
	ConversionRate    = "conversion_rate"
)

// Series column names.
const (
	ColumnChats = "chats"
	ColumnDeals = "deals"
)

// CounterDef describes one headline number.
type CounterDef struct {
	Name  string
	Label string
	// Format renders the value for display.
	Format func(v float64) string
}

// Counters lists the headline numbers in display order.
var Counters = []CounterDef{
	{Name: TotalNegotiations, Label: "Total Negotiations", Format: formatInt},
	{Name: TotalDealsClosed, Label: "Deals Closed", Format: formatInt},
	{Name: TotalVolume, Label: "Total Volume", Format: formatMoney},
	{Name: ConversionRate, Label: "Conversion Rate", Format: formatPercent},
}

// Columns lists the series value columns in order.
var Columns = []string{ColumnChats, ColumnDeals}

// Point is one entry of the time series.
type Point struct {
	Label  string    `json:"label" yaml:"label"`
	Values []float64 `json:"values" yaml:"values"`
}

// Snapshot is the decoded analytics view.
type Snapshot struct {
	Counters map[string]float64 `json:"counters" yaml:"counters"`
	Series   []Point            `json:"series" yaml:"series"`

	// Loaded is false for the placeholder shown before the first successful fetch.
	Loaded    bool      `json:"loaded" yaml:"loaded"`
	FetchedAt time.Time `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}

// Placeholder returns the zero-valued snapshot.
func Placeholder() Snapshot {
	counters := make(map[string]float64, len(Counters))
	for _, c := range Counters {
		counters[c.Name] = 0
	}
	return Snapshot{Counters: counters, Series: []Point{}}
}

// Counter returns a counter value, 0 when absent.
func (s Snapshot) Counter(name string) float64 {
	return s.Counters[name]
}

// FormatCounter renders a counter with its display format.
func (s Snapshot) FormatCounter(def CounterDef) string {
	return def.Format(s.Counter(def.Name))
}

// Decode maps a raw payload onto a Snapshot. It never fails: a missing,
// mistyped or non-finite field becomes zero, a missing chart_data becomes an
// empty series, and series entries that aren't objects are skipped.
func Decode(raw []byte) Snapshot {
	snap := Placeholder()
	snap.Loaded = true

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return snap
	}

	for _, c := range Counters {
		snap.Counters[c.Name] = number(payload[c.Name])
	}

	items, _ := payload["chart_data"].([]any)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := Point{Label: label(obj["date"]), Values: make([]float64, len(Columns))}
		for i, col := range Columns {
			p.Values[i] = number(obj[col])
		}
		snap.Series = append(snap.Series, p)
	}
	return snap
}

func number(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func label(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func formatInt(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	if s == "-0" {
		s = "0"
	}
	return groupThousands(s)
}

func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, cents, _ := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		whole = whole[1:]
		if whole != "0" || cents != "00" {
			sign = "-"
		}
	}
	return "$" + sign + groupThousands(whole) + "." + cents
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
