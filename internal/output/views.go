package output

import (
	"strings"

	"github.com/bargainbaas/bargain-cli/internal/analytics"
	"github.com/bargainbaas/bargain-cli/internal/session"
	"github.com/bargainbaas/bargain-cli/internal/tenant"
)

// Analytics is the printable form of an analytics snapshot.
type Analytics struct {
	Loaded   bool               `json:"loaded" yaml:"loaded"`
	Counters map[string]float64 `json:"counters" yaml:"counters"`
	Series   []map[string]any   `json:"series" yaml:"series"`
}

// NewAnalytics converts a snapshot. Series entries are keyed by column name
// plus "date".
func NewAnalytics(snap analytics.Snapshot) Analytics {
	a := Analytics{
		Loaded:   snap.Loaded,
		Counters: snap.Counters,
		Series:   make([]map[string]any, 0, len(snap.Series)),
	}
	for _, p := range snap.Series {
		row := map[string]any{"date": p.Label}
		for i, col := range analytics.Columns {
			if i < len(p.Values) {
				row[col] = p.Values[i]
			}
		}
		a.Series = append(a.Series, row)
	}
	return a
}

func (a Analytics) Sections() []Section {
	snap := analytics.Snapshot{Counters: a.Counters}
	counters := Section{Title: "Overview", Headers: []string{"Metric", "Value"}}
	for _, def := range analytics.Counters {
		counters.Rows = append(counters.Rows, []string{def.Label, snap.FormatCounter(def)})
	}

	headers := []string{"Date"}
	for _, col := range analytics.Columns {
		headers = append(headers, strings.ToUpper(col[:1])+col[1:])
	}
	series := Section{Title: "Daily activity", Headers: headers}
	for _, row := range a.Series {
		label, _ := row["date"].(string)
		r := []string{label}
		for _, col := range analytics.Columns {
			v, _ := row[col].(float64)
			r = append(r, formatFloat(v))
		}
		series.Rows = append(series.Rows, r)
	}
	return []Section{counters, series}
}

// Configuration is the printable tenant configuration. The API key is masked
// unless ShowKey is set.
type Configuration struct {
	PolicyEndpoint string `json:"client_policy_api_endpoint" yaml:"client_policy_api_endpoint"`
	APIKey         string `json:"client_api_key,omitempty" yaml:"client_api_key,omitempty"`
}

// NewConfiguration converts a tenant configuration.
func NewConfiguration(cfg *tenant.Configuration, showKey bool) Configuration {
	c := Configuration{PolicyEndpoint: cfg.PolicyEndpoint, APIKey: cfg.APIKey}
	if !showKey {
		c.APIKey = MaskKey(cfg.APIKey)
	}
	return c
}

func (c Configuration) Sections() []Section {
	endpoint := c.PolicyEndpoint
	if endpoint == "" {
		endpoint = "(not set)"
	}
	return []Section{{
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Policy endpoint", endpoint},
			{"API key", c.APIKey},
		},
	}}
}

// Identity is the printable stored credential.
type Identity struct {
	Email         string `json:"email" yaml:"email"`
	Name          string `json:"name" yaml:"name"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Backend       string `json:"backend" yaml:"backend"`
}

// NewIdentity converts a credential without exposing the token.
func NewIdentity(cred session.Credential, backend string) Identity {
	return Identity{
		Email:         cred.Email,
		Name:          cred.DisplayName,
		Authenticated: cred.Authenticated(),
		Backend:       backend,
	}
}

func (i Identity) Sections() []Section {
	status := "not logged in"
	if i.Authenticated {
		status = "logged in"
	}
	return []Section{{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Status", status},
			{"Email", i.Email},
			{"Name", i.Name},
			{"Session backend", i.Backend},
		},
	}}
}

// MaskKey keeps a recognizable prefix and the last four characters.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	prefix := ""
	if i := strings.LastIndex(key, "_"); i > 0 && i < len(key)-4 {
		prefix = key[:i+1]
	}
	hidden := len(key) - len(prefix) - 4
	return prefix + strings.Repeat("*", hidden) + key[len(key)-4:]
}
