// Package output renders command results as a table, JSON, YAML or CSV.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"
)

// Formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// Tabular is implemented by results that have a table/CSV form. A result may
// carry several sections (e.g. headline counters and a daily series).
type Tabular interface {
	Sections() []Section
}

// Section is one titled table.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Write renders v in format. v is marshalled as-is for json and yaml and must
// implement Tabular for table and csv.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV, FormatTable, "":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T has no tabular form", v)
		}
		if format == FormatCSV {
			return writeCSV(w, t.Sections())
		}
		return writeTables(w, t.Sections())
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTables(w io.Writer, sections []Section) error {
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Title != "" {
			fmt.Fprintln(w, s.Title)
		}
		table := tablewriter.NewWriter(w)
		table.Header(s.Headers)
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		if err := table.Bulk(s.Rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// writeCSV separates sections with an empty line.
func writeCSV(w io.Writer, sections []Section) error {
	cw := csv.NewWriter(w)
	for i, s := range sections {
		if i > 0 {
			cw.Flush()
			fmt.Fprintln(w)
		}
		if err := cw.Write(s.Headers); err != nil {
			return err
		}
		if err := cw.WriteAll(s.Rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
