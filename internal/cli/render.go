package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/biyonik/fluentdb"
	"github.com/biyonik/fluentdb/internal/config"
)

func renderRecords(w io.Writer, format string, cols []string, records []fluentdb.Record) error {
	if format == config.OutputJSON {
		return renderJSON(w, records)
	}
	return renderTable(w, cols, records)
}

func renderTable(w io.Writer, cols []string, records []fluentdb.Record) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Column names are printed as stored.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, rec := range records {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(rec[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(records))
	return nil
}

func renderJSON(w io.Writer, records []fluentdb.Record) error {
	if records == nil {
		records = []fluentdb.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
