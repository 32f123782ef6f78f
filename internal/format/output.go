package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Table is implemented by CLI payloads that have a natural row layout, which
// is what the csv format renders.
type Table interface {
	TableHeader() []string
	TableRows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - csv (payload must implement Table)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "csv":
		return WriteCSV(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: We intentionally keep output strict JSON only. If you need to
// communicate how to fetch more data, use a `meta` object or `_hint` fields.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteCSV writes an RFC 4180 table: one header row, then data rows.
func WriteCSV(w io.Writer, v any) error {
	t, ok := v.(Table)
	if !ok {
		return fmt.Errorf("csv output not supported for %T", v)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.TableHeader()); err != nil {
		return err
	}
	for _, row := range t.TableRows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
