package formatting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToCleanCSV renders a table as comma-delimited text with a header row and
// no index column. Columns whose every cell is missing, an empty string, or
// a numeric zero are dropped; an all-"0" column of textual cells is kept so
// categorical zero labels survive. Missing cells render as empty fields.
// The function is idempotent: normalizing already-clean CSV reproduces it.
func ToCleanCSV(t *Table) string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}

	keep := make([]int, 0, len(t.Columns))
	for i := range t.Columns {
		if !columnDroppable(t, i) {
			keep = append(keep, i)
		}
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := make([]string, len(keep))
	for j, i := range keep {
		header[j] = t.Columns[i]
	}
	_ = w.Write(header)

	record := make([]string, len(keep))
	for _, row := range t.Rows {
		for j, i := range keep {
			var cell any
			if i < len(row) {
				cell = row[i]
			}
			record[j] = renderCell(cell)
		}
		_ = w.Write(record)
	}
	w.Flush()

	return buf.String()
}

// columnDroppable reports whether column i carries no information: every
// cell nil, empty string, or numeric zero. A zero encoded as text does not
// count against the column.
func columnDroppable(t *Table, i int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	for _, row := range t.Rows {
		var cell any
		if i < len(row) {
			cell = row[i]
		}
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok {
			if s == "" {
				continue
			}
			return false
		}
		if !isNumericZero(cell) {
			return false
		}
	}
	return true
}

func isNumericZero(cell any) bool {
	switch v := cell.(type) {
	case int:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case float32:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

func renderCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseCSV reads comma-delimited text back into a table of string cells.
// Used to round-trip normalized output.
func ParseCSV(data string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := NewTable(records[0]...)
	for _, rec := range records[1:] {
		cells := make([]any, len(rec))
		for i, c := range rec {
			cells[i] = c
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// FormatDateString reduces an ISO datetime string to YYYY-MM-DD. Falls back
// to the first ten characters when the value does not parse.
func FormatDateString(s string) string {
	if s == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(s, "Z")
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
