// Package naics maps NAICS industry codes to their human-readable titles.
package naics

// UnknownLabel is the title given to codes missing from a Table.
const UnknownLabel = "tbd"

// Table is an immutable NAICS code → title mapping. Build it once and share
// it read-only; a nil *Table behaves as an empty table.
type Table struct {
	titles map[string]string
}

// Build constructs a Table from (code, title) rows. Rows with fewer than two
// columns are skipped. When a code appears more than once the last row wins,
// so the result depends on row order.
func Build(rows [][]string) *Table {
	t := &Table{titles: make(map[string]string, len(rows))}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		t.titles[row[0]] = row[1]
	}
	return t
}

// Lookup returns the title for code. The bool is false on a miss.
func (t *Table) Lookup(code string) (string, bool) {
	if t == nil {
		return "", false
	}
	title, ok := t.titles[code]
	return title, ok
}

// Label returns the title for code, or UnknownLabel when the code is missing
// or has an empty title.
func (t *Table) Label(code string) string {
	if title, ok := t.Lookup(code); ok && title != "" {
		return title
	}
	return UnknownLabel
}

// Len returns the number of distinct codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.titles)
}
