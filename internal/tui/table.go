package tui

import (
	"fmt"
	"io"
	"strings"
)

// columnGap separates table columns.
const columnGap = "  "

// Table renders rows under a bold header with columns sized to the widest
// visible cell. Styled cells are measured without their escape codes.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		headers: headers,
	}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Widths returns the computed column widths.
func (t *Table) Widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// Render writes the header and every row.
func (t *Table) Render() error {
	if len(t.headers) == 0 {
		return nil
	}
	widths := t.Widths()

	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = t.styles.Header.Render(padRight(h, widths[i]))
	}
	if _, err := fmt.Fprintln(t.w, strings.TrimRight(strings.Join(header, columnGap), " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = t.styles.Cell.Render(padRight(cell, widths[i]))
		}
		if _, err := fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, columnGap), " ")); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the rows as header-keyed maps for structured output.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]string, len(t.headers))
		for i, h := range t.headers {
			rec[strings.ToLower(h)] = stripANSI(row[i])
		}
		records = append(records, rec)
	}
	return records
}
