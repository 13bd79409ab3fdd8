package model

import (
	"fmt"
	"strings"
)

// Table is an ordered tabular dataset: named columns plus rows of cells.
// It is the in-memory shape shared by both report inputs: the flattened
// NuGet record set and the Rush dependency CSV.
//
// Design decision: We use a positional [][]any layout rather than
// []map[string]any because column order is part of the contract
// (the workbook must preserve input column order), and maps would
// lose it. Cells are `any` so that values parsed from JSON keep their
// type (string, float64, bool, nil) while CSV cells stay strings.
type Table struct {
	// Columns holds the column names in input order.
	Columns []string `json:"columns"`

	// Rows holds the data rows. Each row has len(Columns) cells;
	// cells for keys absent in a record are nil.
	Rows [][]any `json:"rows"`
}

// IsEmpty reports whether the table has no data rows.
// A table with columns but no rows is empty; an empty table does not
// produce a worksheet in the output workbook.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// RowCount returns the number of data rows (excluding the header).
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t Table) ColumnCount() int {
	return len(t.Columns)
}

// Cell returns the cell at the given row and column index.
// It returns nil if the indexes are out of range, which happens for
// ragged rows that are shorter than the header.
func (t Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// CellString returns the cell at the given position rendered as a string.
// nil cells render as the empty string.
func (t Table) CellString(row, col int) string {
	v := t.Cell(row, col)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FindColumn returns the index of the first column whose name matches any
// of the candidates, compared case-insensitively. Candidates are checked
// in order, so earlier candidates win over later ones.
//
// This supports the heuristic package extraction: upstream tooling is not
// consistent about column naming ("name" vs "PackageName"), and the report
// generator must not hard-fail over a label difference.
func (t Table) FindColumn(candidates ...string) (int, bool) {
	for _, candidate := range candidates {
		for i, col := range t.Columns {
			if strings.EqualFold(col, candidate) {
				return i, true
			}
		}
	}
	return 0, false
}
