package loader

import (
	"github.com/tidwall/gjson"

	"github.com/oss-compliance/license-report/internal/model"
)

// FlattenRecords projects a sequence of possibly nested JSON records into a
// flat table: one row per record, one column per distinct (dotted) key path.
//
// Rules:
//   - Nested object keys become dotted column names ("license.type").
//   - Column order is first-appearance order across records, in input order.
//   - A record missing a key gets a nil cell in that column.
//   - Arrays and empty objects are not descended into; they are carried as
//     their raw JSON text so no data is dropped.
//
// Design decision: We traverse gjson.Result values rather than decoding into
// map[string]any because Go maps do not preserve key order, and the output
// workbook must keep the input column order. gjson iterates object members
// in document order.
func FlattenRecords(records []gjson.Result) model.Table {
	columns := make([]string, 0)
	columnIndex := make(map[string]int)

	// cells holds one map per record; rows are materialized after the full
	// column set is known.
	cells := make([]map[string]any, 0, len(records))

	for _, record := range records {
		row := make(map[string]any)
		flattenInto("", record, func(key string, value any) {
			if _, ok := columnIndex[key]; !ok {
				columnIndex[key] = len(columns)
				columns = append(columns, key)
			}
			row[key] = value
		})
		cells = append(cells, row)
	}

	rows := make([][]any, len(cells))
	for i, row := range cells {
		cols := make([]any, len(columns))
		for key, value := range row {
			cols[columnIndex[key]] = value
		}
		rows[i] = cols
	}

	return model.Table{Columns: columns, Rows: rows}
}

// flattenInto walks one record depth-first and emits (dotted key, cell value)
// pairs in document order.
func flattenInto(prefix string, value gjson.Result, emit func(key string, value any)) {
	value.ForEach(func(key, child gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}

		if child.IsObject() && len(child.Map()) > 0 {
			flattenInto(name, child, emit)
			return true
		}

		emit(name, cellValue(child))
		return true
	})
}

// cellValue converts a scalar JSON value into its Go cell representation.
// Composite values (arrays, empty objects) keep their raw JSON text.
func cellValue(v gjson.Result) any {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		return v.Raw
	}
}
