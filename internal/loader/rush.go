package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/oss-compliance/license-report/internal/model"
)

// ReadRushDependencies reads a Rush dependency CSV file into a table.
// The first row is the header; remaining rows become data rows with string
// cells. An absent file, an empty file, and a header-only file all yield an
// empty table. Ragged or otherwise invalid CSV content is a fatal parse
// error (encoding/csv enforces a consistent field count per record).
func ReadRushDependencies(path string) (model.Table, error) {
	f, err := os.Open(path) //nolint:gosec // Report input path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return model.Table{}, nil
		}
		return model.Table{}, fmt.Errorf("failed to open Rush dependency file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: invalid CSV: %w", path, err)
	}

	if len(records) == 0 {
		return model.Table{}, nil
	}

	columns := make([]string, len(records[0]))
	for i, header := range records[0] {
		columns[i] = strings.TrimSpace(header)
	}

	rows := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		rows = append(rows, row)
	}

	return model.Table{Columns: columns, Rows: rows}, nil
}
