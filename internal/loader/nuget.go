package loader

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/oss-compliance/license-report/internal/model"
)

// ReadNuGetLicenses reads a NuGet license JSON document and flattens it into
// a table. The document is expected to hold an array of license records
// (objects with arbitrary, possibly nested keys).
//
// Tolerated shapes, mirroring the upstream exporter's loose output:
//   - absent file        -> empty table, no error
//   - null document      -> empty table
//   - empty array        -> empty table
//   - single object      -> one-record table
//
// Anything else that exists on disk but cannot be read as records is a fatal
// parse error for the run.
func ReadNuGetLicenses(path string) (model.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Report input path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return model.Table{}, nil
		}
		return model.Table{}, fmt.Errorf("failed to read NuGet license file: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return model.Table{}, fmt.Errorf("%s: %w", path, ErrInvalidJSON)
	}

	doc := gjson.ParseBytes(data)
	records, err := recordsFromDocument(doc)
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: %w", path, err)
	}

	return FlattenRecords(records), nil
}

// recordsFromDocument extracts the record sequence from the top-level JSON
// value. Every element of an array document must itself be a record.
func recordsFromDocument(doc gjson.Result) ([]gjson.Result, error) {
	switch {
	case doc.Type == gjson.Null:
		return nil, nil
	case doc.IsArray():
		records := doc.Array()
		for _, record := range records {
			if !record.IsObject() {
				return nil, ErrNotRecordArray
			}
		}
		return records, nil
	case doc.IsObject():
		return []gjson.Result{doc}, nil
	default:
		return nil, ErrNotRecordArray
	}
}
