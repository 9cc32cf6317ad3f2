// Package importer parses uploaded broker execution files into
// canonical fills. The whole file is accepted or rejected: individual
// malformed rows are skipped, but an unsupported extension, missing
// columns, an empty row set, or zero surviving fills reject the upload.
package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"tradejournal/internal/engine"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// requiredColumns is the exact header set a broker export must carry.
var requiredColumns = []string{"B/S", "avgPrice", "filledQty", "Fill Time", "Date"}

// ParseFile decodes an uploaded file into raw rows by extension.
func ParseFile(filename string, data []byte) ([]engine.RawRow, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "csv":
		return parseCSV(filename, data)
	case "xlsx", "xls":
		return parseXLSX(filename, data)
	default:
		return nil, apperrors.NewImportError(filename,
			fmt.Sprintf("unsupported file type: .%s, upload CSV or XLSX", ext), nil)
	}
}

// ParseFills runs the full normalization pipeline: decode rows, filter
// them into canonical fills, and reject the upload when nothing valid
// remains.
func ParseFills(filename string, data []byte) ([]models.Fill, error) {
	rows, err := ParseFile(filename, data)
	if err != nil {
		return nil, err
	}

	fills := engine.NormalizeRows(rows)
	if len(fills) == 0 {
		return nil, apperrors.NewImportError(filename, "no valid fills found in file", nil)
	}
	return fills, nil
}

// checkHeader verifies every required column is present, naming the
// missing ones in sorted order.
func checkHeader(filename string, header []string) error {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.NewImportError(filename,
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}
	return nil
}
