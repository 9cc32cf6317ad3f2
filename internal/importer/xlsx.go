package importer

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"tradejournal/internal/engine"
	apperrors "tradejournal/internal/errors"
)

func parseXLSX(filename string, data []byte) ([]engine.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewImportError(filename, "unreadable workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	allRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewImportError(filename, "unreadable worksheet", err)
	}
	if len(allRows) < 2 {
		return nil, apperrors.NewImportError(filename, "file is empty", nil)
	}

	header := allRows[0]
	if err := checkHeader(filename, header); err != nil {
		return nil, err
	}

	// Header cells come back with whatever padding the workbook carries;
	// lookups use the trimmed names checkHeader validated.
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]engine.RawRow, 0, len(allRows)-1)
	for _, row := range allRows[1:] {
		rows = append(rows, engine.RawRow{
			Side:     cell(row, "B/S"),
			Qty:      cell(row, "filledQty"),
			Price:    cell(row, "avgPrice"),
			FillTime: cell(row, "Fill Time"),
			Date:     cell(row, "Date"),
		})
	}
	return rows, nil
}
