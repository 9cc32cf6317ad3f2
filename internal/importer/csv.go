package importer

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"

	"tradejournal/internal/engine"
	apperrors "tradejournal/internal/errors"
)

// csvRow maps the broker export columns onto string fields; value
// coercion happens later in the normalizer.
type csvRow struct {
	Side     string `csv:"B/S"`
	Qty      string `csv:"filledQty"`
	Price    string `csv:"avgPrice"`
	FillTime string `csv:"Fill Time"`
	Date     string `csv:"Date"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseCSV(filename string, data []byte) ([]engine.RawRow, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// gocsv cannot report which tagged columns a header lacks, and the
	// rejection must name them, so the header is checked separately.
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return nil, apperrors.NewImportError(filename, "file is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewImportError(filename, "unreadable CSV header", err)
	}
	if err := checkHeader(filename, header); err != nil {
		return nil, err
	}

	var decoded []*csvRow
	if err := gocsv.UnmarshalBytes(data, &decoded); err != nil {
		return nil, apperrors.NewImportError(filename, "malformed CSV", err)
	}
	if len(decoded) == 0 {
		return nil, apperrors.NewImportError(filename, "file is empty", nil)
	}

	rows := make([]engine.RawRow, 0, len(decoded))
	for _, r := range decoded {
		rows = append(rows, engine.RawRow{
			Side:     r.Side,
			Qty:      r.Qty,
			Price:    r.Price,
			FillTime: r.FillTime,
			Date:     r.Date,
		})
	}
	return rows, nil
}
