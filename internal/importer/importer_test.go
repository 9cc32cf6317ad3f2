package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

const validCSV = `B/S,avgPrice,filledQty,Fill Time,Date
Buy,5000.25,2,1/15/2024 09:30:00,1/15/2024
Sell,5010.50,2,1/15/2024 09:45:00,1/15/2024
`

func TestParseFillsCSV(t *testing.T) {
	fills, err := ParseFills("export.csv", []byte(validCSV))
	require.NoError(t, err)
	require.Len(t, fills, 2)

	assert.Equal(t, models.SideBuy, fills[0].Side)
	assert.Equal(t, 2, fills[0].Qty)
	assert.Equal(t, 5000.25, fills[0].Price)
	assert.Equal(t, "09:30:00", fills[0].Time)
	assert.Equal(t, "2024-01-15", fills[0].Date)
	assert.Equal(t, models.SideSell, fills[1].Side)
}

func TestParseFillsStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(validCSV)...)
	fills, err := ParseFills("export.csv", data)
	require.NoError(t, err)
	assert.Len(t, fills, 2)
}

func TestParseFillsExtraColumnsIgnored(t *testing.T) {
	csv := `Account,B/S,avgPrice,filledQty,Fill Time,Date,orderId
SIM1,Buy,100,1,1/15/2024 09:30:00,1/15/2024,42
SIM1,Sell,101,1,1/15/2024 09:31:00,1/15/2024,43
`
	fills, err := ParseFills("export.csv", []byte(csv))
	require.NoError(t, err)
	assert.Len(t, fills, 2)
}

func TestParseFillsMissingColumns(t *testing.T) {
	csv := `B/S,avgPrice,Fill Time
Buy,100,1/15/2024 09:30:00
`
	_, err := ParseFills("export.csv", []byte(csv))
	require.Error(t, err)

	var importErr *apperrors.ImportError
	require.True(t, apperrors.As(err, &importErr))
	// Missing columns named in sorted order.
	assert.Contains(t, importErr.Reason, "Date, filledQty")
}

func TestParseFillsUnsupportedExtension(t *testing.T) {
	_, err := ParseFills("export.pdf", []byte("whatever"))
	require.Error(t, err)

	var importErr *apperrors.ImportError
	require.True(t, apperrors.As(err, &importErr))
	assert.Contains(t, importErr.Reason, "unsupported file type")
}

func TestParseFillsEmptyFile(t *testing.T) {
	_, err := ParseFills("export.csv", nil)
	require.Error(t, err)

	var importErr *apperrors.ImportError
	require.True(t, apperrors.As(err, &importErr))
	assert.Contains(t, importErr.Reason, "empty")
}

func TestParseFillsHeaderOnly(t *testing.T) {
	_, err := ParseFills("export.csv", []byte("B/S,avgPrice,filledQty,Fill Time,Date\n"))
	require.Error(t, err)
}

func TestParseFillsNoValidRows(t *testing.T) {
	csv := `B/S,avgPrice,filledQty,Fill Time,Date
,100,1,1/15/2024 09:30:00,1/15/2024
Buy,not-a-price,1,1/15/2024 09:30:00,1/15/2024
Buy,100,0,1/15/2024 09:30:00,1/15/2024
`
	_, err := ParseFills("export.csv", []byte(csv))
	require.Error(t, err)

	var importErr *apperrors.ImportError
	require.True(t, apperrors.As(err, &importErr))
	assert.Contains(t, importErr.Reason, "no valid fills")
}

func TestParseFillsSkipsMalformedRowsButKeepsGoodOnes(t *testing.T) {
	csv := `B/S,avgPrice,filledQty,Fill Time,Date
Buy,100,1,1/15/2024 09:30:00,1/15/2024
,100,1,1/15/2024 09:31:00,1/15/2024
Sell,101,1,1/15/2024 09:32:00,1/15/2024
`
	fills, err := ParseFills("export.csv", []byte(csv))
	require.NoError(t, err)
	assert.Len(t, fills, 2)
}

func buildWorkbook(t *testing.T, header []string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, ref, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseFillsXLSX(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"B/S", "avgPrice", "filledQty", "Fill Time", "Date"},
		[][]interface{}{
			{"Buy", "5000.25", "2", "1/15/2024 09:30:00", "1/15/2024"},
			{"Sell", "5010.50", "2", "1/15/2024 09:45:00", "1/15/2024"},
		})

	fills, err := ParseFills("export.xlsx", data)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, models.SideBuy, fills[0].Side)
	assert.Equal(t, 5000.25, fills[0].Price)
	assert.Equal(t, "09:30:00", fills[0].Time)
	assert.Equal(t, "2024-01-15", fills[0].Date)
}

func TestParseFillsXLSXPaddedHeaders(t *testing.T) {
	// Workbooks exported by hand often carry whitespace around header
	// cells; column lookup must still find every field.
	data := buildWorkbook(t,
		[]string{" B/S ", "avgPrice ", " filledQty", "Fill Time ", " Date "},
		[][]interface{}{
			{"Buy", "5000", "1", "1/15/2024 09:30:00", "1/15/2024"},
			{"Sell", "5005", "1", "1/15/2024 09:35:00", "1/15/2024"},
		})

	fills, err := ParseFills("export.xlsx", data)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, 5000.0, fills[0].Price)
	assert.Equal(t, "2024-01-15", fills[1].Date)
}

func TestParseFillsXLSXMissingColumns(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"B/S", "avgPrice", "Fill Time"},
		[][]interface{}{{"Buy", "5000", "1/15/2024 09:30:00"}})

	_, err := ParseFills("export.xlsx", data)
	var importErr *apperrors.ImportError
	require.True(t, apperrors.As(err, &importErr))
	assert.Contains(t, importErr.Reason, "Date, filledQty")
}
