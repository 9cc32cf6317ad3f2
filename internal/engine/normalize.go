// Package engine holds the trade-reconstruction and risk/P&L core.
// Everything here is a pure function over in-memory input: no storage,
// no clocks, no shared state. Callers may invoke concurrently.
package engine

import (
	"strconv"
	"strings"
	"time"

	"tradejournal/internal/models"
)

// RawRow is one broker execution row as it comes off an uploaded file,
// all fields still string-typed.
type RawRow struct {
	Side     string
	Qty      string
	Price    string
	FillTime string
	Date     string
}

// Broker exports show up in a handful of timestamp layouts. Tried in
// order; first match wins.
var fillTimeLayouts = []string{
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	"1/2/06 15:04:05",
}

var fillDateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"1/2/06",
}

// ParseFillTime extracts a canonical HH:MM:SS wall time from a raw
// timestamp. When no known layout matches it falls back to the second
// whitespace token, or the raw string if there is only one.
func ParseFillTime(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range fillTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05")
		}
	}
	parts := strings.Fields(raw)
	if len(parts) >= 2 {
		return parts[1]
	}
	return raw
}

// ParseFillDate extracts a canonical YYYY-MM-DD date from the first
// whitespace token of a raw date field. On total failure the raw token
// is returned unmodified.
func ParseFillDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if parts := strings.Fields(raw); len(parts) > 0 {
		raw = parts[0]
	}
	for _, layout := range fillDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// NormalizeRows turns raw rows into canonical fills. Rows missing a
// side or fill time, or whose quantity/price cannot be coerced to
// numbers, are skipped; they are not errors. Escalating an all-invalid
// file to a rejection is the importer's job.
func NormalizeRows(rows []RawRow) []models.Fill {
	fills := make([]models.Fill, 0, len(rows))
	for _, r := range rows {
		side := models.Side(strings.TrimSpace(r.Side))
		if side == "" || strings.TrimSpace(r.FillTime) == "" {
			continue
		}

		// Quantities arrive as "2" or "2.0" depending on the export.
		qtyF, err := strconv.ParseFloat(strings.TrimSpace(r.Qty), 64)
		if err != nil {
			continue
		}
		qty := int(qtyF)
		if qty <= 0 {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(r.Price), 64)
		if err != nil {
			continue
		}

		fills = append(fills, models.Fill{
			Side:  side,
			Qty:   qty,
			Price: price,
			Time:  ParseFillTime(r.FillTime),
			Date:  ParseFillDate(r.Date),
		})
	}
	return fills
}
