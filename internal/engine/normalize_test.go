package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFillTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"us layout", "1/15/2024 09:30:05", "09:30:05"},
		{"iso layout", "2024-01-15 14:01:02", "14:01:02"},
		{"two digit year", "1/15/24 09:30:05", "09:30:05"},
		{"unknown layout falls back to second token", "Jan-15 12:00:00", "12:00:00"},
		{"single token returned raw", "09:30:05", "09:30:05"},
		{"surrounding whitespace", "  1/15/2024 09:30:05  ", "09:30:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFillTime(tt.raw))
		})
	}
}

func TestParseFillDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"us layout", "1/15/2024", "2024-01-15"},
		{"iso layout", "2024-01-15", "2024-01-15"},
		{"two digit year", "1/15/24", "2024-01-15"},
		{"datetime keeps first token", "1/15/2024 09:30:05", "2024-01-15"},
		{"unknown kept raw", "15th-Jan", "15th-Jan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFillDate(tt.raw))
		})
	}
}

func TestNormalizeRows(t *testing.T) {
	rows := []RawRow{
		{Side: "Buy", Qty: "2", Price: "5000.25", FillTime: "1/15/2024 09:30:00", Date: "1/15/2024"},
		{Side: "Sell", Qty: "2.0", Price: "5010.50", FillTime: "1/15/2024 09:45:00", Date: "1/15/2024"},
		{Side: "", Qty: "1", Price: "5000", FillTime: "1/15/2024 10:00:00", Date: "1/15/2024"},
		{Side: "Buy", Qty: "1", Price: "5000", FillTime: "", Date: "1/15/2024"},
		{Side: "Buy", Qty: "abc", Price: "5000", FillTime: "1/15/2024 10:00:00", Date: "1/15/2024"},
		{Side: "Buy", Qty: "0", Price: "5000", FillTime: "1/15/2024 10:00:00", Date: "1/15/2024"},
		{Side: "Buy", Qty: "1", Price: "n/a", FillTime: "1/15/2024 10:00:00", Date: "1/15/2024"},
	}

	fills := NormalizeRows(rows)

	assert.Len(t, fills, 2)
	assert.Equal(t, 2, fills[0].Qty)
	assert.Equal(t, 5000.25, fills[0].Price)
	assert.Equal(t, "09:30:00", fills[0].Time)
	assert.Equal(t, "2024-01-15", fills[0].Date)
	assert.Equal(t, 2, fills[1].Qty)
}

func TestNormalizeRowsFractionalQtyTruncates(t *testing.T) {
	fills := NormalizeRows([]RawRow{
		{Side: "Buy", Qty: "2.9", Price: "100", FillTime: "09:00:00", Date: "2024-01-15"},
	})
	assert.Len(t, fills, 1)
	assert.Equal(t, 2, fills[0].Qty)
}
