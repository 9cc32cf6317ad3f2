package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func dayFill(date string, side models.Side, qty int, price float64, at string) models.Fill {
	return models.Fill{Side: side, Qty: qty, Price: price, Time: at, Date: date}
}

func TestReconstructSingleRoundTrip(t *testing.T) {
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideBuy, 1, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideSell, 1, 105, "09:35:00"),
	}, 5)

	require.Len(t, days, 1)
	assert.Equal(t, "2024-01-01", days[0].Date)
	require.Len(t, days[0].Trades, 1)

	trade := days[0].Trades[0]
	assert.Equal(t, 1, trade.TradeNum)
	assert.Equal(t, models.DirectionLong, trade.Direction)
	assert.Equal(t, 25.0, trade.PnL)
	assert.False(t, trade.Open)
}

func TestReconstructMultipleZeroCrossings(t *testing.T) {
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideBuy, 1, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideSell, 1, 105, "09:35:00"),
		dayFill("2024-01-01", models.SideSell, 2, 110, "10:00:00"),
		dayFill("2024-01-01", models.SideBuy, 2, 108, "10:15:00"),
	}, 5)

	require.Len(t, days, 1)
	require.Len(t, days[0].Trades, 2)

	first, second := days[0].Trades[0], days[0].Trades[1]
	assert.Equal(t, 1, first.TradeNum)
	assert.Equal(t, models.DirectionLong, first.Direction)
	assert.Equal(t, 2, second.TradeNum)
	assert.Equal(t, models.DirectionShort, second.Direction)
	assert.Equal(t, 20.0, second.PnL)
}

func TestReconstructScaleInOut(t *testing.T) {
	// Position goes 2 -> 3 -> 1 -> 0: one trade, not three.
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideBuy, 2, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideBuy, 1, 101, "09:40:00"),
		dayFill("2024-01-01", models.SideSell, 2, 103, "10:00:00"),
		dayFill("2024-01-01", models.SideSell, 1, 104, "10:30:00"),
	}, 5)

	require.Len(t, days, 1)
	require.Len(t, days[0].Trades, 1)
	assert.Equal(t, 3, days[0].Trades[0].Qty)
	assert.False(t, days[0].Trades[0].Open)
}

func TestReconstructTrailingOpenTrade(t *testing.T) {
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideBuy, 1, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideSell, 1, 105, "09:35:00"),
		dayFill("2024-01-01", models.SideBuy, 2, 106, "11:00:00"),
	}, 5)

	require.Len(t, days, 1)
	require.Len(t, days[0].Trades, 2)
	open := days[0].Trades[1]
	assert.True(t, open.Open)
	assert.Equal(t, 0.0, open.PnL)
	assert.Equal(t, 2, open.Qty)
}

func TestReconstructPartiallyOffsetTrailingGroupIsOpen(t *testing.T) {
	// The trailing group never returns to flat even though it has fills
	// on both sides.
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideBuy, 2, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideSell, 1, 105, "10:00:00"),
	}, 5)

	require.Len(t, days, 1)
	require.Len(t, days[0].Trades, 1)
	trade := days[0].Trades[0]
	assert.True(t, trade.Open)
	assert.Equal(t, 0.0, trade.PnL)

	var signed int
	for _, f := range trade.Fills {
		if f.Side == models.SideBuy {
			signed += f.Qty
		} else {
			signed -= f.Qty
		}
	}
	assert.Equal(t, 1, signed)
}

func TestReconstructSortsWithinDay(t *testing.T) {
	// Fills arrive out of order; reconstruction must sort by time.
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-01", models.SideSell, 1, 105, "09:35:00"),
		dayFill("2024-01-01", models.SideBuy, 1, 100, "09:30:00"),
	}, 5)

	require.Len(t, days, 1)
	require.Len(t, days[0].Trades, 1)
	trade := days[0].Trades[0]
	assert.Equal(t, models.DirectionLong, trade.Direction)
	assert.Equal(t, "09:30:00", trade.EntryTime)
	assert.Equal(t, 25.0, trade.PnL)
}

func TestReconstructGroupsAndOrdersDates(t *testing.T) {
	days := Reconstruct([]models.Fill{
		dayFill("2024-01-02", models.SideBuy, 1, 200, "09:30:00"),
		dayFill("2024-01-02", models.SideSell, 1, 201, "09:40:00"),
		dayFill("2024-01-01", models.SideBuy, 1, 100, "09:30:00"),
		dayFill("2024-01-01", models.SideSell, 1, 105, "09:35:00"),
	}, 5)

	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-01", days[0].Date)
	assert.Equal(t, "2024-01-02", days[1].Date)
}

func TestReconstructEmpty(t *testing.T) {
	assert.Empty(t, Reconstruct(nil, 5))
}
