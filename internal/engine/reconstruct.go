package engine

import (
	"sort"

	"tradejournal/internal/models"
)

// DayTrades is one calendar day's reconstructed round-trips, ready to
// be persisted as a TradingDay.
type DayTrades struct {
	Date   string
	Trades []models.Trade
}

// Reconstruct groups fills by date and partitions each day's
// time-ordered fills into round-trip trades. Days come back in
// ascending date order. The fill set for a day must be complete;
// reconstruction over a partial day is undefined.
func Reconstruct(fills []models.Fill, pointValue float64) []DayTrades {
	byDate := make(map[string][]models.Fill)
	for _, f := range fills {
		byDate[f.Date] = append(byDate[f.Date], f)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	days := make([]DayTrades, 0, len(dates))
	for _, date := range dates {
		dayFills := byDate[date]
		// Stable: intra-second fills keep their original file order.
		sort.SliceStable(dayFills, func(i, j int) bool {
			return dayFills[i].Time < dayFills[j].Time
		})
		days = append(days, DayTrades{Date: date, Trades: buildRoundTrips(dayFills, pointValue)})
	}
	return days
}

// buildRoundTrips walks the sorted fills keeping a running signed
// position. Every return to exactly zero closes the current group as
// one trade; leftover fills at day end form a final open trade.
func buildRoundTrips(fills []models.Fill, pointValue float64) []models.Trade {
	var (
		position int
		current  []models.Fill
		trades   []models.Trade
	)

	for _, f := range fills {
		position += f.SignedQty()
		current = append(current, f)
		if position == 0 {
			trades = append(trades, ComputeStats(current, len(trades)+1, pointValue))
			current = nil
		}
	}

	if len(current) > 0 {
		trades = append(trades, ComputeStats(current, len(trades)+1, pointValue))
	}

	return trades
}
