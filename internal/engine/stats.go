package engine

import (
	"math"

	"tradejournal/internal/models"
)

// ComputeStats derives direction, quantity, volume-weighted entry/exit
// averages and P&L for one ordered group of fills. A group whose sides
// do not offset exactly is an open position: its P&L is exactly 0, and
// an opposing side with no fills averages to 0.
//
// pointValue is the fixed dollars-per-point multiplier used for
// historical-import P&L. It is intentionally not instrument-aware the
// way the live-trade subsystem is.
func ComputeStats(fills []models.Fill, tradeNum int, pointValue float64) models.Trade {
	var buyQty, sellQty int
	var buyVal, sellVal float64
	for _, f := range fills {
		if f.Side == models.SideBuy {
			buyQty += f.Qty
			buyVal += float64(f.Qty) * f.Price
		} else {
			sellQty += f.Qty
			sellVal += float64(f.Qty) * f.Price
		}
	}

	isShort := fills[0].Side == models.SideSell
	qty := buyQty
	if sellQty > qty {
		qty = sellQty
	}

	var avgEntry, avgExit float64
	if isShort {
		if sellQty > 0 {
			avgEntry = sellVal / float64(sellQty)
		}
		if buyQty > 0 {
			avgExit = buyVal / float64(buyQty)
		}
	} else {
		if buyQty > 0 {
			avgEntry = buyVal / float64(buyQty)
		}
		if sellQty > 0 {
			avgExit = sellVal / float64(sellQty)
		}
	}

	// A trade is closed only when the sides offset exactly; a partially
	// offset trailing group is still an open position.
	open := buyQty != sellQty

	var pnl float64
	if !open {
		if isShort {
			pnl = (avgEntry - avgExit) * float64(qty) * pointValue
		} else {
			pnl = (avgExit - avgEntry) * float64(qty) * pointValue
		}
	}

	direction := models.DirectionLong
	if isShort {
		direction = models.DirectionShort
	}

	return models.Trade{
		TradeNum:  tradeNum,
		Direction: direction,
		Qty:       qty,
		AvgEntry:  Round4(avgEntry),
		AvgExit:   Round4(avgExit),
		PnL:       Round2(pnl),
		EntryTime: fills[0].Time,
		ExitTime:  fills[len(fills)-1].Time,
		Open:      open,
		Fills:     fills,
	}
}

// Round2 rounds a dollar amount to cents. Rounding is a terminal
// formatting step, never applied before further arithmetic.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds a price to four decimals.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
