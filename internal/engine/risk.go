package engine

import (
	"math"

	"tradejournal/internal/models"
)

// PortionDetail is the risk breakdown for one still-active portion.
// StopPnL is signed: negative means loss if stopped out, positive means
// the stop has been trailed past entry and profit is locked in.
type PortionDetail struct {
	Portion   int
	Qty       int
	StopPrice float64
	TPPrice   float64
	HasTP     bool
	StopPnL   float64
	TPPnL     float64
}

// Snapshot is the full risk picture of a live trade at one instant.
// NetStopExposure is the signed worst case: realized P&L plus the P&L
// of every remaining portion hitting its stop. CurrentRisk is the
// displayed downside, zero when that worst case is already profitable.
type Snapshot struct {
	RemainingQty    int
	ExitedQty       int
	RealizedPnL     float64
	CurrentRisk     float64
	PotentialReward float64
	InitialRisk     float64
	NetStopExposure float64
	ActivePortions  []PortionDetail
	PortionDetails  []PortionDetail
	IsClosed        bool
}

// ExecutionPnL computes the realized P&L for one exit slice against the
// trade entry, using the instrument's dollars-per-point multiplier.
func ExecutionPnL(direction models.Direction, entryPrice, execPrice float64, qty int, dollarsPerPoint float64) float64 {
	if direction == models.DirectionLong {
		return Round2((execPrice - entryPrice) * float64(qty) * dollarsPerPoint)
	}
	return Round2((entryPrice - execPrice) * float64(qty) * dollarsPerPoint)
}

// signedPnL is the P&L of exiting qty units at price, per direction.
func signedPnL(isLong bool, entryPrice, price float64, qty int, dpp float64) float64 {
	if isLong {
		return (price - entryPrice) * float64(qty) * dpp
	}
	return (entryPrice - price) * float64(qty) * dpp
}

// Recalculate derives the risk snapshot from a live trade's levels and
// logged executions. Pure function of its inputs; callers re-run it
// after every execution add/delete and level edit, always with the
// full current set of levels and executions.
func Recalculate(lt *models.LiveTrade, dollarsPerPoint float64) Snapshot {
	isLong := lt.Direction == models.DirectionLong
	dpp := dollarsPerPoint

	var exitedQty int
	var realizedPnL float64
	for _, e := range lt.Executions {
		exitedQty += e.Qty
		realizedPnL += e.PnL
	}
	remainingQty := lt.TotalQty - exitedQty

	// Static reference value from plan time, independent of executions.
	var initialRisk float64
	for _, lv := range lt.Levels {
		if lv.LevelType == models.LevelStop {
			initialRisk += math.Abs(lt.EntryPrice-lv.Price) * float64(lv.Qty) * dpp
		}
	}

	if remainingQty <= 0 {
		return Snapshot{
			ExitedQty:   exitedQty,
			RealizedPnL: Round2(realizedPnL),
			InitialRisk: Round2(initialRisk),
			IsClosed:    true,
		}
	}

	var (
		currentRisk     float64
		totalReward     float64
		netStopExposure float64
		details         []PortionDetail
	)

	if lt.Mode == models.ModePartials {
		portionExited := map[int]int{}
		for _, e := range lt.Executions {
			portionExited[e.Portion] += e.Qty
		}

		type levelKey struct {
			t models.LevelType
			p int
		}
		byPortion := map[levelKey]*models.Level{}
		for i := range lt.Levels {
			lv := &lt.Levels[i]
			byPortion[levelKey{lv.LevelType, lv.Portion}] = lv
		}

		var totalStopRisk float64
		for p := 1; p <= 3; p++ {
			stopLv := byPortion[levelKey{models.LevelStop, p}]
			if stopLv == nil {
				continue
			}
			rem := stopLv.Qty - portionExited[p]
			if rem <= 0 {
				continue
			}

			stopPnL := signedPnL(isLong, lt.EntryPrice, stopLv.Price, rem, dpp)
			totalStopRisk += stopPnL

			d := PortionDetail{
				Portion:   p,
				Qty:       rem,
				StopPrice: stopLv.Price,
				StopPnL:   Round2(stopPnL),
			}
			if tpLv := byPortion[levelKey{models.LevelTP, p}]; tpLv != nil {
				tpPnL := signedPnL(isLong, lt.EntryPrice, tpLv.Price, rem, dpp)
				// A take-profit below breakeven never counts as reward.
				totalReward += math.Max(tpPnL, 0)
				d.TPPrice = tpLv.Price
				d.HasTP = true
				d.TPPnL = Round2(tpPnL)
			}
			details = append(details, d)
		}

		worstCase := totalStopRisk + realizedPnL
		if worstCase < 0 {
			currentRisk = math.Abs(worstCase)
		}
		netStopExposure = Round2(worstCase)
	} else {
		var stopLv, tpLv *models.Level
		for i := range lt.Levels {
			switch lt.Levels[i].LevelType {
			case models.LevelStop:
				if stopLv == nil {
					stopLv = &lt.Levels[i]
				}
			case models.LevelTP:
				if tpLv == nil {
					tpLv = &lt.Levels[i]
				}
			}
		}

		if stopLv != nil {
			stopPnL := signedPnL(isLong, lt.EntryPrice, stopLv.Price, remainingQty, dpp)
			worstCase := stopPnL + realizedPnL
			if worstCase < 0 {
				currentRisk = math.Abs(worstCase)
			}
			netStopExposure = Round2(worstCase)
		}
		if tpLv != nil {
			tpPnL := signedPnL(isLong, lt.EntryPrice, tpLv.Price, remainingQty, dpp)
			totalReward = math.Max(tpPnL, 0)
		}
	}

	return Snapshot{
		RemainingQty:    remainingQty,
		ExitedQty:       exitedQty,
		RealizedPnL:     Round2(realizedPnL),
		CurrentRisk:     Round2(currentRisk),
		PotentialReward: Round2(totalReward),
		InitialRisk:     Round2(initialRisk),
		NetStopExposure: netStopExposure,
		ActivePortions:  details,
		PortionDetails:  details,
	}
}
