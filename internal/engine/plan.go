package engine

import (
	"math"

	"tradejournal/internal/config"
	"tradejournal/internal/models"
)

// PlanInput describes a new live trade for level planning.
type PlanInput struct {
	Direction  models.Direction
	EntryPrice float64
	TotalQty   int
	Mode       models.Mode
}

// SplitPortions divides qty into three portions as evenly as possible,
// handing the remainder one unit at a time to the earliest portions.
func SplitPortions(qty int) [3]int {
	base := qty / 3
	rem := qty % 3
	portions := [3]int{base, base, base}
	for i := 0; i < rem; i++ {
		portions[i]++
	}
	return portions
}

// BuildPlan computes the stop/take-profit levels for a new live trade.
// Full mode yields one stop and one TP at the configured distances;
// partials mode yields three stop/TP pairs, portions numbered 1-3 with
// a shared stop distance and independently configured TP distances.
// Risk/reward dollars are precomputed and rounded to cents.
func BuildPlan(in PlanInput, inst config.InstrumentSpec, defaults config.TradeDefaults) []models.Level {
	dpp := inst.DollarsPerPoint
	isLong := in.Direction == models.DirectionLong

	stopPrice := func(dist float64) float64 {
		if isLong {
			return in.EntryPrice - dist
		}
		return in.EntryPrice + dist
	}
	tpPrice := func(dist float64) float64 {
		if isLong {
			return in.EntryPrice + dist
		}
		return in.EntryPrice - dist
	}

	var levels []models.Level

	if in.Mode == models.ModeFull {
		stop := stopPrice(defaults.FullStopPoints)
		tp := tpPrice(defaults.FullTPPoints)
		risk := math.Abs(in.EntryPrice-stop) * float64(in.TotalQty) * dpp
		reward := math.Abs(tp-in.EntryPrice) * float64(in.TotalQty) * dpp

		levels = append(levels,
			models.Level{LevelType: models.LevelStop, Portion: 1, Qty: in.TotalQty,
				Price: Round2(stop), RiskDollars: Round2(risk)},
			models.Level{LevelType: models.LevelTP, Portion: 1, Qty: in.TotalQty,
				Price: Round2(tp), RewardDollars: Round2(reward)},
		)
		return levels
	}

	portions := SplitPortions(in.TotalQty)
	tpDists := [3]float64{defaults.PartialTP1Points, defaults.PartialTP2Points, defaults.PartialTP3Points}

	for i := 0; i < 3; i++ {
		stop := stopPrice(defaults.PartialStopPoints)
		risk := math.Abs(in.EntryPrice-stop) * float64(portions[i]) * dpp
		levels = append(levels, models.Level{
			LevelType: models.LevelStop, Portion: i + 1, Qty: portions[i],
			Price: Round2(stop), RiskDollars: Round2(risk),
		})

		tp := tpPrice(tpDists[i])
		reward := math.Abs(tp-in.EntryPrice) * float64(portions[i]) * dpp
		levels = append(levels, models.Level{
			LevelType: models.LevelTP, Portion: i + 1, Qty: portions[i],
			Price: Round2(tp), RewardDollars: Round2(reward),
		})
	}

	return levels
}
