// Package models defines the domain types shared across the journal.
package models

// Side is the side of a single fill.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Opposite returns the offsetting side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Direction of a trade, determined by its opening fill.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Mode selects how a live trade is exited.
type Mode string

const (
	ModeFull     Mode = "full"
	ModePartials Mode = "partials"
)

// LiveStatus is the lifecycle status of a live trade.
type LiveStatus string

const (
	LiveOpen      LiveStatus = "open"
	LiveClosed    LiveStatus = "closed"
	LiveCancelled LiveStatus = "cancelled"
)

// LevelType distinguishes stop and take-profit levels.
type LevelType string

const (
	LevelStop LevelType = "stop"
	LevelTP   LevelType = "tp"
)

// ExecType records how an exit execution happened.
type ExecType string

const (
	ExecStopHit    ExecType = "stop_hit"
	ExecTPHit      ExecType = "tp_hit"
	ExecManualExit ExecType = "manual_exit"
)

// Fill is one matched execution report. Immutable once created.
// Time is wall-clock HH:MM:SS, Date is YYYY-MM-DD; both are kept as
// strings so intra-day ordering is plain lexicographic comparison.
type Fill struct {
	ID    string
	Side  Side
	Qty   int
	Price float64
	Time  string
	Date  string
}

// SignedQty is Qty for buys and -Qty for sells.
func (f Fill) SignedQty() int {
	if f.Side == SideBuy {
		return f.Qty
	}
	return -f.Qty
}

// TagGroup is one group of the tag taxonomy. Multi controls whether a
// trade may carry more than one tag from the group.
type TagGroup struct {
	ID    string
	Label string
	Tags  []string
	Multi bool
}

// Portfolio groups trading days.
type Portfolio struct {
	ID          string
	Name        string
	Description string
	Color       string
	CreatedAt   string

	// Rollups populated on list queries.
	DayCount   int
	TradeCount int
	TotalPnL   float64
}
