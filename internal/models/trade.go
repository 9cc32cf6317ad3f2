package models

// Trade is one reconstructed round-trip: a maximal run of same-day
// fills whose signed running position returns to flat, or remains open
// at the last fill of the day.
type Trade struct {
	ID        string
	DayID     string
	TradeNum  int
	Direction Direction
	Qty       int
	AvgEntry  float64
	AvgExit   float64
	PnL       float64
	EntryTime string
	ExitTime  string
	Open      bool
	Notes     string
	Fills     []Fill
	Tags      map[string][]string
}

// TradingDay is a calendar day's reconstructed trades. At most one
// exists per (date, portfolio) pair in storage.
type TradingDay struct {
	ID          string
	Date        string
	PortfolioID string
	ImportedAt  string
	Trades      []Trade

	// Rollups populated on list queries.
	PortfolioName  string
	PortfolioColor string
	TradeCount     int
	TotalPnL       float64
	Wins           int
}
