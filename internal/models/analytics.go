package models

// TagStat aggregates trade outcomes for one tag.
type TagStat struct {
	GroupID  string
	Tag      string
	Total    int
	Wins     int
	AvgPnL   float64
	TotalPnL float64
	WinRate  float64
}

// HourStat aggregates trades by entry hour.
type HourStat struct {
	Hour   int
	Total  int
	AvgPnL float64
	Wins   int
}

// DailyStat is the per-day P&L series.
type DailyStat struct {
	Date   string
	Trades int
	PnL    float64
	Wins   int
}

// DOWStat aggregates trades by day of week (0 = Sunday).
type DOWStat struct {
	DOW      int
	Total    int
	TotalPnL float64
	AvgPnL   float64
	Wins     int
}

// OverallStats is the journal-wide summary.
type OverallStats struct {
	TotalTrades int
	TotalPnL    float64
	AvgPnL      float64
	Wins        int
	BestTrade   float64
	WorstTrade  float64
}

// Streaks summarizes win/loss runs over the chronological trade list.
// History holds the last 20 results as "W"/"L"/"B".
type Streaks struct {
	Current     int
	CurrentType string
	BestWin     int
	WorstLoss   int
	History     []string
}

// Analytics bundles every aggregate view for one portfolio (or the
// whole journal when unfiltered).
type Analytics struct {
	TagStats  []TagStat
	TimeStats []HourStat
	Daily     []DailyStat
	Overall   OverallStats
	DOWStats  []DOWStat
	Streaks   Streaks
}
