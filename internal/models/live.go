package models

// Level is a stop or take-profit price target for one portion of a live
// trade. Risk/reward dollars are precomputed at plan time.
type Level struct {
	ID            string
	LevelType     LevelType
	Portion       int
	Qty           int
	Price         float64
	RiskDollars   float64
	RewardDollars float64
}

// Execution is one logged exit against a live trade. PnL is precomputed
// at log time from the exec price against the trade entry.
type Execution struct {
	ID        string
	ExecType  ExecType
	Portion   int
	Qty       int
	Price     float64
	ExecTime  string
	PnL       float64
	CreatedAt string
}

// LiveTrade is an in-progress position entered manually and tracked
// separately from the historical journal until explicitly pushed.
// Levels and executions live and die with the trade.
//
// TagsJSON holds the raw tag payload ({group_id: [tag, ...]}) exactly
// as submitted; it is only decoded at journal-commit time, where a
// malformed payload is skipped rather than failing the commit.
type LiveTrade struct {
	ID             string
	PortfolioID    string
	Status         LiveStatus
	Direction      Direction
	Instrument     string
	EntryPrice     float64
	EntryTime      string
	TotalQty       int
	Mode           Mode
	Notes          string
	TagsJSON       string
	CreatedAt      string
	ClosedAt       string
	RealizedPnL    float64
	JournalTradeID string

	Levels     []Level
	Executions []Execution

	PortfolioName  string
	PortfolioColor string
}

// LiveTradeUpdate enumerates the only fields the live-trade subsystem
// may mutate after creation. Nil means unchanged; for ClosedAt and
// JournalTradeID an explicit empty string clears the stored value.
type LiveTradeUpdate struct {
	Status         *LiveStatus
	Notes          *string
	TagsJSON       *string
	ClosedAt       *string
	RealizedPnL    *float64
	JournalTradeID *string
}
