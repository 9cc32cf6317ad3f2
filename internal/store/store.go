// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradejournal/internal/models"
)

// Store defines the interface for journal persistence. Identifiers are
// opaque strings assigned at save time.
type Store interface {
	// Trading days & trades
	UpsertDay(ctx context.Context, date, portfolioID string) (string, error)
	GetDayByID(ctx context.Context, id string) (*models.TradingDay, error)
	GetDayByDatePortfolio(ctx context.Context, date, portfolioID string) (*models.TradingDay, error)
	ListDays(ctx context.Context, filter DayFilter) ([]models.TradingDay, error)
	DeleteDay(ctx context.Context, id string) error

	// InsertTrade persists a trade and its fills in one transaction.
	// A zero TradeNum means "allocate the next ordinal for this day",
	// performed atomically inside the same transaction.
	InsertTrade(ctx context.Context, dayID string, t *models.Trade) (string, error)
	GetTradesForDay(ctx context.Context, dayID string) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, id string) (*models.Trade, error)
	UpdateTradeNotes(ctx context.Context, id, notes string) error
	SetTradeTags(ctx context.Context, tradeID, groupID string, tags []string) error

	// Portfolios
	CreatePortfolio(ctx context.Context, name, description, color string) (string, error)
	UpdatePortfolio(ctx context.Context, id, name, description, color string) error
	DeletePortfolio(ctx context.Context, id string) error
	ListPortfolios(ctx context.Context) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)

	// Tag configuration overrides; nil map means no custom config.
	GetTagConfig(ctx context.Context) (map[string][]string, error)
	SaveTagConfig(ctx context.Context, groupID string, tags []string) error
	ResetTagConfig(ctx context.Context, groupID string) error

	// Settings key-value overrides layered over file config.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)

	// Live trades
	CreateLiveTrade(ctx context.Context, lt *models.LiveTrade) (string, error)
	GetLiveTrade(ctx context.Context, id string) (*models.LiveTrade, error)
	ListLiveTrades(ctx context.Context, filter LiveTradeFilter) ([]models.LiveTrade, error)
	UpdateLiveTrade(ctx context.Context, id string, upd models.LiveTradeUpdate) error
	DeleteLiveTrade(ctx context.Context, id string) error
	SetLiveTradeLevels(ctx context.Context, liveTradeID string, levels []models.Level) error
	AddExecution(ctx context.Context, liveTradeID string, e *models.Execution) (string, error)
	DeleteExecution(ctx context.Context, execID string) error

	// Analytics
	Analytics(ctx context.Context, portfolioID string) (*models.Analytics, error)

	// Lifecycle
	Close() error
}

// DayFilter represents filters for querying trading days.
type DayFilter struct {
	DateFrom    string
	DateTo      string
	PortfolioID string
}

// LiveTradeFilter represents filters for querying live trades.
// DateFrom/DateTo filter on local creation date (YYYY-MM-DD).
type LiveTradeFilter struct {
	Status   models.LiveStatus
	DateFrom string
	DateTo   string
}
