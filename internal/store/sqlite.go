// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed journal store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Portfolios group trading days
	CREATE TABLE IF NOT EXISTS portfolios (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#4fffb0',
		created_at  TEXT NOT NULL DEFAULT (datetime('now'))
	);

	-- One row per imported calendar day per portfolio
	CREATE TABLE IF NOT EXISTS trading_days (
		id           TEXT PRIMARY KEY,
		date         TEXT NOT NULL,
		portfolio_id TEXT REFERENCES portfolios(id) ON DELETE SET NULL,
		imported_at  TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE(date, portfolio_id)
	);

	-- Reconstructed round-trip trades
	CREATE TABLE IF NOT EXISTS trades (
		id         TEXT PRIMARY KEY,
		day_id     TEXT NOT NULL REFERENCES trading_days(id) ON DELETE CASCADE,
		trade_num  INTEGER NOT NULL,
		direction  TEXT NOT NULL,
		qty        INTEGER NOT NULL,
		avg_entry  REAL NOT NULL,
		avg_exit   REAL NOT NULL,
		pnl        REAL NOT NULL,
		entry_time TEXT NOT NULL,
		exit_time  TEXT NOT NULL,
		is_open    INTEGER NOT NULL DEFAULT 0,
		notes      TEXT NOT NULL DEFAULT ''
	);

	-- Constituent fills of each trade
	CREATE TABLE IF NOT EXISTS fills (
		id        TEXT PRIMARY KEY,
		trade_id  TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
		fill_time TEXT NOT NULL,
		side      TEXT NOT NULL,
		qty       INTEGER NOT NULL,
		price     REAL NOT NULL
	);

	-- Tags applied to trades
	CREATE TABLE IF NOT EXISTS trade_tags (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
		group_id TEXT NOT NULL,
		tag      TEXT NOT NULL,
		UNIQUE(trade_id, group_id, tag)
	);

	-- Custom tag taxonomy overrides
	CREATE TABLE IF NOT EXISTS tag_config (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id TEXT NOT NULL,
		tag      TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		enabled  INTEGER NOT NULL DEFAULT 1,
		UNIQUE(group_id, tag)
	);

	-- App-wide configuration overrides (key-value)
	CREATE TABLE IF NOT EXISTS app_config (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);

	-- Live trade entries (used during trading hours)
	CREATE TABLE IF NOT EXISTS live_trades (
		id               TEXT PRIMARY KEY,
		portfolio_id     TEXT REFERENCES portfolios(id) ON DELETE SET NULL,
		status           TEXT NOT NULL DEFAULT 'open',
		direction        TEXT NOT NULL,
		instrument       TEXT NOT NULL DEFAULT 'MES',
		entry_price      REAL NOT NULL,
		entry_time       TEXT NOT NULL,
		total_qty        INTEGER NOT NULL,
		mode             TEXT NOT NULL DEFAULT 'full',
		notes            TEXT NOT NULL DEFAULT '',
		tags_json        TEXT NOT NULL DEFAULT '{}',
		created_at       TEXT NOT NULL DEFAULT (datetime('now')),
		closed_at        TEXT,
		realized_pnl     REAL NOT NULL DEFAULT 0,
		journal_trade_id TEXT
	);

	-- Stop/TP levels for a live trade
	CREATE TABLE IF NOT EXISTS live_trade_levels (
		id             TEXT PRIMARY KEY,
		live_trade_id  TEXT NOT NULL REFERENCES live_trades(id) ON DELETE CASCADE,
		level_type     TEXT NOT NULL,
		portion        INTEGER NOT NULL DEFAULT 1,
		qty            INTEGER NOT NULL,
		price          REAL NOT NULL,
		risk_dollars   REAL NOT NULL DEFAULT 0,
		reward_dollars REAL NOT NULL DEFAULT 0
	);

	-- Execution log entries (fills against live trade levels)
	CREATE TABLE IF NOT EXISTS live_trade_executions (
		id            TEXT PRIMARY KEY,
		live_trade_id TEXT NOT NULL REFERENCES live_trades(id) ON DELETE CASCADE,
		exec_type     TEXT NOT NULL,
		portion       INTEGER NOT NULL DEFAULT 1,
		qty           INTEGER NOT NULL,
		price         REAL NOT NULL,
		exec_time     TEXT NOT NULL,
		pnl           REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_trades_day     ON trades(day_id);
	CREATE INDEX IF NOT EXISTS idx_fills_trade    ON fills(trade_id);
	CREATE INDEX IF NOT EXISTS idx_tags_trade     ON trade_tags(trade_id);
	CREATE INDEX IF NOT EXISTS idx_tags_group     ON trade_tags(group_id);
	CREATE INDEX IF NOT EXISTS idx_days_date      ON trading_days(date);
	CREATE INDEX IF NOT EXISTS idx_days_portfolio ON trading_days(portfolio_id);
	CREATE INDEX IF NOT EXISTS idx_live_levels    ON live_trade_levels(live_trade_id);
	CREATE INDEX IF NOT EXISTS idx_live_execs     ON live_trade_executions(live_trade_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func newID() string {
	return ulid.Make().String()
}

// nullable maps "" to SQL NULL for optional foreign keys.
func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// ============================================================================
// Trading Days
// ============================================================================

// UpsertDay finds or creates the trading day for (date, portfolio) and
// returns its id.
func (s *SQLiteStore) UpsertDay(ctx context.Context, date, portfolioID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", apperrors.NewStoreError("upsert_day", date, err)
	}
	defer tx.Rollback()

	var id string
	err = dayByDatePortfolio(ctx, tx, date, portfolioID).Scan(&id)
	if err == sql.ErrNoRows {
		id = newID()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trading_days (id, date, portfolio_id) VALUES (?, ?, ?)
		`, id, date, nullable(portfolioID))
	}
	if err != nil {
		return "", apperrors.NewStoreError("upsert_day", date, err)
	}

	if err := tx.Commit(); err != nil {
		return "", apperrors.NewStoreError("upsert_day", date, err)
	}
	return id, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func dayByDatePortfolio(ctx context.Context, q rowQuerier, date, portfolioID string) *sql.Row {
	if portfolioID != "" {
		return q.QueryRowContext(ctx,
			"SELECT id FROM trading_days WHERE date = ? AND portfolio_id = ?", date, portfolioID)
	}
	return q.QueryRowContext(ctx,
		"SELECT id FROM trading_days WHERE date = ? AND portfolio_id IS NULL", date)
}

// GetDayByDatePortfolio returns the day for (date, portfolio), or
// ErrDayNotFound.
func (s *SQLiteStore) GetDayByDatePortfolio(ctx context.Context, date, portfolioID string) (*models.TradingDay, error) {
	var id string
	err := dayByDatePortfolio(ctx, s.db, date, portfolioID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDayNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_day", date, err)
	}
	return s.GetDayByID(ctx, id)
}

// GetDayByID returns one trading day with its trades, fills and tags.
func (s *SQLiteStore) GetDayByID(ctx context.Context, id string) (*models.TradingDay, error) {
	var d models.TradingDay
	var pid, pname, pcolor sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.date, d.portfolio_id, d.imported_at, p.name, p.color
		FROM trading_days d
		LEFT JOIN portfolios p ON p.id = d.portfolio_id
		WHERE d.id = ?
	`, id).Scan(&d.ID, &d.Date, &pid, &d.ImportedAt, &pname, &pcolor)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDayNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_day", id, err)
	}
	d.PortfolioID = pid.String
	d.PortfolioName = pname.String
	d.PortfolioColor = pcolor.String

	trades, err := s.GetTradesForDay(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Trades = trades
	d.TradeCount = len(trades)
	for _, t := range trades {
		d.TotalPnL += t.PnL
		if t.PnL > 0 {
			d.Wins++
		}
	}
	return &d, nil
}

// ListDays returns day summaries newest first, without loading trades.
func (s *SQLiteStore) ListDays(ctx context.Context, filter DayFilter) ([]models.TradingDay, error) {
	query := `
		SELECT d.id, d.date, d.portfolio_id, d.imported_at, p.name, p.color,
		       COUNT(t.id), COALESCE(ROUND(SUM(t.pnl), 2), 0),
		       COALESCE(SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END), 0)
		FROM trading_days d
		LEFT JOIN portfolios p ON p.id = d.portfolio_id
		LEFT JOIN trades t     ON t.day_id = d.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.DateFrom != "" {
		query += " AND d.date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND d.date <= ?"
		args = append(args, filter.DateTo)
	}
	if filter.PortfolioID != "" {
		query += " AND d.portfolio_id = ?"
		args = append(args, filter.PortfolioID)
	}
	query += " GROUP BY d.id ORDER BY d.date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_days", "", err)
	}
	defer rows.Close()

	var days []models.TradingDay
	for rows.Next() {
		var d models.TradingDay
		var pid, pname, pcolor sql.NullString
		if err := rows.Scan(&d.ID, &d.Date, &pid, &d.ImportedAt, &pname, &pcolor,
			&d.TradeCount, &d.TotalPnL, &d.Wins); err != nil {
			return nil, apperrors.NewStoreError("list_days", "", err)
		}
		d.PortfolioID = pid.String
		d.PortfolioName = pname.String
		d.PortfolioColor = pcolor.String
		days = append(days, d)
	}
	return days, rows.Err()
}

// DeleteDay removes a day; trades and fills cascade.
func (s *SQLiteStore) DeleteDay(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trading_days WHERE id = ?", id)
	if err != nil {
		return apperrors.NewStoreError("delete_day", id, err)
	}
	return nil
}

// ============================================================================
// Trades & Fills
// ============================================================================

// InsertTrade persists a trade and its fills in one transaction. When
// t.TradeNum is zero the next ordinal for the day is allocated inside
// the same transaction.
func (s *SQLiteStore) InsertTrade(ctx context.Context, dayID string, t *models.Trade) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", apperrors.NewStoreError("insert_trade", dayID, err)
	}
	defer tx.Rollback()

	tradeNum := t.TradeNum
	if tradeNum == 0 {
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(trade_num), 0) + 1 FROM trades WHERE day_id = ?", dayID,
		).Scan(&tradeNum); err != nil {
			return "", apperrors.NewStoreError("insert_trade", dayID, err)
		}
	}

	id := newID()
	isOpen := 0
	if t.Open {
		isOpen = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO trades (id, day_id, trade_num, direction, qty, avg_entry, avg_exit, pnl, entry_time, exit_time, is_open, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, dayID, tradeNum, t.Direction, t.Qty, t.AvgEntry, t.AvgExit, t.PnL, t.EntryTime, t.ExitTime, isOpen, t.Notes)
	if err != nil {
		return "", apperrors.NewStoreError("insert_trade", dayID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills (id, trade_id, fill_time, side, qty, price)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", apperrors.NewStoreError("insert_trade", dayID, err)
	}
	defer stmt.Close()
	for _, f := range t.Fills {
		if _, err := stmt.ExecContext(ctx, newID(), id, f.Time, f.Side, f.Qty, f.Price); err != nil {
			return "", apperrors.NewStoreError("insert_trade", dayID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", apperrors.NewStoreError("insert_trade", dayID, err)
	}
	t.ID = id
	t.DayID = dayID
	t.TradeNum = tradeNum
	return id, nil
}

func (s *SQLiteStore) scanTrades(ctx context.Context, rows *sql.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var isOpen int
		if err := rows.Scan(&t.ID, &t.DayID, &t.TradeNum, &t.Direction, &t.Qty,
			&t.AvgEntry, &t.AvgExit, &t.PnL, &t.EntryTime, &t.ExitTime, &isOpen, &t.Notes); err != nil {
			return nil, err
		}
		t.Open = isOpen == 1
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range trades {
		fills, err := s.fillsForTrade(ctx, trades[i].ID)
		if err != nil {
			return nil, err
		}
		trades[i].Fills = fills

		tags, err := s.tagsForTrade(ctx, trades[i].ID)
		if err != nil {
			return nil, err
		}
		trades[i].Tags = tags
	}
	return trades, nil
}

func (s *SQLiteStore) fillsForTrade(ctx context.Context, tradeID string) ([]models.Fill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fill_time, side, qty, price FROM fills WHERE trade_id = ? ORDER BY fill_time, id
	`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []models.Fill
	for rows.Next() {
		var f models.Fill
		if err := rows.Scan(&f.ID, &f.Time, &f.Side, &f.Qty, &f.Price); err != nil {
			return nil, err
		}
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

func (s *SQLiteStore) tagsForTrade(ctx context.Context, tradeID string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, tag FROM trade_tags WHERE trade_id = ?", tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := map[string][]string{}
	for rows.Next() {
		var groupID, tag string
		if err := rows.Scan(&groupID, &tag); err != nil {
			return nil, err
		}
		tags[groupID] = append(tags[groupID], tag)
	}
	return tags, rows.Err()
}

const tradeColumns = "id, day_id, trade_num, direction, qty, avg_entry, avg_exit, pnl, entry_time, exit_time, is_open, notes"

// GetTradesForDay returns a day's trades in trade_num order.
func (s *SQLiteStore) GetTradesForDay(ctx context.Context, dayID string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE day_id = ? ORDER BY trade_num", dayID)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trades", dayID, err)
	}
	defer rows.Close()

	trades, err := s.scanTrades(ctx, rows)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trades", dayID, err)
	}
	return trades, nil
}

// GetTradeByID returns one trade with fills and tags, or ErrTradeNotFound.
func (s *SQLiteStore) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE id = ?", id)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trade", id, err)
	}
	defer rows.Close()

	trades, err := s.scanTrades(ctx, rows)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trade", id, err)
	}
	if len(trades) == 0 {
		return nil, apperrors.ErrTradeNotFound
	}
	return &trades[0], nil
}

// UpdateTradeNotes replaces a trade's notes.
func (s *SQLiteStore) UpdateTradeNotes(ctx context.Context, id, notes string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE trades SET notes = ? WHERE id = ?", notes, id)
	if err != nil {
		return apperrors.NewStoreError("update_notes", id, err)
	}
	return nil
}

// SetTradeTags replaces all tags of one group on a trade.
func (s *SQLiteStore) SetTradeTags(ctx context.Context, tradeID, groupID string, tags []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("set_tags", tradeID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM trade_tags WHERE trade_id = ? AND group_id = ?", tradeID, groupID); err != nil {
		return apperrors.NewStoreError("set_tags", tradeID, err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trade_tags (trade_id, group_id, tag) VALUES (?, ?, ?)",
			tradeID, groupID, tag); err != nil {
			return apperrors.NewStoreError("set_tags", tradeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("set_tags", tradeID, err)
	}
	return nil
}

// ============================================================================
// Portfolios
// ============================================================================

// CreatePortfolio creates a portfolio and returns its id.
func (s *SQLiteStore) CreatePortfolio(ctx context.Context, name, description, color string) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO portfolios (id, name, description, color) VALUES (?, ?, ?, ?)",
		id, name, description, color)
	if err != nil {
		return "", apperrors.NewStoreError("create_portfolio", name, err)
	}
	return id, nil
}

// UpdatePortfolio updates name, description and color.
func (s *SQLiteStore) UpdatePortfolio(ctx context.Context, id, name, description, color string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE portfolios SET name = ?, description = ?, color = ? WHERE id = ?",
		name, description, color, id)
	if err != nil {
		return apperrors.NewStoreError("update_portfolio", id, err)
	}
	return nil
}

// DeletePortfolio removes a portfolio; its days are kept with a null
// portfolio reference.
func (s *SQLiteStore) DeletePortfolio(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM portfolios WHERE id = ?", id)
	if err != nil {
		return apperrors.NewStoreError("delete_portfolio", id, err)
	}
	return nil
}

// ListPortfolios returns all portfolios with day/trade/P&L rollups.
func (s *SQLiteStore) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.color, p.created_at,
		       COUNT(DISTINCT d.id), COUNT(t.id), COALESCE(ROUND(SUM(t.pnl), 2), 0)
		FROM portfolios p
		LEFT JOIN trading_days d ON d.portfolio_id = p.id
		LEFT JOIN trades t       ON t.day_id = d.id
		GROUP BY p.id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, apperrors.NewStoreError("list_portfolios", "", err)
	}
	defer rows.Close()

	var portfolios []models.Portfolio
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatedAt,
			&p.DayCount, &p.TradeCount, &p.TotalPnL); err != nil {
			return nil, apperrors.NewStoreError("list_portfolios", "", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetPortfolio returns one portfolio, or ErrPortfolioNotFound.
func (s *SQLiteStore) GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, color, created_at FROM portfolios WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_portfolio", id, err)
	}
	return &p, nil
}

// ============================================================================
// Tag Configuration
// ============================================================================

// GetTagConfig returns custom enabled tags per group in position order,
// or nil when no custom config exists.
func (s *SQLiteStore) GetTagConfig(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, tag FROM tag_config WHERE enabled = 1 ORDER BY group_id, position")
	if err != nil {
		return nil, apperrors.NewStoreError("get_tag_config", "", err)
	}
	defer rows.Close()

	var config map[string][]string
	for rows.Next() {
		var groupID, tag string
		if err := rows.Scan(&groupID, &tag); err != nil {
			return nil, apperrors.NewStoreError("get_tag_config", "", err)
		}
		if config == nil {
			config = map[string][]string{}
		}
		config[groupID] = append(config[groupID], tag)
	}
	return config, rows.Err()
}

// SaveTagConfig replaces all tags for a group with the ordered list.
func (s *SQLiteStore) SaveTagConfig(ctx context.Context, groupID string, tags []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save_tag_config", groupID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tag_config WHERE group_id = ?", groupID); err != nil {
		return apperrors.NewStoreError("save_tag_config", groupID, err)
	}
	for i, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO tag_config (group_id, tag, position, enabled) VALUES (?, ?, ?, 1)",
			groupID, tag, i); err != nil {
			return apperrors.NewStoreError("save_tag_config", groupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("save_tag_config", groupID, err)
	}
	return nil
}

// ResetTagConfig deletes custom config for a group so it falls back to
// the hardcoded defaults.
func (s *SQLiteStore) ResetTagConfig(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tag_config WHERE group_id = ?", groupID)
	if err != nil {
		return apperrors.NewStoreError("reset_tag_config", groupID, err)
	}
	return nil
}

// ============================================================================
// Settings
// ============================================================================

// GetSetting returns the stored value for key, or "" when unset.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStoreError("get_setting", key, err)
	}
	return value, nil
}

// SetSetting upserts one key-value override.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO app_config (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return apperrors.NewStoreError("set_setting", key, err)
	}
	return nil
}

// AllSettings returns every stored override.
func (s *SQLiteStore) AllSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM app_config")
	if err != nil {
		return nil, apperrors.NewStoreError("all_settings", "", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, apperrors.NewStoreError("all_settings", "", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}
