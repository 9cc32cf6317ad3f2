package store

import (
	"context"
	"database/sql"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// ============================================================================
// Live Trades
// ============================================================================

// CreateLiveTrade persists a new live trade together with its planned
// levels in one transaction and returns the assigned id.
func (s *SQLiteStore) CreateLiveTrade(ctx context.Context, lt *models.LiveTrade) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", apperrors.NewStoreError("create_live_trade", "", err)
	}
	defer tx.Rollback()

	id := newID()
	status := lt.Status
	if status == "" {
		status = models.LiveOpen
	}
	tagsJSON := lt.TagsJSON
	if tagsJSON == "" {
		tagsJSON = "{}"
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO live_trades
			(id, portfolio_id, status, direction, instrument, entry_price, entry_time, total_qty, mode, notes, tags_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullable(lt.PortfolioID), status, lt.Direction, lt.Instrument,
		lt.EntryPrice, lt.EntryTime, lt.TotalQty, lt.Mode, lt.Notes, tagsJSON)
	if err != nil {
		return "", apperrors.NewStoreError("create_live_trade", "", err)
	}

	for i := range lt.Levels {
		lv := &lt.Levels[i]
		lv.ID = newID()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO live_trade_levels
				(id, live_trade_id, level_type, portion, qty, price, risk_dollars, reward_dollars)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, lv.ID, id, lv.LevelType, lv.Portion, lv.Qty, lv.Price, lv.RiskDollars, lv.RewardDollars); err != nil {
			return "", apperrors.NewStoreError("create_live_trade", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", apperrors.NewStoreError("create_live_trade", "", err)
	}
	lt.ID = id
	lt.Status = status
	lt.TagsJSON = tagsJSON
	return id, nil
}

const liveTradeColumns = `lt.id, lt.portfolio_id, lt.status, lt.direction, lt.instrument,
	lt.entry_price, lt.entry_time, lt.total_qty, lt.mode, lt.notes, lt.tags_json,
	lt.created_at, lt.closed_at, lt.realized_pnl, lt.journal_trade_id, p.name, p.color`

func scanLiveTrade(scan func(dest ...interface{}) error) (*models.LiveTrade, error) {
	var lt models.LiveTrade
	var pid, closedAt, journalID, pname, pcolor sql.NullString
	err := scan(&lt.ID, &pid, &lt.Status, &lt.Direction, &lt.Instrument,
		&lt.EntryPrice, &lt.EntryTime, &lt.TotalQty, &lt.Mode, &lt.Notes, &lt.TagsJSON,
		&lt.CreatedAt, &closedAt, &lt.RealizedPnL, &journalID, &pname, &pcolor)
	if err != nil {
		return nil, err
	}
	lt.PortfolioID = pid.String
	lt.ClosedAt = closedAt.String
	lt.JournalTradeID = journalID.String
	lt.PortfolioName = pname.String
	lt.PortfolioColor = pcolor.String
	return &lt, nil
}

// GetLiveTrade returns one live trade with levels and executions, or
// ErrLiveTradeNotFound.
func (s *SQLiteStore) GetLiveTrade(ctx context.Context, id string) (*models.LiveTrade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+liveTradeColumns+`
		FROM live_trades lt
		LEFT JOIN portfolios p ON p.id = lt.portfolio_id
		WHERE lt.id = ?
	`, id)
	lt, err := scanLiveTrade(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrLiveTradeNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_live_trade", id, err)
	}

	levels, err := s.levelsFor(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("get_live_trade", id, err)
	}
	lt.Levels = levels

	execs, err := s.executionsFor(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("get_live_trade", id, err)
	}
	lt.Executions = execs
	return lt, nil
}

func (s *SQLiteStore) levelsFor(ctx context.Context, liveTradeID string) ([]models.Level, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level_type, portion, qty, price, risk_dollars, reward_dollars
		FROM live_trade_levels WHERE live_trade_id = ?
		ORDER BY level_type, portion
	`, liveTradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		var lv models.Level
		if err := rows.Scan(&lv.ID, &lv.LevelType, &lv.Portion, &lv.Qty, &lv.Price,
			&lv.RiskDollars, &lv.RewardDollars); err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}
	return levels, rows.Err()
}

func (s *SQLiteStore) executionsFor(ctx context.Context, liveTradeID string) ([]models.Execution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exec_type, portion, qty, price, exec_time, pnl, created_at
		FROM live_trade_executions WHERE live_trade_id = ?
		ORDER BY created_at, id
	`, liveTradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var execs []models.Execution
	for rows.Next() {
		var e models.Execution
		if err := rows.Scan(&e.ID, &e.ExecType, &e.Portion, &e.Qty, &e.Price,
			&e.ExecTime, &e.PnL, &e.CreatedAt); err != nil {
			return nil, err
		}
		execs = append(execs, e)
	}
	return execs, rows.Err()
}

// ListLiveTrades returns live trade headers newest first, without
// levels or executions.
func (s *SQLiteStore) ListLiveTrades(ctx context.Context, filter LiveTradeFilter) ([]models.LiveTrade, error) {
	query := `
		SELECT ` + liveTradeColumns + `
		FROM live_trades lt
		LEFT JOIN portfolios p ON p.id = lt.portfolio_id
		WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND lt.status = ?"
		args = append(args, filter.Status)
	}
	if filter.DateFrom != "" {
		query += " AND date(lt.created_at, 'localtime') >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date(lt.created_at, 'localtime') <= ?"
		args = append(args, filter.DateTo)
	}
	query += " ORDER BY lt.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_live_trades", "", err)
	}
	defer rows.Close()

	var trades []models.LiveTrade
	for rows.Next() {
		lt, err := scanLiveTrade(rows.Scan)
		if err != nil {
			return nil, apperrors.NewStoreError("list_live_trades", "", err)
		}
		trades = append(trades, *lt)
	}
	return trades, rows.Err()
}

// UpdateLiveTrade applies a partial update. Only the fields enumerated
// by LiveTradeUpdate can ever be written.
func (s *SQLiteStore) UpdateLiveTrade(ctx context.Context, id string, upd models.LiveTradeUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.TagsJSON != nil {
		sets = append(sets, "tags_json = ?")
		args = append(args, *upd.TagsJSON)
	}
	if upd.ClosedAt != nil {
		sets = append(sets, "closed_at = ?")
		args = append(args, nullable(*upd.ClosedAt))
	}
	if upd.RealizedPnL != nil {
		sets = append(sets, "realized_pnl = ?")
		args = append(args, *upd.RealizedPnL)
	}
	if upd.JournalTradeID != nil {
		sets = append(sets, "journal_trade_id = ?")
		args = append(args, nullable(*upd.JournalTradeID))
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE live_trades SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStoreError("update_live_trade", id, err)
	}
	return nil
}

// DeleteLiveTrade removes a live trade; levels and executions cascade.
func (s *SQLiteStore) DeleteLiveTrade(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM live_trades WHERE id = ?", id)
	if err != nil {
		return apperrors.NewStoreError("delete_live_trade", id, err)
	}
	return nil
}

// SetLiveTradeLevels replaces all levels for a live trade.
func (s *SQLiteStore) SetLiveTradeLevels(ctx context.Context, liveTradeID string, levels []models.Level) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("set_levels", liveTradeID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM live_trade_levels WHERE live_trade_id = ?", liveTradeID); err != nil {
		return apperrors.NewStoreError("set_levels", liveTradeID, err)
	}
	for i := range levels {
		lv := &levels[i]
		if lv.ID == "" {
			lv.ID = newID()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO live_trade_levels
				(id, live_trade_id, level_type, portion, qty, price, risk_dollars, reward_dollars)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, lv.ID, liveTradeID, lv.LevelType, lv.Portion, lv.Qty, lv.Price,
			lv.RiskDollars, lv.RewardDollars); err != nil {
			return apperrors.NewStoreError("set_levels", liveTradeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("set_levels", liveTradeID, err)
	}
	return nil
}

// AddExecution logs one execution against a live trade.
func (s *SQLiteStore) AddExecution(ctx context.Context, liveTradeID string, e *models.Execution) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO live_trade_executions
			(id, live_trade_id, exec_type, portion, qty, price, exec_time, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, liveTradeID, e.ExecType, e.Portion, e.Qty, e.Price, e.ExecTime, e.PnL)
	if err != nil {
		return "", apperrors.NewStoreError("add_execution", liveTradeID, err)
	}
	e.ID = id
	return id, nil
}

// DeleteExecution removes one logged execution.
func (s *SQLiteStore) DeleteExecution(ctx context.Context, execID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM live_trade_executions WHERE id = ?", execID)
	if err != nil {
		return apperrors.NewStoreError("delete_execution", execID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrExecutionNotFound
	}
	return nil
}
