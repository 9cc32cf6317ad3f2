package store

import (
	"context"
	"database/sql"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// Analytics computes every aggregate view over closed and open journal
// trades, optionally restricted to one portfolio. NULL aggregates from
// an empty journal scan into zero values.
func (s *SQLiteStore) Analytics(ctx context.Context, portfolioID string) (*models.Analytics, error) {
	var (
		tagFilter string
		dayFilter string
		args      []interface{}
	)
	if portfolioID != "" {
		tagFilter = " AND d.portfolio_id = ?"
		dayFilter = " WHERE d.portfolio_id = ?"
		args = []interface{}{portfolioID}
	}

	out := &models.Analytics{}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT tt.group_id, tt.tag,
		       COUNT(t.id) AS total,
		       SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) AS wins,
		       ROUND(AVG(t.pnl), 2) AS avg_pnl,
		       ROUND(SUM(t.pnl), 2) AS total_pnl,
		       ROUND(100.0 * SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) / COUNT(t.id), 1) AS win_rate
		FROM trade_tags tt
		JOIN trades t       ON t.id = tt.trade_id
		JOIN trading_days d ON d.id = t.day_id
		WHERE 1=1`+tagFilter+`
		GROUP BY tt.group_id, tt.tag
		ORDER BY tt.group_id, avg_pnl DESC
	`, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "tag_stats", err)
	}
	for tagRows.Next() {
		var ts models.TagStat
		if err := tagRows.Scan(&ts.GroupID, &ts.Tag, &ts.Total, &ts.Wins,
			&ts.AvgPnL, &ts.TotalPnL, &ts.WinRate); err != nil {
			tagRows.Close()
			return nil, apperrors.NewStoreError("analytics", "tag_stats", err)
		}
		out.TagStats = append(out.TagStats, ts)
	}
	tagRows.Close()

	hourRows, err := s.db.QueryContext(ctx, `
		SELECT CAST(SUBSTR(t.entry_time, 1, 2) AS INTEGER) AS hour,
		       COUNT(*) AS total,
		       ROUND(AVG(t.pnl), 2) AS avg_pnl,
		       SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) AS wins
		FROM trades t
		JOIN trading_days d ON d.id = t.day_id
		`+dayFilter+`
		GROUP BY hour ORDER BY hour
	`, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "time_stats", err)
	}
	for hourRows.Next() {
		var hs models.HourStat
		if err := hourRows.Scan(&hs.Hour, &hs.Total, &hs.AvgPnL, &hs.Wins); err != nil {
			hourRows.Close()
			return nil, apperrors.NewStoreError("analytics", "time_stats", err)
		}
		out.TimeStats = append(out.TimeStats, hs)
	}
	hourRows.Close()

	dailyRows, err := s.db.QueryContext(ctx, `
		SELECT d.date,
		       COUNT(t.id) AS trades,
		       ROUND(SUM(t.pnl), 2) AS pnl,
		       SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) AS wins
		FROM trading_days d
		JOIN trades t ON t.day_id = d.id
		`+dayFilter+`
		GROUP BY d.id ORDER BY d.date
	`, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "daily", err)
	}
	for dailyRows.Next() {
		var ds models.DailyStat
		if err := dailyRows.Scan(&ds.Date, &ds.Trades, &ds.PnL, &ds.Wins); err != nil {
			dailyRows.Close()
			return nil, apperrors.NewStoreError("analytics", "daily", err)
		}
		out.Daily = append(out.Daily, ds)
	}
	dailyRows.Close()

	var totalPnL, avgPnL, best, worst sql.NullFloat64
	var wins sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) AS total_trades,
		       ROUND(SUM(t.pnl), 2) AS total_pnl,
		       ROUND(AVG(t.pnl), 2) AS avg_pnl,
		       SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) AS wins,
		       ROUND(MAX(t.pnl), 2) AS best_trade,
		       ROUND(MIN(t.pnl), 2) AS worst_trade
		FROM trades t
		JOIN trading_days d ON d.id = t.day_id
		`+dayFilter+`
	`, args...).Scan(&out.Overall.TotalTrades, &totalPnL, &avgPnL, &wins, &best, &worst)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "overall", err)
	}
	out.Overall.TotalPnL = totalPnL.Float64
	out.Overall.AvgPnL = avgPnL.Float64
	out.Overall.Wins = int(wins.Int64)
	out.Overall.BestTrade = best.Float64
	out.Overall.WorstTrade = worst.Float64

	dowRows, err := s.db.QueryContext(ctx, `
		SELECT CAST(STRFTIME('%w', d.date) AS INTEGER) AS dow,
		       COUNT(t.id) AS total,
		       ROUND(SUM(t.pnl), 2) AS total_pnl,
		       ROUND(AVG(t.pnl), 2) AS avg_pnl,
		       SUM(CASE WHEN t.pnl > 0 THEN 1 ELSE 0 END) AS wins
		FROM trades t
		JOIN trading_days d ON d.id = t.day_id
		`+dayFilter+`
		GROUP BY dow ORDER BY dow
	`, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "dow_stats", err)
	}
	for dowRows.Next() {
		var ds models.DOWStat
		if err := dowRows.Scan(&ds.DOW, &ds.Total, &ds.TotalPnL, &ds.AvgPnL, &ds.Wins); err != nil {
			dowRows.Close()
			return nil, apperrors.NewStoreError("analytics", "dow_stats", err)
		}
		out.DOWStats = append(out.DOWStats, ds)
	}
	dowRows.Close()

	pnlRows, err := s.db.QueryContext(ctx, `
		SELECT t.pnl
		FROM trades t
		JOIN trading_days d ON d.id = t.day_id
		`+dayFilter+`
		ORDER BY d.date, t.entry_time
	`, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("analytics", "streaks", err)
	}
	var pnls []float64
	for pnlRows.Next() {
		var p float64
		if err := pnlRows.Scan(&p); err != nil {
			pnlRows.Close()
			return nil, apperrors.NewStoreError("analytics", "streaks", err)
		}
		pnls = append(pnls, p)
	}
	pnlRows.Close()
	out.Streaks = computeStreaks(pnls)

	return out, nil
}

// computeStreaks derives current, best-win and worst-loss runs from a
// chronological P&L series. Breakeven trades break a streak but never
// count as one.
func computeStreaks(pnls []float64) models.Streaks {
	if len(pnls) == 0 {
		return models.Streaks{History: []string{}}
	}

	results := make([]string, len(pnls))
	for i, p := range pnls {
		switch {
		case p > 0:
			results[i] = "W"
		case p < 0:
			results[i] = "L"
		default:
			results[i] = "B"
		}
	}

	curType := results[len(results)-1]
	curCount := 0
	for i := len(results) - 1; i >= 0; i-- {
		if results[i] != curType {
			break
		}
		curCount++
	}
	if curType == "B" {
		curCount = 0
	}

	var bestWin, worstLoss, run int
	runType := results[0]
	flush := func() {
		if runType == "W" && run > bestWin {
			bestWin = run
		}
		if runType == "L" && run > worstLoss {
			worstLoss = run
		}
	}
	for _, r := range results {
		if r == runType {
			run++
			continue
		}
		flush()
		runType, run = r, 1
	}
	flush()

	history := results
	if len(history) > 20 {
		history = history[len(history)-20:]
	}

	return models.Streaks{
		Current:     curCount,
		CurrentType: curType,
		BestWin:     bestWin,
		WorstLoss:   worstLoss,
		History:     history,
	}
}
