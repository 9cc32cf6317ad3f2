package journal

import (
	"context"
	"encoding/json"
	"time"

	"tradejournal/internal/engine"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
)

// PushToJournal commits a live trade to the journal as a regular trade
// under today's date, synthesizing fills from the entry and the
// execution log. The trade does not need to be fully exited; the
// journal entry is marked open when quantity remains. Pushing twice is
// rejected.
func (s *Service) PushToJournal(ctx context.Context, liveTradeID string) (string, error) {
	lt, err := s.store.GetLiveTrade(ctx, liveTradeID)
	if err != nil {
		return "", err
	}
	if lt.JournalTradeID != "" {
		return "", apperrors.ErrAlreadyPushed
	}

	inst, err := s.Instrument(ctx, lt.Instrument)
	if err != nil {
		return "", err
	}
	snap := engine.Recalculate(lt, inst.DollarsPerPoint)

	today := time.Now().Format("2006-01-02")
	dayID, err := s.store.UpsertDay(ctx, today, lt.PortfolioID)
	if err != nil {
		return "", err
	}

	var exitVal float64
	var exitQty int
	for _, e := range lt.Executions {
		exitVal += e.Price * float64(e.Qty)
		exitQty += e.Qty
	}
	avgExit := lt.EntryPrice
	if exitQty > 0 {
		avgExit = engine.Round4(exitVal / float64(exitQty))
	}
	exitTime := lt.EntryTime
	if n := len(lt.Executions); n > 0 {
		exitTime = lt.Executions[n-1].ExecTime
	}

	entrySide := models.SideBuy
	if lt.Direction == models.DirectionShort {
		entrySide = models.SideSell
	}
	fills := []models.Fill{{
		Side:  entrySide,
		Qty:   lt.TotalQty,
		Price: lt.EntryPrice,
		Time:  lt.EntryTime,
		Date:  today,
	}}
	for _, e := range lt.Executions {
		fills = append(fills, models.Fill{
			Side:  entrySide.Opposite(),
			Qty:   e.Qty,
			Price: e.Price,
			Time:  e.ExecTime,
			Date:  today,
		})
	}

	trade := models.Trade{
		Direction: lt.Direction,
		Qty:       lt.TotalQty,
		AvgEntry:  lt.EntryPrice,
		AvgExit:   avgExit,
		PnL:       snap.RealizedPnL,
		EntryTime: lt.EntryTime,
		ExitTime:  exitTime,
		Open:      snap.RemainingQty > 0,
		Notes:     lt.Notes,
		Fills:     fills,
	}
	tradeID, err := s.store.InsertTrade(ctx, dayID, &trade)
	if err != nil {
		return "", err
	}

	// Tags carry over best effort: malformed tag JSON and tag write
	// failures never abort the commit of the trade itself.
	var tags map[string][]string
	if json.Unmarshal([]byte(lt.TagsJSON), &tags) == nil {
		for groupID, tagList := range tags {
			if err := s.store.SetTradeTags(ctx, tradeID, groupID, tagList); err != nil {
				s.log.Debug().Err(err).
					Str("trade_id", tradeID).
					Str("group_id", groupID).
					Msg("tag carry-over failed, committing without tags")
			}
		}
	}

	closed := models.LiveClosed
	pnl := snap.RealizedPnL
	if err := s.store.UpdateLiveTrade(ctx, liveTradeID, models.LiveTradeUpdate{
		Status:         &closed,
		ClosedAt:       &today,
		RealizedPnL:    &pnl,
		JournalTradeID: &tradeID,
	}); err != nil {
		return "", err
	}

	logging.LogJournalCommit(s.log, liveTradeID, tradeID, pnl)
	return tradeID, nil
}
